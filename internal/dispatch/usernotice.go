package dispatch

import (
	"github.com/you/chatwire/internal/events"
	"github.com/you/chatwire/internal/irc"
)

// handleUsernotice fans a USERNOTICE out by its msg-id. Everything here
// follows the vocabulary at https://dev.twitch.tv/docs/irc/msg-id.
func (d *Dispatcher) handleUsernotice(raw string, m *irc.Message) {
	msgID := m.Tags.String(irc.TagMsgID, "")

	switch msgID {
	case irc.MsgIDAnnouncement:
		if d.h.OnChatMessage != nil {
			d.h.OnChatMessage(d.buildChat(m, m.Tags.String(irc.TagLogin, ""), msgID))
		}

	case irc.MsgIDSub:
		if d.h.OnSubscribe == nil && d.h.OnSubscriptionCounter == nil {
			return
		}
		e := events.Subscribe{
			Base:          d.base(m),
			Channel:       m.Channel,
			Username:      m.Tags.String(irc.TagLogin, ""),
			UserID:        m.Tags.String(irc.TagUserID, ""),
			Months:        m.Tags.Int(irc.TagMsgParamCumulativeMonths, 0),
			Plan:          events.SubPlanFromTag(m.Tags.String(irc.TagMsgParamSubPlan, "")),
			SystemMessage: m.Tags.String(irc.TagSystemMsg, ""),
		}
		if d.h.OnSubscribe != nil {
			d.h.OnSubscribe(e)
		}
		if d.h.OnSubscriptionCounter != nil {
			d.h.OnSubscriptionCounter(events.CounterFromSubscribe(e))
		}

	case irc.MsgIDResub:
		if d.h.OnResubscribe == nil && d.h.OnSubscriptionCounter == nil {
			return
		}
		e := events.Resubscribe{
			Base:          d.base(m),
			Channel:       m.Channel,
			Username:      m.Tags.String(irc.TagLogin, ""),
			UserID:        m.Tags.String(irc.TagUserID, ""),
			Text:          m.Text,
			Emotes:        d.decodeEmotes(m),
			Months:        m.Tags.Int(irc.TagMsgParamCumulativeMonths, 0),
			Plan:          events.SubPlanFromTag(m.Tags.String(irc.TagMsgParamSubPlan, "")),
			SystemMessage: m.Tags.String(irc.TagSystemMsg, ""),
		}
		if d.h.OnResubscribe != nil {
			d.h.OnResubscribe(e)
		}
		if d.h.OnSubscriptionCounter != nil {
			d.h.OnSubscriptionCounter(events.CounterFromResubscribe(e))
		}

	case irc.MsgIDSubGift:
		if d.h.OnGiftSubscription == nil && d.h.OnSubscriptionCounter == nil {
			return
		}
		login := m.Tags.String(irc.TagLogin, "")
		senderCount := m.Tags.Int(irc.TagMsgParamSenderCount, 0)

		fromAnonymousBatch := false
		if login == irc.LoginAnonymousGifter {
			fromAnonymousBatch = d.giftIDs.Contains(m.Tags.String(irc.TagMsgParamOriginID, ""))
		}

		giftType := events.PersonalGift
		if (login != irc.LoginAnonymousGifter && senderCount == 0) || fromAnonymousBatch {
			giftType = events.CommunityGift
		}

		e := events.GiftSubscription{
			Base:              d.base(m),
			Channel:           m.Channel,
			Username:          login,
			UserID:            m.Tags.String(irc.TagUserID, ""),
			RecipientUsername: m.Tags.String(irc.TagMsgParamRecipientUsername, ""),
			RecipientUserID:   m.Tags.String(irc.TagMsgParamRecipientUserID, ""),
			TotalGifted:       senderCount,
			Plan:              events.SubPlanFromTag(m.Tags.String(irc.TagMsgParamSubPlan, "")),
			SystemMessage:     m.Tags.String(irc.TagSystemMsg, ""),
			GiftType:          giftType,
		}
		if d.h.OnGiftSubscription != nil {
			d.h.OnGiftSubscription(e)
		}
		// Community gift parts are already counted by their batch notice.
		if d.h.OnSubscriptionCounter != nil && e.GiftType == events.PersonalGift {
			d.h.OnSubscriptionCounter(events.CounterFromGift(e))
		}

	case irc.MsgIDMysterySubGift:
		if d.h.OnCommunityGiftSubscription == nil && d.h.OnSubscriptionCounter == nil {
			return
		}
		login := m.Tags.String(irc.TagLogin, "")
		if login == irc.LoginAnonymousGifter {
			// Remember the batch so the per-recipient follow-ups can be
			// told apart from direct anonymous gifts.
			d.giftIDs.Add(m.Tags.String(irc.TagMsgParamOriginID, ""))
		}
		e := events.CommunityGiftSubscription{
			Base:          d.base(m),
			Channel:       m.Channel,
			Username:      login,
			UserID:        m.Tags.String(irc.TagUserID, ""),
			GiftCount:     m.Tags.Int(irc.TagMsgParamMassGiftCount, 0),
			TotalGifted:   m.Tags.Int(irc.TagMsgParamSenderCount, 0),
			Plan:          events.SubPlanFromTag(m.Tags.String(irc.TagMsgParamSubPlan, "")),
			SystemMessage: m.Tags.String(irc.TagSystemMsg, ""),
		}
		if d.h.OnCommunityGiftSubscription != nil {
			d.h.OnCommunityGiftSubscription(e)
		}
		if d.h.OnSubscriptionCounter != nil {
			d.h.OnSubscriptionCounter(events.CounterFromCommunityGift(e))
		}

	case irc.MsgIDGiftPaidUpgrade:
		if d.h.OnContinuingGift != nil {
			d.h.OnContinuingGift(events.ContinuingGift{
				Base:           d.base(m),
				Channel:        m.Channel,
				Username:       m.Tags.String(irc.TagLogin, ""),
				UserID:         m.Tags.String(irc.TagUserID, ""),
				GifterUsername: m.Tags.String(irc.TagMsgParamSenderLogin, ""),
				SystemMessage:  m.Tags.String(irc.TagSystemMsg, ""),
			})
		}

	case irc.MsgIDAnonGiftPaidUpgrade:
		if d.h.OnContinuingAnonymousGift != nil {
			d.h.OnContinuingAnonymousGift(events.ContinuingAnonymousGift{
				Base:          d.base(m),
				Channel:       m.Channel,
				Username:      m.Tags.String(irc.TagLogin, ""),
				UserID:        m.Tags.String(irc.TagUserID, ""),
				SystemMessage: m.Tags.String(irc.TagSystemMsg, ""),
			})
		}

	case irc.MsgIDPrimePaidUpgrade:
		if d.h.OnPrimeUpgrade != nil {
			d.h.OnPrimeUpgrade(events.PrimeUpgrade{
				Base:          d.base(m),
				Channel:       m.Channel,
				Username:      m.Tags.String(irc.TagLogin, ""),
				UserID:        m.Tags.String(irc.TagUserID, ""),
				Plan:          events.SubPlanFromTag(m.Tags.String(irc.TagMsgParamSubPlan, "")),
				SystemMessage: m.Tags.String(irc.TagSystemMsg, ""),
			})
		}

	case irc.MsgIDCommunityPayForward:
		if d.h.OnCommunityPayForward != nil {
			d.h.OnCommunityPayForward(events.CommunityPayForward{
				Base:                d.base(m),
				Channel:             m.Channel,
				Username:            m.Tags.String(irc.TagLogin, ""),
				UserID:              m.Tags.String(irc.TagUserID, ""),
				PriorGifterUsername: m.Tags.String(irc.TagMsgParamPriorGifter, ""),
				PriorGifterUserID:   m.Tags.String(irc.TagMsgParamPriorGifterID, ""),
				SystemMessage:       m.Tags.String(irc.TagSystemMsg, ""),
			})
		}

	case irc.MsgIDStandardPayForward:
		if d.h.OnSubscriptionPayForward != nil {
			d.h.OnSubscriptionPayForward(events.SubscriptionPayForward{
				Base:                d.base(m),
				Channel:             m.Channel,
				Username:            m.Tags.String(irc.TagLogin, ""),
				UserID:              m.Tags.String(irc.TagUserID, ""),
				PriorGifterUsername: m.Tags.String(irc.TagMsgParamPriorGifter, ""),
				PriorGifterUserID:   m.Tags.String(irc.TagMsgParamPriorGifterID, ""),
				RecipientUsername:   m.Tags.String(irc.TagMsgParamRecipientUsername, ""),
				RecipientUserID:     m.Tags.String(irc.TagMsgParamRecipientUserID, ""),
				SystemMessage:       m.Tags.String(irc.TagSystemMsg, ""),
			})
		}

	case irc.MsgIDBitsBadgeTier:
		if d.h.OnBitsBadge != nil {
			d.h.OnBitsBadge(events.BitsBadge{
				Base:        d.base(m),
				Channel:     m.Channel,
				Username:    m.Tags.String(irc.TagLogin, ""),
				UserID:      m.Tags.String(irc.TagUserID, ""),
				Text:        m.Text,
				DisplayName: m.Tags.String(irc.TagDisplayName, ""),
				Threshold:   m.Tags.Int(irc.TagMsgParamThreshold, 0),
			})
		}

	case irc.MsgIDRaid:
		if d.h.OnRaid != nil {
			d.h.OnRaid(events.Raid{
				Base:     d.base(m),
				Channel:  m.Channel,
				Username: m.Tags.String(irc.TagLogin, ""),
				UserID:   m.Tags.String(irc.TagUserID, ""),
				Viewers:  m.Tags.Int(irc.TagMsgParamViewerCount, 0),
			})
		}

	case irc.MsgIDUnraid:
		if d.h.OnRaidCancelled != nil {
			d.h.OnRaidCancelled(events.RaidCancelled{
				Base:          d.base(m),
				Channel:       m.Channel,
				Username:      m.Tags.String(irc.TagLogin, ""),
				UserID:        m.Tags.String(irc.TagUserID, ""),
				SystemMessage: m.Tags.String(irc.TagSystemMsg, ""),
			})
		}

	case irc.MsgIDMidnightsquid:
		if d.h.OnElevatedMessage != nil {
			d.h.OnElevatedMessage(events.ElevatedMessage{
				Base:          d.base(m),
				Channel:       m.Channel,
				Username:      m.Tags.String(irc.TagLogin, ""),
				UserID:        m.Tags.String(irc.TagUserID, ""),
				SystemMessage: m.Tags.String(irc.TagSystemMsg, ""),
				Amount:        events.Money(m.Tags.String(irc.TagMsgParamAmount, "")),
				Currency:      m.Tags.String(irc.TagMsgParamCurrency, ""),
			})
		}

	case irc.MsgIDViewerMilestone:
		if d.h.OnViewerMilestone != nil {
			category := m.Tags.String(irc.TagMsgParamCategory, "")
			d.h.OnViewerMilestone(events.ViewerMilestone{
				Base:          d.base(m),
				Channel:       m.Channel,
				Username:      m.Tags.String(irc.TagLogin, ""),
				UserID:        m.Tags.String(irc.TagUserID, ""),
				SystemMessage: m.Tags.String(irc.TagSystemMsg, ""),
				Category:      events.Money(category),
				CategoryRaw:   category,
				Value:         m.Tags.String(irc.TagMsgParamValue, ""),
			})
		}

	case irc.MsgIDOneTapStreakStarted:
		if d.h.OnOneTapStreakStarted != nil {
			d.h.OnOneTapStreakStarted(events.OneTapStreakStarted{
				Base:          d.base(m),
				Channel:       m.Channel,
				Username:      m.Tags.String(irc.TagLogin, ""),
				UserID:        m.Tags.String(irc.TagUserID, ""),
				SystemMessage: m.Tags.String(irc.TagSystemMsg, ""),
				SourceRoomID:  m.Tags.String(irc.TagSourceRoomID, ""),
				GiftID:        m.Tags.String(irc.TagMsgParamGiftID, ""),
				MsRemaining:   m.Tags.Int("msg-param-ms-remaining", 0),
			})
		}

	case irc.MsgIDOneTapStreakExpired:
		if d.h.OnOneTapStreakExpired != nil {
			d.h.OnOneTapStreakExpired(events.OneTapStreakExpired{
				Base:                    d.base(m),
				Channel:                 m.Channel,
				Username:                m.Tags.String(irc.TagLogin, ""),
				UserID:                  m.Tags.String(irc.TagUserID, ""),
				SystemMessage:           m.Tags.String(irc.TagSystemMsg, ""),
				SourceRoomID:            m.Tags.String(irc.TagSourceRoomID, ""),
				GiftID:                  m.Tags.String(irc.TagMsgParamGiftID, ""),
				Contributor1:            m.Tags.String("msg-param-contributor-1", ""),
				Contributor1Taps:        m.Tags.Int("msg-param-contributor-1-taps", 0),
				Contributor2:            m.Tags.String("msg-param-contributor-2", ""),
				Contributor2Taps:        m.Tags.Int("msg-param-contributor-2-taps", 0),
				LargestContributorCount: m.Tags.Int("msg-param-largest-contributor-count", 0),
				StreakSizeBits:          m.Tags.Int("msg-param-streak-size-bits", 0),
				StreakSizeTaps:          m.Tags.Int("msg-param-streak-size-taps", 0),
			})
		}

	case irc.MsgIDOneTapBreakpointAchieved:
		if d.h.OnOneTapBreakpointAchieved != nil {
			d.h.OnOneTapBreakpointAchieved(events.OneTapBreakpointAchieved{
				Base:                    d.base(m),
				Channel:                 m.Channel,
				Username:                m.Tags.String(irc.TagLogin, ""),
				UserID:                  m.Tags.String(irc.TagUserID, ""),
				SystemMessage:           m.Tags.String(irc.TagSystemMsg, ""),
				SourceRoomID:            m.Tags.String(irc.TagSourceRoomID, ""),
				GiftID:                  m.Tags.String(irc.TagMsgParamGiftID, ""),
				BreakpointNumber:        m.Tags.Int("msg-param-breakpoint-number", 0),
				BreakpointThresholdBits: m.Tags.Int("msg-param-breakpoint-threshold-bits", 0),
			})
		}

	case irc.MsgIDOneTapGiftRedeemed:
		if d.h.OnOneTapGiftRedeemed != nil {
			d.h.OnOneTapGiftRedeemed(events.OneTapGiftRedeemed{
				Base:            d.base(m),
				Channel:         m.Channel,
				Username:        m.Tags.String(irc.TagLogin, ""),
				UserID:          m.Tags.String(irc.TagUserID, ""),
				SystemMessage:   m.Tags.String(irc.TagSystemMsg, ""),
				SourceRoomID:    m.Tags.String(irc.TagSourceRoomID, ""),
				BitsSpent:       m.Tags.Int("msg-param-bits-spent", 0),
				GiftID:          m.Tags.String(irc.TagMsgParamGiftID, ""),
				UserDisplayName: m.Tags.String("msg-param-user-display-name", ""),
			})
		}

	case irc.MsgIDSharedChatNotice:
		if d.h.OnSharedChatNotice != nil {
			d.h.OnSharedChatNotice(events.SharedChatNotice{
				Base:          d.base(m),
				Channel:       m.Channel,
				Username:      m.Tags.String(irc.TagLogin, ""),
				UserID:        m.Tags.String(irc.TagUserID, ""),
				SystemMessage: m.Tags.String(irc.TagSystemMsg, ""),
				SourceRoomID:  m.Tags.String(irc.TagSourceRoomID, ""),
			})
		}

	default:
		d.unknown(raw, irc.CmdUsernotice, "msg-id was unknown or missing")
	}
}
