package events

import (
	"strconv"

	"github.com/you/chatwire/internal/irc"
)

// Money converts a tag value expressed in hundredths to its decimal value.
// Non-numeric input silently yields zero.
func Money(raw string) float64 {
	if n, err := strconv.Atoi(raw); err == nil {
		return float64(n) / 100
	}
	return 0
}

// ReplyThread describes the message a chat message replies to.
type ReplyThread struct {
	ParentMessageID string
	ParentUsername  string
	ParentUserID    string
	ParentText      string
	ThreadMessageID string
	ThreadUsername  string
	ThreadUserID    string
}

// NewReplyThread builds a ReplyThread from message tags, or nil when the
// message is not a reply.
func NewReplyThread(t irc.Tags) *ReplyThread {
	if !t.Has(irc.TagReplyParentMsgID) {
		return nil
	}
	return &ReplyThread{
		ParentMessageID: t.String(irc.TagReplyParentMsgID, ""),
		ParentUsername:  t.String(irc.TagReplyParentUserLogin, ""),
		ParentUserID:    t.String(irc.TagReplyParentUserID, ""),
		ParentText:      t.String(irc.TagReplyParentMsgBody, ""),
		ThreadMessageID: t.String(irc.TagReplyThreadParentMsgID, ""),
		ThreadUsername:  t.String(irc.TagReplyThreadParentLogin, ""),
		ThreadUserID:    t.String(irc.TagReplyThreadParentID, ""),
	}
}

// PaidPin carries the paid-pin details of a chat message (hype chat).
type PaidPin struct {
	Amount          float64
	CanonicalAmount float64
	Currency        string
	Exponent        int
	IsSystemMessage bool
	Level           string
}

// NewPaidPin builds a PaidPin from message tags, or nil when the message
// was not paid-pinned.
func NewPaidPin(t irc.Tags) *PaidPin {
	if !t.Has(irc.TagPinnedPaidAmount) {
		return nil
	}
	return &PaidPin{
		Amount:          Money(t.String(irc.TagPinnedPaidAmount, "")),
		CanonicalAmount: Money(t.String(irc.TagPinnedPaidCanonicalAmount, "")),
		Currency:        t.String(irc.TagPinnedPaidCurrency, ""),
		Exponent:        t.Int(irc.TagPinnedPaidExponent, 0),
		IsSystemMessage: t.String(irc.TagPinnedPaidIsSystemMessage, "") == "1",
		Level:           t.String(irc.TagPinnedPaidLevel, ""),
	}
}

// ClassifyMessage derives the message type from the msg-id and
// custom-reward-id tags. For unrecognized msg-id values it returns
// MessageNormal plus the raw value for diagnostics.
func ClassifyMessage(msgID, customRewardID string) (MessageType, string) {
	if msgID == "" {
		if customRewardID != "" {
			return MessageCustomReward, ""
		}
		return MessageNormal, ""
	}
	switch msgID {
	case irc.MsgIDAnnouncement:
		return MessageAnnouncement, ""
	case irc.MsgIDHighlightedMessage:
		return MessageHighlighted, ""
	case irc.MsgIDUserIntro:
		return MessageUserIntro, ""
	case irc.MsgIDGigantifiedEmote:
		return MessageGigantifiedEmote, ""
	case irc.MsgIDAnimatedMessage:
		return MessageAnimated, ""
	default:
		return MessageNormal, msgID
	}
}
