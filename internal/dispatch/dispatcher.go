// Package dispatch turns parsed TMI lines into typed events and delivers
// them to application callbacks.
package dispatch

import (
	"strings"
	"sync"
	"time"

	"github.com/you/chatwire/internal/events"
	"github.com/you/chatwire/internal/irc"
	"github.com/you/chatwire/internal/ringset"
)

// Sender is the outbound half the dispatcher needs: replying to server
// keepalives, leaving suspended channels and honoring forced reconnects.
// All methods must be safe to call from the ingest goroutine.
type Sender interface {
	Pong(payload string)
	PartChannel(channel string) error
	Reconnect()
}

// Handlers holds the application callbacks. Nil entries mean no interest;
// payloads for them are not even built.
type Handlers struct {
	// OnRawMessage fires for every ingested line, before parsing.
	OnRawMessage func(line string)
	// OnParsedMessage fires for every line the parser understood.
	OnParsedMessage func(m *irc.Message)
	// OnUnknownMessage fires for unparseable lines and for tag
	// combinations no event covers.
	OnUnknownMessage func(e events.Unknown)

	// OnConnected and OnDisconnected follow the connection lifecycle.
	// The connection manager fires them; routing never does.
	OnConnected    func()
	OnDisconnected func()

	// OnReconnectRequested fires when the server orders a reconnect,
	// before the connection is torn down.
	OnReconnectRequested func(e events.ReconnectRequested)

	OnChatMessage     func(e events.ChatMessage)
	OnBitsChatMessage func(e events.ChatMessage)
	OnWhisper         func(e events.Whisper)
	OnNotice          func(e events.Notice)
	OnHost            func(e events.Host)
	OnNamesList       func(e events.NamesList)
	OnPing            func(e events.Ping)

	OnChannelJoined func(e events.ChannelJoined)
	OnChannelParted func(e events.ChannelParted)
	OnUserJoined    func(e events.UserJoined)
	OnUserParted    func(e events.UserParted)

	OnRoomState            func(e events.RoomState)
	OnEmoteOnlyState       func(e events.EmoteOnlyState)
	OnFollowersOnlyState   func(e events.FollowersOnlyState)
	OnSlowModeState        func(e events.SlowModeState)
	OnSubscribersOnlyState func(e events.SubscribersOnlyState)

	OnUserTimeout    func(e events.UserTimeout)
	OnUserBanned     func(e events.UserBanned)
	OnChatCleared    func(e events.ChatCleared)
	OnMessageDeleted func(e events.MessageDeleted)

	OnSubscribe                 func(e events.Subscribe)
	OnResubscribe               func(e events.Resubscribe)
	OnGiftSubscription          func(e events.GiftSubscription)
	OnCommunityGiftSubscription func(e events.CommunityGiftSubscription)
	OnContinuingGift            func(e events.ContinuingGift)
	OnContinuingAnonymousGift   func(e events.ContinuingAnonymousGift)
	OnPrimeUpgrade              func(e events.PrimeUpgrade)
	OnBitsBadge                 func(e events.BitsBadge)
	OnCommunityPayForward       func(e events.CommunityPayForward)
	OnSubscriptionPayForward    func(e events.SubscriptionPayForward)
	OnSubscriptionCounter       func(e events.SubscriptionCounter)

	OnRaid          func(e events.Raid)
	OnRaidCancelled func(e events.RaidCancelled)

	OnElevatedMessage func(e events.ElevatedMessage)
	OnViewerMilestone func(e events.ViewerMilestone)

	OnOneTapStreakStarted      func(e events.OneTapStreakStarted)
	OnOneTapStreakExpired      func(e events.OneTapStreakExpired)
	OnOneTapBreakpointAchieved func(e events.OneTapBreakpointAchieved)
	OnOneTapGiftRedeemed       func(e events.OneTapGiftRedeemed)
	OnSharedChatNotice         func(e events.SharedChatNotice)
}

// Config controls dispatcher behavior.
type Config struct {
	// Username is the bot's own login, used to tell self JOIN/PART from
	// other users'.
	Username string
	// IncludeMessages attaches the parsed message to every event payload.
	IncludeMessages bool
	// ParseEmotes decodes emote spans on chat and resub messages.
	ParseEmotes bool
	// KeepRaw retains the raw line on parsed messages.
	KeepRaw bool
	// Sender handles outbound reactions. May be nil for read-only use;
	// keepalive replies and suspended-channel parts are then skipped.
	Sender Sender
	// GiftWindow is the capacity of the anonymous community gift
	// correlator. Values below 10 are clamped up.
	GiftWindow int
}

// Dispatcher routes parsed messages to handlers and owns the session
// state that routing needs.
type Dispatcher struct {
	h        Handlers
	username string
	include  bool
	emotes   bool
	keepRaw  bool
	sender   Sender

	mu      sync.Mutex
	joined  []string
	giftIDs *ringset.Set
}

// New builds a Dispatcher for the given login.
func New(cfg Config, h Handlers) *Dispatcher {
	window := cfg.GiftWindow
	if window <= 0 {
		window = 100
	}
	return &Dispatcher{
		h:        h,
		username: strings.ToLower(cfg.Username),
		include:  cfg.IncludeMessages,
		emotes:   cfg.ParseEmotes,
		keepRaw:  cfg.KeepRaw,
		sender:   cfg.Sender,
		giftIDs:  ringset.New(window),
	}
}

// Channels returns a copy of the joined-channel set.
func (d *Dispatcher) Channels() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.joined))
	copy(out, d.joined)
	return out
}

// Ingest feeds one raw line through the full pipeline: raw callback,
// parse, classification, delivery. Calls are serialized; events fire in
// ingest order.
func (d *Dispatcher) Ingest(raw string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.h.OnRawMessage != nil {
		d.h.OnRawMessage(raw)
	}

	m := irc.ParseMessage(raw, d.keepRaw)
	if m == nil {
		d.unknown(raw, "", "message could not be parsed")
		return
	}

	if d.h.OnParsedMessage != nil {
		d.h.OnParsedMessage(m)
	}

	d.route(raw, m)
}

func (d *Dispatcher) route(raw string, m *irc.Message) {
	switch m.Command {
	case irc.CmdPrivmsg:
		d.handlePrivmsg(m)
	case irc.CmdUsernotice:
		d.handleUsernotice(raw, m)
	case irc.CmdClearchat, irc.CmdClearmsg:
		d.handleModeration(m)
	case irc.CmdWhisper:
		if d.h.OnWhisper != nil {
			d.h.OnWhisper(events.Whisper{
				Base:     d.base(m),
				Username: m.Username,
				UserID:   m.Tags.String(irc.TagUserID, ""),
				Text:     m.Text,
			})
		}
	case irc.CmdRoomstate:
		d.handleRoomstate(raw, m)
	case irc.CmdNotice:
		d.handleNotice(m)
	case irc.CmdHosttarget:
		if d.h.OnHost != nil {
			d.h.OnHost(events.Host{
				Base:          d.base(m),
				Channel:       m.Channel,
				TargetChannel: m.Tags.String(irc.TagHostTarget, ""),
				Viewers:       m.Tags.Int(irc.TagHostViewers, 0),
			})
		}
	case irc.CmdJoin:
		if m.Username == d.username {
			if !contains(d.joined, m.Channel) {
				d.joined = append(d.joined, m.Channel)
			}
			if d.h.OnChannelJoined != nil {
				d.h.OnChannelJoined(events.ChannelJoined{Base: d.base(m), Channel: m.Channel})
			}
		} else if d.h.OnUserJoined != nil {
			d.h.OnUserJoined(events.UserJoined{Base: d.base(m), Channel: m.Channel, Username: m.Username})
		}
	case irc.CmdPart:
		if m.Username == d.username {
			d.joined = remove(d.joined, m.Channel)
			if d.h.OnChannelParted != nil {
				d.h.OnChannelParted(events.ChannelParted{Base: d.base(m), Channel: m.Channel})
			}
		} else if d.h.OnUserParted != nil {
			d.h.OnUserParted(events.UserParted{Base: d.base(m), Channel: m.Channel, Username: m.Username})
		}
	case irc.CmdPing:
		if d.h.OnPing != nil {
			d.h.OnPing(events.Ping{Base: d.base(m)})
		}
		if d.sender != nil {
			d.sender.Pong(m.Text)
		}
	case irc.CmdReconnect:
		if d.h.OnReconnectRequested != nil {
			d.h.OnReconnectRequested(events.ReconnectRequested{Base: d.base(m)})
		}
		if d.sender != nil {
			d.sender.Reconnect()
		}
	case irc.CmdNamesList:
		// The first page after joining lists only the bot itself.
		if m.Text != d.username && d.h.OnNamesList != nil {
			d.h.OnNamesList(events.NamesList{
				Base:      d.base(m),
				Channel:   m.Channel,
				Usernames: strings.Fields(m.Text),
			})
		}
	}
}

func (d *Dispatcher) handlePrivmsg(m *irc.Message) {
	if d.h.OnChatMessage == nil && d.h.OnBitsChatMessage == nil {
		return
	}

	e := d.buildChat(m, m.Username, m.Tags.String(irc.TagMsgID, ""))

	if d.h.OnChatMessage != nil {
		d.h.OnChatMessage(e)
	}
	if d.h.OnBitsChatMessage != nil && e.Bits > 0 {
		d.h.OnBitsChatMessage(e)
	}
}

// buildChat assembles the shared chat payload used by PRIVMSG and
// announcement USERNOTICEs.
func (d *Dispatcher) buildChat(m *irc.Message, username, msgID string) events.ChatMessage {
	badges := m.Tags.String(irc.TagBadges, "")
	msgType, unknownType := events.ClassifyMessage(msgID, m.Tags.String(irc.TagCustomRewardID, ""))

	return events.ChatMessage{
		Base:     d.base(m),
		Channel:  m.Channel,
		Username: username,
		UserID:   m.Tags.String(irc.TagUserID, ""),
		Text:     m.Text,
		Emotes:   d.decodeEmotes(m),
		Bits:     m.Tags.Int(irc.TagBits, 0),
		ID:       m.Tags.String(irc.TagID, ""),

		Type:        msgType,
		UnknownType: unknownType,

		IsMe:               m.Tags.Has(irc.TagIsMe),
		IsFirstMessage:     m.Tags.String(irc.TagFirstMsg, "") == "1",
		IsReturningChatter: m.Tags.String(irc.TagReturningChatter, "") == "1",
		IsBroadcaster:      strings.Contains(badges, irc.BadgeBroadcaster),
		IsModerator:        strings.Contains(badges, irc.BadgeModerator),
		IsFounder:          strings.Contains(badges, irc.BadgeFounder),
		IsSubscriber:       strings.Contains(badges, irc.BadgeSubscriber),
		IsVIP:              strings.Contains(badges, irc.BadgeVIP),
		IsStaff:            strings.Contains(badges, irc.BadgeStaff),

		Reply:   events.NewReplyThread(m.Tags),
		PaidPin: events.NewPaidPin(m.Tags),
	}
}

func (d *Dispatcher) handleRoomstate(raw string, m *irc.Message) {
	hasEmoteOnly := m.Tags.Has(irc.TagEmoteOnly)
	hasFollowers := m.Tags.Has(irc.TagFollowersOnly)
	hasSlow := m.Tags.Has(irc.TagSlow)
	hasSubsOnly := m.Tags.Has(irc.TagSubsOnly)

	switch {
	case hasEmoteOnly && hasFollowers && hasSlow && hasSubsOnly:
		if d.h.OnRoomState != nil {
			followersOnly, followersTime := followersMode(m.Tags.Int(irc.TagFollowersOnly, 0))
			d.h.OnRoomState(events.RoomState{
				Base:          d.base(m),
				Channel:       m.Channel,
				EmoteOnly:     m.Tags.Int(irc.TagEmoteOnly, 0) == 1,
				FollowersOnly: followersOnly,
				FollowersTime: followersTime,
				SlowMode:      time.Duration(m.Tags.Int(irc.TagSlow, 0)) * time.Second,
				SubsOnly:      m.Tags.Int(irc.TagSubsOnly, 0) == 1,
			})
		}
	case hasEmoteOnly && !hasFollowers && !hasSlow && !hasSubsOnly:
		if d.h.OnEmoteOnlyState != nil {
			d.h.OnEmoteOnlyState(events.EmoteOnlyState{
				Base:    d.base(m),
				Channel: m.Channel,
				Active:  m.Tags.Int(irc.TagEmoteOnly, 0) == 1,
			})
		}
	case hasFollowers && !hasEmoteOnly && !hasSlow && !hasSubsOnly:
		if d.h.OnFollowersOnlyState != nil {
			active, followersTime := followersMode(m.Tags.Int(irc.TagFollowersOnly, 0))
			d.h.OnFollowersOnlyState(events.FollowersOnlyState{
				Base:          d.base(m),
				Channel:       m.Channel,
				Active:        active,
				FollowersTime: followersTime,
			})
		}
	case hasSlow && !hasEmoteOnly && !hasFollowers && !hasSubsOnly:
		if d.h.OnSlowModeState != nil {
			d.h.OnSlowModeState(events.SlowModeState{
				Base:    d.base(m),
				Channel: m.Channel,
				Delay:   time.Duration(m.Tags.Int(irc.TagSlow, 0)) * time.Second,
			})
		}
	case hasSubsOnly && !hasEmoteOnly && !hasFollowers && !hasSlow:
		if d.h.OnSubscribersOnlyState != nil {
			d.h.OnSubscribersOnlyState(events.SubscribersOnlyState{
				Base:    d.base(m),
				Channel: m.Channel,
				Active:  m.Tags.Int(irc.TagSubsOnly, 0) == 1,
			})
		}
	default:
		d.unknown(raw, irc.CmdRoomstate, "unexpected room state tag combination")
	}
}

func (d *Dispatcher) handleModeration(m *irc.Message) {
	if m.Command == irc.CmdClearmsg {
		if d.h.OnMessageDeleted != nil {
			d.h.OnMessageDeleted(events.MessageDeleted{
				Base:     d.base(m),
				Channel:  m.Channel,
				Username: m.Tags.String(irc.TagLogin, ""),
				UserID:   m.Tags.String(irc.TagUserID, ""),
				Text:     m.Text,
			})
		}
		return
	}

	if !m.Tags.Has(irc.TagTargetUserID) {
		if d.h.OnChatCleared != nil {
			d.h.OnChatCleared(events.ChatCleared{Base: d.base(m), Channel: m.Channel})
		}
		return
	}

	// The trailing text of a targeted CLEARCHAT is the login.
	duration := m.Tags.Int(irc.TagBanDuration, 0)
	if duration > 0 {
		if d.h.OnUserTimeout != nil {
			d.h.OnUserTimeout(events.UserTimeout{
				Base:     d.base(m),
				Channel:  m.Channel,
				Username: m.Text,
				UserID:   m.Tags.String(irc.TagTargetUserID, ""),
				Duration: time.Duration(duration) * time.Second,
			})
		}
		return
	}

	if d.h.OnUserBanned != nil {
		d.h.OnUserBanned(events.UserBanned{
			Base:     d.base(m),
			Channel:  m.Channel,
			Username: m.Text,
			UserID:   m.Tags.String(irc.TagTargetUserID, ""),
		})
	}
}

func (d *Dispatcher) handleNotice(m *irc.Message) {
	msgID := m.Tags.String(irc.TagMsgID, "")

	// Leaving a suspended channel keeps the rejoin list honest. The one
	// place routing reaches back into the outbound side.
	if msgID == irc.MsgIDChannelSuspended && d.sender != nil {
		_ = d.sender.PartChannel(m.Channel)
	}

	if d.h.OnNotice != nil {
		d.h.OnNotice(events.Notice{
			Base:       d.base(m),
			Channel:    m.Channel,
			Text:       m.Text,
			NoticeType: msgID,
		})
	}
}

func (d *Dispatcher) base(m *irc.Message) events.Base {
	b := events.Base{Time: m.Time}
	if d.include {
		b.Msg = m
	}
	return b
}

func (d *Dispatcher) decodeEmotes(m *irc.Message) *irc.Emotes {
	if d.emotes {
		return irc.ParseEmotes(m.Tags.String(irc.TagEmotes, ""))
	}
	return irc.ParseEmotes("")
}

func (d *Dispatcher) unknown(raw, command, reason string) {
	if d.h.OnUnknownMessage != nil {
		d.h.OnUnknownMessage(events.Unknown{Raw: raw, Command: command, Reason: reason})
	}
}

func followersMode(minutes int) (bool, time.Duration) {
	if minutes == -1 {
		return false, 0
	}
	return true, time.Duration(minutes) * time.Minute
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
