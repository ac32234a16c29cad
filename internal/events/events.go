// Package events defines the typed payloads the dispatcher delivers to
// application callbacks.
package events

import (
	"time"

	"github.com/you/chatwire/internal/irc"
)

// Base carries what every event shares: the resolved timestamp of the
// underlying line and, when enabled, the parsed message itself.
type Base struct {
	Time time.Time
	Msg  *irc.Message
}

// ChatMessage is a PRIVMSG (also delivered for bits messages and
// announcements).
type ChatMessage struct {
	Base
	Channel  string
	Username string
	UserID   string
	Text     string
	Emotes   *irc.Emotes
	Bits     int
	ID       string

	Type MessageType
	// UnknownType holds the raw msg-id when Type is MessageNormal only
	// because the value was not recognized.
	UnknownType string

	IsMe               bool
	IsFirstMessage     bool
	IsReturningChatter bool
	IsBroadcaster      bool
	IsModerator        bool
	IsFounder          bool
	IsSubscriber       bool
	IsVIP              bool
	IsStaff            bool

	Reply   *ReplyThread
	PaidPin *PaidPin
}

// Whisper is a direct message to the bot.
type Whisper struct {
	Base
	Username string
	UserID   string
	Text     string
}

// Notice is a server NOTICE for a channel.
type Notice struct {
	Base
	Channel    string
	Text       string
	NoticeType string
}

// Host reports the channel hosting another channel.
type Host struct {
	Base
	Channel       string
	TargetChannel string
	Viewers       int
}

// NamesList is one page of the channel user listing sent on join.
type NamesList struct {
	Base
	Channel   string
	Usernames []string
}

// ChannelJoined fires when the bot itself has joined a channel.
type ChannelJoined struct {
	Base
	Channel string
}

// ChannelParted fires when the bot itself has left a channel.
type ChannelParted struct {
	Base
	Channel string
}

// UserJoined fires when another user joins a joined channel.
type UserJoined struct {
	Base
	Channel  string
	Username string
}

// UserParted fires when another user leaves a joined channel.
type UserParted struct {
	Base
	Channel  string
	Username string
}

// Ping fires for every server keepalive.
type Ping struct {
	Base
}

// RoomState is the combined channel-mode snapshot sent on join.
type RoomState struct {
	Base
	Channel       string
	EmoteOnly     bool
	FollowersOnly bool
	FollowersTime time.Duration
	SlowMode      time.Duration
	SubsOnly      bool
}

// EmoteOnlyState is a single-aspect room state change.
type EmoteOnlyState struct {
	Base
	Channel string
	Active  bool
}

// FollowersOnlyState is a single-aspect room state change. A disabled
// mode has Active false and zero FollowersTime.
type FollowersOnlyState struct {
	Base
	Channel       string
	Active        bool
	FollowersTime time.Duration
}

// SlowModeState is a single-aspect room state change.
type SlowModeState struct {
	Base
	Channel string
	Delay   time.Duration
}

// SubscribersOnlyState is a single-aspect room state change.
type SubscribersOnlyState struct {
	Base
	Channel string
	Active  bool
}

// UserTimeout reports a user timed out in a channel.
type UserTimeout struct {
	Base
	Channel  string
	Username string
	UserID   string
	Duration time.Duration
}

// UserBanned reports a user banned from a channel.
type UserBanned struct {
	Base
	Channel  string
	Username string
	UserID   string
}

// ChatCleared reports the whole chat wiped.
type ChatCleared struct {
	Base
	Channel string
}

// MessageDeleted reports a single message removed by a moderator.
type MessageDeleted struct {
	Base
	Channel  string
	Username string
	UserID   string
	Text     string
}

// Subscribe is a first-time subscription.
type Subscribe struct {
	Base
	Channel       string
	Username      string
	UserID        string
	Months        int
	Plan          SubPlan
	SystemMessage string
}

// Resubscribe is a returning subscription, optionally with a share
// message.
type Resubscribe struct {
	Base
	Channel       string
	Username      string
	UserID        string
	Text          string
	Emotes        *irc.Emotes
	Months        int
	Plan          SubPlan
	SystemMessage string
}

// GiftSubscription is one gifted subscription to a specific recipient.
type GiftSubscription struct {
	Base
	Channel           string
	Username          string
	UserID            string
	RecipientUsername string
	RecipientUserID   string
	TotalGifted       int
	Plan              SubPlan
	SystemMessage     string
	GiftType          SubGiftType
}

// CommunityGiftSubscription announces a batch of gifts to the community.
type CommunityGiftSubscription struct {
	Base
	Channel       string
	Username      string
	UserID        string
	GiftCount     int
	TotalGifted   int
	Plan          SubPlan
	SystemMessage string
}

// ContinuingGift is a user continuing a subscription they were gifted.
type ContinuingGift struct {
	Base
	Channel        string
	Username       string
	UserID         string
	GifterUsername string
	SystemMessage  string
}

// ContinuingAnonymousGift is a user continuing an anonymously gifted
// subscription.
type ContinuingAnonymousGift struct {
	Base
	Channel       string
	Username      string
	UserID        string
	SystemMessage string
}

// PrimeUpgrade is a Prime subscription converted to a paid plan.
type PrimeUpgrade struct {
	Base
	Channel       string
	Username      string
	UserID        string
	Plan          SubPlan
	SystemMessage string
}

// BitsBadge is a user earning a new bits badge tier.
type BitsBadge struct {
	Base
	Channel     string
	Username    string
	UserID      string
	Text        string
	DisplayName string
	Threshold   int
}

// CommunityPayForward is a gift recipient paying a gift forward to the
// community.
type CommunityPayForward struct {
	Base
	Channel             string
	Username            string
	UserID              string
	PriorGifterUsername string
	PriorGifterUserID   string
	SystemMessage       string
}

// SubscriptionPayForward is a gift recipient gifting onward to a specific
// user.
type SubscriptionPayForward struct {
	Base
	Channel             string
	Username            string
	UserID              string
	PriorGifterUsername string
	PriorGifterUserID   string
	RecipientUsername   string
	RecipientUserID     string
	SystemMessage       string
}

// Raid announces an incoming raid.
type Raid struct {
	Base
	Channel  string
	Username string
	UserID   string
	Viewers  int
}

// RaidCancelled announces a raid called off before it executed.
type RaidCancelled struct {
	Base
	Channel       string
	Username      string
	UserID        string
	SystemMessage string
}

// ElevatedMessage is a paid message pinned for extra visibility.
type ElevatedMessage struct {
	Base
	Channel       string
	Username      string
	UserID        string
	SystemMessage string
	Amount        float64
	Currency      string
}

// ViewerMilestone reports a viewer hitting a channel milestone such as a
// watch streak. Category mirrors the wire encoding (hundredths), the raw
// tag value is kept alongside.
type ViewerMilestone struct {
	Base
	Channel       string
	Username      string
	UserID        string
	SystemMessage string
	Category      float64
	CategoryRaw   string
	Value         string
}

// OneTapStreakStarted announces a combo streak opening.
type OneTapStreakStarted struct {
	Base
	Channel       string
	Username      string
	UserID        string
	SystemMessage string
	SourceRoomID  string
	GiftID        string
	MsRemaining   int
}

// OneTapStreakExpired closes a combo streak with its contributors.
type OneTapStreakExpired struct {
	Base
	Channel                 string
	Username                string
	UserID                  string
	SystemMessage           string
	SourceRoomID            string
	GiftID                  string
	Contributor1            string
	Contributor1Taps        int
	Contributor2            string
	Contributor2Taps        int
	LargestContributorCount int
	StreakSizeBits          int
	StreakSizeTaps          int
}

// OneTapBreakpointAchieved reports a combo streak crossing a threshold.
type OneTapBreakpointAchieved struct {
	Base
	Channel                 string
	Username                string
	UserID                  string
	SystemMessage           string
	SourceRoomID            string
	GiftID                  string
	BreakpointNumber        int
	BreakpointThresholdBits int
}

// OneTapGiftRedeemed reports a single one-tap gift redemption.
type OneTapGiftRedeemed struct {
	Base
	Channel         string
	Username        string
	UserID          string
	SystemMessage   string
	SourceRoomID    string
	BitsSpent       int
	GiftID          string
	UserDisplayName string
}

// SharedChatNotice is a notice mirrored from another room in a shared
// chat session.
type SharedChatNotice struct {
	Base
	Channel       string
	Username      string
	UserID        string
	SystemMessage string
	SourceRoomID  string
}

// ReconnectRequested is the server ordering the client to drop the
// connection and dial again.
type ReconnectRequested struct {
	Base
}

// SubscriptionCounter is a side event for keeping subscription totals
// without inspecting each subscription kind.
type SubscriptionCounter struct {
	Base
	Channel  string
	Username string
	Count    int
	Plan     SubPlan
}

// Unknown reports a line (or tag combination) the dispatcher could not
// classify.
type Unknown struct {
	Raw     string
	Command string
	Reason  string
}

// CounterFromSubscribe derives the counter side event for a subscription.
func CounterFromSubscribe(e Subscribe) SubscriptionCounter {
	return SubscriptionCounter{Base: e.Base, Channel: e.Channel, Username: e.Username, Count: 1, Plan: e.Plan}
}

// CounterFromResubscribe derives the counter side event for a
// resubscription.
func CounterFromResubscribe(e Resubscribe) SubscriptionCounter {
	return SubscriptionCounter{Base: e.Base, Channel: e.Channel, Username: e.Username, Count: 1, Plan: e.Plan}
}

// CounterFromGift derives the counter side event for a personal gift.
func CounterFromGift(e GiftSubscription) SubscriptionCounter {
	return SubscriptionCounter{Base: e.Base, Channel: e.Channel, Username: e.Username, Count: 1, Plan: e.Plan}
}

// CounterFromCommunityGift derives the counter side event for a community
// gift batch, counting the whole declared batch at once.
func CounterFromCommunityGift(e CommunityGiftSubscription) SubscriptionCounter {
	return SubscriptionCounter{Base: e.Base, Channel: e.Channel, Username: e.Username, Count: e.GiftCount, Plan: e.Plan}
}
