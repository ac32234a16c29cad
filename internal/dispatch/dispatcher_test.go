package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/chatwire/internal/events"
)

type fakeSender struct {
	pongs      []string
	parted     []string
	reconnects int
}

func (s *fakeSender) Pong(payload string) { s.pongs = append(s.pongs, payload) }
func (s *fakeSender) PartChannel(channel string) error {
	s.parted = append(s.parted, channel)
	return nil
}
func (s *fakeSender) Reconnect() { s.reconnects++ }

func TestChatMessage(t *testing.T) {
	var got *events.ChatMessage
	d := New(Config{Username: "best_user", ParseEmotes: true}, Handlers{
		OnChatMessage: func(e events.ChatMessage) { got = &e },
	})

	d.Ingest("@badges=moderator/1,subscriber/6;bits=0;emotes=25:0-4;first-msg=0;id=msg-1;" +
		"tmi-sent-ts=1594545965607;user-id=123 " +
		":chatter!chatter@chatter.tmi.twitch.tv PRIVMSG #best_channel :Kappa hello")

	require.NotNil(t, got)
	assert.Equal(t, "best_channel", got.Channel)
	assert.Equal(t, "chatter", got.Username)
	assert.Equal(t, "123", got.UserID)
	assert.Equal(t, "Kappa hello", got.Text)
	assert.Equal(t, "msg-1", got.ID)
	assert.Equal(t, events.MessageNormal, got.Type)
	assert.True(t, got.IsModerator)
	assert.True(t, got.IsSubscriber)
	assert.False(t, got.IsBroadcaster)
	assert.False(t, got.IsFirstMessage)
	assert.Len(t, got.Emotes.Spans(), 1)
	assert.Equal(t, time.UnixMilli(1594545965607).UTC(), got.Time)
	assert.Nil(t, got.Msg, "message attached without IncludeMessages")
}

func TestChatMessageAction(t *testing.T) {
	var got *events.ChatMessage
	d := New(Config{Username: "best_user"}, Handlers{
		OnChatMessage: func(e events.ChatMessage) { got = &e },
	})

	d.Ingest(":chatter!chatter@chatter.tmi.twitch.tv PRIVMSG #best_channel :\x01ACTION waves\x01")

	require.NotNil(t, got)
	assert.Equal(t, "waves", got.Text)
	assert.True(t, got.IsMe)
}

func TestBitsMessageDoubleDelivery(t *testing.T) {
	var chat, bits int
	d := New(Config{Username: "best_user"}, Handlers{
		OnChatMessage:     func(events.ChatMessage) { chat++ },
		OnBitsChatMessage: func(e events.ChatMessage) { bits++; assert.Equal(t, 100, e.Bits) },
	})

	d.Ingest("@bits=100;user-id=123 :chatter!chatter@chatter.tmi.twitch.tv PRIVMSG #best_channel :cheer100 gg")
	d.Ingest("@user-id=123 :chatter!chatter@chatter.tmi.twitch.tv PRIVMSG #best_channel :no bits here")

	assert.Equal(t, 2, chat)
	assert.Equal(t, 1, bits)
}

func TestChatMessageTypes(t *testing.T) {
	var got *events.ChatMessage
	d := New(Config{Username: "best_user"}, Handlers{
		OnChatMessage: func(e events.ChatMessage) { got = &e },
	})

	d.Ingest("@msg-id=highlighted-message;user-id=123 :chatter!chatter@chatter.tmi.twitch.tv PRIVMSG #best_channel :look")
	require.NotNil(t, got)
	assert.Equal(t, events.MessageHighlighted, got.Type)

	d.Ingest("@custom-reward-id=reward-1;user-id=123 :chatter!chatter@chatter.tmi.twitch.tv PRIVMSG #best_channel :redeemed")
	assert.Equal(t, events.MessageCustomReward, got.Type)

	d.Ingest("@msg-id=some-new-thing;user-id=123 :chatter!chatter@chatter.tmi.twitch.tv PRIVMSG #best_channel :hm")
	assert.Equal(t, events.MessageNormal, got.Type)
	assert.Equal(t, "some-new-thing", got.UnknownType)
}

func TestReplyAndPaidPin(t *testing.T) {
	var got *events.ChatMessage
	d := New(Config{Username: "best_user"}, Handlers{
		OnChatMessage: func(e events.ChatMessage) { got = &e },
	})

	d.Ingest(`@reply-parent-msg-id=parent-1;reply-parent-user-login=parent_user;reply-parent-msg-body=original;` +
		`pinned-chat-paid-amount=500;pinned-chat-paid-currency=USD;pinned-chat-paid-exponent=2;user-id=123 ` +
		`:chatter!chatter@chatter.tmi.twitch.tv PRIVMSG #best_channel :agreed`)

	require.NotNil(t, got)
	require.NotNil(t, got.Reply)
	assert.Equal(t, "parent-1", got.Reply.ParentMessageID)
	assert.Equal(t, "parent_user", got.Reply.ParentUsername)
	require.NotNil(t, got.PaidPin)
	assert.Equal(t, "USD", got.PaidPin.Currency)

	d.Ingest("@user-id=123 :chatter!chatter@chatter.tmi.twitch.tv PRIVMSG #best_channel :plain")
	assert.Nil(t, got.Reply)
	assert.Nil(t, got.PaidPin)
}

func TestWhisper(t *testing.T) {
	var got *events.Whisper
	d := New(Config{Username: "best_user"}, Handlers{
		OnWhisper: func(e events.Whisper) { got = &e },
	})

	d.Ingest("@user-id=123 :chatter!chatter@chatter.tmi.twitch.tv WHISPER best_user :psst")

	require.NotNil(t, got)
	assert.Equal(t, "chatter", got.Username)
	assert.Equal(t, "123", got.UserID)
	assert.Equal(t, "psst", got.Text)
}

func TestRoomStateCombined(t *testing.T) {
	var got *events.RoomState
	d := New(Config{Username: "best_user"}, Handlers{
		OnRoomState: func(e events.RoomState) { got = &e },
	})

	d.Ingest("@emote-only=1;followers-only=30;r9k=0;slow=10;subs-only=0 :tmi.twitch.tv ROOMSTATE #best_channel")

	require.NotNil(t, got)
	assert.Equal(t, "best_channel", got.Channel)
	assert.True(t, got.EmoteOnly)
	assert.True(t, got.FollowersOnly)
	assert.Equal(t, 30*time.Minute, got.FollowersTime)
	assert.Equal(t, 10*time.Second, got.SlowMode)
	assert.False(t, got.SubsOnly)
}

func TestRoomStateFollowersOff(t *testing.T) {
	var got *events.RoomState
	d := New(Config{Username: "best_user"}, Handlers{
		OnRoomState: func(e events.RoomState) { got = &e },
	})

	d.Ingest("@emote-only=0;followers-only=-1;slow=0;subs-only=0 :tmi.twitch.tv ROOMSTATE #best_channel")

	require.NotNil(t, got)
	assert.False(t, got.FollowersOnly)
	assert.Zero(t, got.FollowersTime)
}

func TestRoomStateSingleAspect(t *testing.T) {
	var emote *events.EmoteOnlyState
	var followers *events.FollowersOnlyState
	var slow *events.SlowModeState
	var subs *events.SubscribersOnlyState
	d := New(Config{Username: "best_user"}, Handlers{
		OnEmoteOnlyState:       func(e events.EmoteOnlyState) { emote = &e },
		OnFollowersOnlyState:   func(e events.FollowersOnlyState) { followers = &e },
		OnSlowModeState:        func(e events.SlowModeState) { slow = &e },
		OnSubscribersOnlyState: func(e events.SubscribersOnlyState) { subs = &e },
	})

	d.Ingest("@emote-only=1 :tmi.twitch.tv ROOMSTATE #best_channel")
	require.NotNil(t, emote)
	assert.True(t, emote.Active)

	d.Ingest("@followers-only=10 :tmi.twitch.tv ROOMSTATE #best_channel")
	require.NotNil(t, followers)
	assert.True(t, followers.Active)
	assert.Equal(t, 10*time.Minute, followers.FollowersTime)

	d.Ingest("@slow=30 :tmi.twitch.tv ROOMSTATE #best_channel")
	require.NotNil(t, slow)
	assert.Equal(t, 30*time.Second, slow.Delay)

	d.Ingest("@subs-only=1 :tmi.twitch.tv ROOMSTATE #best_channel")
	require.NotNil(t, subs)
	assert.True(t, subs.Active)
}

func TestRoomStatePartialIsUnknown(t *testing.T) {
	var unknown *events.Unknown
	d := New(Config{Username: "best_user"}, Handlers{
		OnUnknownMessage: func(e events.Unknown) { unknown = &e },
	})

	d.Ingest("@emote-only=1;slow=5 :tmi.twitch.tv ROOMSTATE #best_channel")

	require.NotNil(t, unknown)
	assert.Equal(t, "ROOMSTATE", unknown.Command)
}

func TestModeration(t *testing.T) {
	var timeout *events.UserTimeout
	var banned *events.UserBanned
	var cleared *events.ChatCleared
	var deleted *events.MessageDeleted
	d := New(Config{Username: "best_user"}, Handlers{
		OnUserTimeout:    func(e events.UserTimeout) { timeout = &e },
		OnUserBanned:     func(e events.UserBanned) { banned = &e },
		OnChatCleared:    func(e events.ChatCleared) { cleared = &e },
		OnMessageDeleted: func(e events.MessageDeleted) { deleted = &e },
	})

	d.Ingest("@ban-duration=600;target-user-id=123 :tmi.twitch.tv CLEARCHAT #best_channel :chatter")
	require.NotNil(t, timeout)
	assert.Equal(t, "chatter", timeout.Username)
	assert.Equal(t, "123", timeout.UserID)
	assert.Equal(t, 10*time.Minute, timeout.Duration)

	d.Ingest("@target-user-id=123 :tmi.twitch.tv CLEARCHAT #best_channel :chatter")
	require.NotNil(t, banned)
	assert.Equal(t, "chatter", banned.Username)

	d.Ingest(":tmi.twitch.tv CLEARCHAT #best_channel")
	require.NotNil(t, cleared)
	assert.Equal(t, "best_channel", cleared.Channel)

	d.Ingest("@login=chatter;target-msg-id=msg-1;user-id=123 :tmi.twitch.tv CLEARMSG #best_channel :deleted text")
	require.NotNil(t, deleted)
	assert.Equal(t, "chatter", deleted.Username)
	assert.Equal(t, "deleted text", deleted.Text)
}

func TestNoticeSuspendedChannelParts(t *testing.T) {
	sender := &fakeSender{}
	var notice *events.Notice
	d := New(Config{Username: "best_user", Sender: sender}, Handlers{
		OnNotice: func(e events.Notice) { notice = &e },
	})

	d.Ingest("@msg-id=msg_channel_suspended :tmi.twitch.tv NOTICE #best_channel :This channel does not exist")

	require.NotNil(t, notice)
	assert.Equal(t, "msg_channel_suspended", notice.NoticeType)
	assert.Equal(t, []string{"best_channel"}, sender.parted)

	d.Ingest("@msg-id=slow_on :tmi.twitch.tv NOTICE #best_channel :Slow mode is on")
	assert.Len(t, sender.parted, 1)
}

func TestJoinPartTracking(t *testing.T) {
	var selfJoined, selfParted, userJoined, userParted int
	d := New(Config{Username: "best_user"}, Handlers{
		OnChannelJoined: func(events.ChannelJoined) { selfJoined++ },
		OnChannelParted: func(events.ChannelParted) { selfParted++ },
		OnUserJoined:    func(events.UserJoined) { userJoined++ },
		OnUserParted:    func(events.UserParted) { userParted++ },
	})

	d.Ingest(":best_user!best_user@best_user.tmi.twitch.tv JOIN #best_channel")
	d.Ingest(":best_user!best_user@best_user.tmi.twitch.tv JOIN #other_channel")
	d.Ingest(":chatter!chatter@chatter.tmi.twitch.tv JOIN #best_channel")
	assert.ElementsMatch(t, []string{"best_channel", "other_channel"}, d.Channels())

	d.Ingest(":best_user!best_user@best_user.tmi.twitch.tv PART #other_channel")
	d.Ingest(":chatter!chatter@chatter.tmi.twitch.tv PART #best_channel")
	assert.Equal(t, []string{"best_channel"}, d.Channels())

	assert.Equal(t, 2, selfJoined)
	assert.Equal(t, 1, selfParted)
	assert.Equal(t, 1, userJoined)
	assert.Equal(t, 1, userParted)
}

func TestPingAndReconnect(t *testing.T) {
	sender := &fakeSender{}
	var pings, reconnectNotices int
	d := New(Config{Username: "best_user", Sender: sender}, Handlers{
		OnPing: func(events.Ping) { pings++ },
		OnReconnectRequested: func(events.ReconnectRequested) {
			// The notice precedes the teardown.
			assert.Zero(t, sender.reconnects)
			reconnectNotices++
		},
	})

	d.Ingest("PING :tmi.twitch.tv")
	assert.Equal(t, 1, pings)
	assert.Equal(t, []string{":tmi.twitch.tv"}, sender.pongs)

	d.Ingest(":tmi.twitch.tv RECONNECT")
	assert.Equal(t, 1, reconnectNotices)
	assert.Equal(t, 1, sender.reconnects)
}

func TestNamesList(t *testing.T) {
	var got *events.NamesList
	d := New(Config{Username: "best_user"}, Handlers{
		OnNamesList: func(e events.NamesList) { got = &e },
	})

	// The page listing only the bot itself is suppressed.
	d.Ingest(":best_user.tmi.twitch.tv 353 best_user = #best_channel :best_user")
	assert.Nil(t, got)

	d.Ingest(":best_user.tmi.twitch.tv 353 best_user = #best_channel :user_a user_b user_c")
	require.NotNil(t, got)
	assert.Equal(t, "best_channel", got.Channel)
	assert.Equal(t, []string{"user_a", "user_b", "user_c"}, got.Usernames)
}

func TestHost(t *testing.T) {
	var got *events.Host
	d := New(Config{Username: "best_user"}, Handlers{
		OnHost: func(e events.Host) { got = &e },
	})

	d.Ingest(":tmi.twitch.tv HOSTTARGET #best_channel :other_channel 42")

	require.NotNil(t, got)
	assert.Equal(t, "best_channel", got.Channel)
	assert.Equal(t, "other_channel", got.TargetChannel)
	assert.Equal(t, 42, got.Viewers)
}

func TestUnparseableLine(t *testing.T) {
	var raws []string
	var unknown *events.Unknown
	d := New(Config{Username: "best_user"}, Handlers{
		OnRawMessage:     func(line string) { raws = append(raws, line) },
		OnUnknownMessage: func(e events.Unknown) { unknown = &e },
	})

	d.Ingest("total garbage")

	assert.Equal(t, []string{"total garbage"}, raws)
	require.NotNil(t, unknown)
	assert.Equal(t, "total garbage", unknown.Raw)
	assert.Empty(t, unknown.Command)
}

func TestIncludeMessagesAttachesParsed(t *testing.T) {
	var got *events.ChatMessage
	d := New(Config{Username: "best_user", IncludeMessages: true, KeepRaw: true}, Handlers{
		OnChatMessage: func(e events.ChatMessage) { got = &e },
	})

	raw := ":chatter!chatter@chatter.tmi.twitch.tv PRIVMSG #best_channel :hi"
	d.Ingest(raw)

	require.NotNil(t, got)
	require.NotNil(t, got.Msg)
	assert.Equal(t, raw, got.Msg.Raw)
}
