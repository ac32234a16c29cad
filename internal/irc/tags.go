package irc

import (
	"strconv"
	"strings"
)

// Tag keys Twitch sends that the dispatcher cares about.
// Reference: https://dev.twitch.tv/docs/irc/tags
const (
	TagID               = "id"
	TagBadges           = "badges"
	TagColor            = "color"
	TagSentTimestamp    = "tmi-sent-ts"
	TagMsgID            = "msg-id"
	TagLogin            = "login"
	TagUserID           = "user-id"
	TagDisplayName      = "display-name"
	TagFirstMsg         = "first-msg"
	TagReturningChatter = "returning-chatter"
	TagBits             = "bits"
	TagEmotes           = "emotes"

	TagMsgParamViewerCount       = "msg-param-viewerCount"
	TagMsgParamCumulativeMonths  = "msg-param-cumulative-months"
	TagMsgParamSubPlan           = "msg-param-sub-plan"
	TagMsgParamSenderCount       = "msg-param-sender-count"
	TagMsgParamSenderLogin       = "msg-param-sender-login"
	TagMsgParamRecipientUsername = "msg-param-recipient-user-name"
	TagMsgParamRecipientUserID   = "msg-param-recipient-id"
	TagMsgParamMassGiftCount     = "msg-param-mass-gift-count"
	TagMsgParamOriginID          = "msg-param-origin-id"
	TagMsgParamPriorGifter       = "msg-param-prior-gifter-user-name"
	TagMsgParamPriorGifterID     = "msg-param-prior-gifter-id"
	TagMsgParamThreshold         = "msg-param-threshold"
	TagMsgParamAmount            = "msg-param-amount"
	TagMsgParamCurrency          = "msg-param-currency"
	TagMsgParamCategory          = "msg-param-category"
	TagMsgParamValue             = "msg-param-value"
	TagMsgParamGiftID            = "msg-param-gift-id"

	TagReplyParentMsgID       = "reply-parent-msg-id"
	TagReplyParentUserLogin   = "reply-parent-user-login"
	TagReplyParentUserID      = "reply-parent-user-id"
	TagReplyParentMsgBody     = "reply-parent-msg-body"
	TagReplyThreadParentMsgID = "reply-thread-parent-msg-id"
	TagReplyThreadParentLogin = "reply-thread-parent-user-login"
	TagReplyThreadParentID    = "reply-thread-parent-user-id"

	TagCustomRewardID = "custom-reward-id"
	TagSystemMsg      = "system-msg"
	TagTargetUserID   = "target-user-id"
	TagBanDuration    = "ban-duration"
	TagSourceRoomID   = "source-room-id"

	TagEmoteOnly     = "emote-only"
	TagFollowersOnly = "followers-only"
	TagSlow          = "slow"
	TagSubsOnly      = "subs-only"

	TagPinnedPaidAmount          = "pinned-chat-paid-amount"
	TagPinnedPaidCanonicalAmount = "pinned-chat-paid-canonical-amount"
	TagPinnedPaidCurrency        = "pinned-chat-paid-currency"
	TagPinnedPaidExponent        = "pinned-chat-paid-exponent"
	TagPinnedPaidIsSystemMessage = "pinned-chat-paid-is-system-message"
	TagPinnedPaidLevel           = "pinned-chat-paid-level"
)

// Synthetic tags the parser adds for data that has no tag on the wire.
// Namespaced so they can never collide with a real Twitch tag.
const (
	TagIsMe        = "chatwire-is-me"
	TagHostTarget  = "chatwire-host-target"
	TagHostViewers = "chatwire-host-viewers"
	TagCapResult   = "chatwire-cap-result"
)

// Tags is the tag table of a single IRC line.
type Tags map[string]string

// ParseTags parses a semicolon-delimited key=value blob (without the
// leading '@'). Entries without '=' are skipped, later duplicates win and
// the only escape handled is `\s` for space. It always succeeds; a
// malformed blob yields an empty or partial table.
func ParseTags(blob string) Tags {
	tags := make(Tags)
	if blob == "" {
		return tags
	}

	for _, entry := range strings.Split(blob, ";") {
		key, val, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		tags[key] = strings.ReplaceAll(val, `\s`, " ")
	}

	return tags
}

// String returns the value for key, or def when the key is absent.
func (t Tags) String(key, def string) string {
	if v, ok := t[key]; ok {
		return v
	}
	return def
}

// Int returns the value for key as an int. Absent keys and non-numeric
// values yield def.
func (t Tags) Int(key string, def int) int {
	if v, ok := t[key]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Has reports whether key is present, regardless of its value.
func (t Tags) Has(key string) bool {
	_, ok := t[key]
	return ok
}
