package irc

// USERNOTICE and NOTICE msg-id values.
// Reference: https://dev.twitch.tv/docs/irc/msg-id
const (
	MsgIDRaid                = "raid"
	MsgIDUnraid              = "unraid"
	MsgIDAnnouncement        = "announcement"
	MsgIDHighlightedMessage  = "highlighted-message"
	MsgIDUserIntro           = "user-intro"
	MsgIDSub                 = "sub"
	MsgIDResub               = "resub"
	MsgIDSubGift             = "subgift"
	MsgIDMysterySubGift      = "submysterygift"
	MsgIDGiftPaidUpgrade     = "giftpaidupgrade"
	MsgIDCommunityPayForward = "communitypayforward"
	MsgIDStandardPayForward  = "standardpayforward"
	MsgIDPrimePaidUpgrade    = "primepaidupgrade"
	MsgIDBitsBadgeTier       = "bitsbadgetier"
	MsgIDAnonGiftPaidUpgrade = "anongiftpaidupgrade"
	MsgIDGigantifiedEmote    = "gigantified-emote-message"
	MsgIDAnimatedMessage     = "animated-message"

	// Elevated message, paid to be shown longer.
	MsgIDMidnightsquid   = "midnightsquid"
	MsgIDViewerMilestone = "viewermilestone"

	MsgIDOneTapStreakStarted      = "onetapstreakstarted"
	MsgIDOneTapStreakExpired      = "onetapstreakexpired"
	MsgIDOneTapBreakpointAchieved = "onetapbreakpointachieved"
	MsgIDOneTapGiftRedeemed       = "onetapgiftredeemed"
	MsgIDSharedChatNotice         = "sharedchatnotice"

	MsgIDChannelSuspended = "msg_channel_suspended"
)

// Badge needles matched by substring against the badges tag. The trailing
// slash keeps e.g. "subscriber/6" from matching a hypothetical
// "subscriber-gifter" badge.
const (
	BadgeBroadcaster = "broadcaster/"
	BadgeModerator   = "moderator/"
	BadgeFounder     = "founder/"
	BadgeSubscriber  = "subscriber/"
	BadgeVIP         = "vip/"
	BadgeStaff       = "staff/"
)

// LoginAnonymousGifter is the fixed login Twitch uses for anonymous gift
// subscriptions.
const LoginAnonymousGifter = "ananonymousgifter"
