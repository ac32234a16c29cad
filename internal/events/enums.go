package events

// SubPlan is the tier of a subscription.
type SubPlan int

const (
	SubPlanUnknown SubPlan = iota
	SubPlanTier1
	SubPlanTier2
	SubPlanTier3
	SubPlanPrime
)

// SubPlanFromTag maps the msg-param-sub-plan tag value to a SubPlan.
func SubPlanFromTag(raw string) SubPlan {
	switch raw {
	case "1000":
		return SubPlanTier1
	case "2000":
		return SubPlanTier2
	case "3000":
		return SubPlanTier3
	case "Prime":
		return SubPlanPrime
	default:
		return SubPlanUnknown
	}
}

func (p SubPlan) String() string {
	switch p {
	case SubPlanTier1:
		return "tier1"
	case SubPlanTier2:
		return "tier2"
	case SubPlanTier3:
		return "tier3"
	case SubPlanPrime:
		return "prime"
	default:
		return "unknown"
	}
}

// SubGiftType says whether a gifted subscription was part of a community
// gift batch or a directly targeted gift.
type SubGiftType int

const (
	PersonalGift SubGiftType = iota
	CommunityGift
)

func (t SubGiftType) String() string {
	if t == CommunityGift {
		return "community"
	}
	return "personal"
}

// MessageType classifies a chat message by its presentation.
type MessageType int

const (
	MessageNormal MessageType = iota
	MessageAnnouncement
	MessageHighlighted
	MessageUserIntro
	MessageGigantifiedEmote
	MessageAnimated
	MessageCustomReward
)

func (t MessageType) String() string {
	switch t {
	case MessageAnnouncement:
		return "announcement"
	case MessageHighlighted:
		return "highlighted"
	case MessageUserIntro:
		return "user-intro"
	case MessageGigantifiedEmote:
		return "gigantified-emote"
	case MessageAnimated:
		return "animated"
	case MessageCustomReward:
		return "custom-reward"
	default:
		return "normal"
	}
}
