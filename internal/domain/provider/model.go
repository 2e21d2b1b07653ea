package provider

import "time"

type Variant string

const (
	VariantNLHE  Variant = "NLHE"
	VariantPLO   Variant = "PLO"
	VariantPLO5  Variant = "PLO5"
	VariantMixed Variant = "MIXED"
	VariantOther Variant = "OTHER"
)

func (v Variant) Valid() bool {
	switch v {
	case VariantNLHE, VariantPLO, VariantPLO5, VariantMixed, VariantOther:
		return true
	default:
		return false
	}
}

type Category string

const (
	CategoryOnline Category = "ONLINE"
	CategoryIRL    Category = "IRL"
)

type DataType string

const (
	DataTypeTournaments DataType = "tournaments"
	DataTypeCashGames   DataType = "cashGames"
	DataTypeBoth        DataType = "both"
)

// NormalizedTournament is a tournament listing in the canonical shape every
// connector produces. Optional numeric fields stay nil when the source did
// not expose them.
type NormalizedTournament struct {
	PokerRoom          string         `json:"pokerRoom" validate:"required"`
	Variant            Variant        `json:"variant" validate:"required"`
	StartTime          time.Time      `json:"startTime" validate:"required"`
	BuyinAmount        int64          `json:"buyinAmount" validate:"gte=0"`
	RakeAmount         *int64         `json:"rakeAmount,omitempty"`
	StartingStack      *int64         `json:"startingStack,omitempty"`
	BlindLevelMinutes  *int           `json:"blindLevelMinutes,omitempty"`
	ReentryPolicy      string         `json:"reentryPolicy,omitempty"`
	BountyAmount       *int64         `json:"bountyAmount,omitempty"`
	RecurringRule      string         `json:"recurringRule,omitempty"`
	EstimatedPrizePool *int64         `json:"estimatedPrizePool,omitempty"`
	TypicalFieldSize   *int           `json:"typicalFieldSize,omitempty"`
	ExternalID         string         `json:"externalId,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}

// NormalizedCashGame is a running or scheduled cash game in canonical shape.
type NormalizedCashGame struct {
	PokerRoom       string         `json:"pokerRoom" validate:"required"`
	Variant         Variant        `json:"variant" validate:"required"`
	SmallBlind      int64          `json:"smallBlind" validate:"gt=0"`
	BigBlind        int64          `json:"bigBlind" validate:"gt=0"`
	MinBuyin        int64          `json:"minBuyin" validate:"gt=0"`
	MaxBuyin        int64          `json:"maxBuyin" validate:"gt=0,gtefield=MinBuyin"`
	UsualDaysOfWeek []string       `json:"usualDaysOfWeek,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

func Int64Ptr(v int64) *int64 {
	return &v
}

func IntPtr(v int) *int {
	return &v
}
