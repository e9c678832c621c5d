package models

// Tier is the discrete access level derived from token balance.
type Tier string

const (
	TierViewer            Tier = "viewer"
	TierSupporter         Tier = "supporter"
	TierProducer          Tier = "producer"
	TierExecutiveProducer Tier = "executive_producer"
)

var tierRank = map[Tier]int{
	TierViewer:            0,
	TierSupporter:         1,
	TierProducer:          2,
	TierExecutiveProducer: 3,
}

// Rank returns the position of the tier in the total order. Unknown tiers rank as viewer.
func (t Tier) Rank() int {
	return tierRank[t]
}

// AtLeast reports whether t grants access to content gated at `required`.
func (t Tier) AtLeast(required Tier) bool {
	return t.Rank() >= required.Rank()
}

// TierInfo is the point-in-time view of a wallet's standing,
// always re-derived from the chain and never persisted as source of truth.
type TierInfo struct {
	// Balance is the wallet's platform token holdings in whole tokens.
	Balance float64 `json:"balance"`
	// Tier is the access level derived from Balance.
	Tier Tier `json:"tier"`
	// HoldingMultiplier is the holding-duration bonus in [1.0, 4.0].
	HoldingMultiplier float64 `json:"holding_multiplier"`
}

// VotingPower returns the wallet's effective influence: balance scaled by the
// holding multiplier, floored at whole units.
func (t *TierInfo) VotingPower() int64 {
	return int64(t.Balance * t.HoldingMultiplier)
}
