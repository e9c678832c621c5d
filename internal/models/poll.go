package models

import "time"

// Poll represents a community poll. Polls are created and edited by operators;
// the vote pipeline only ever reads them.
type Poll struct {
	// ID is the unique identifier of the poll.
	ID string `json:"id" gorm:"column:id;primaryKey"`
	// Title is the poll question shown to voters.
	Title string `json:"title" gorm:"column:title;not null"`
	// Description is an optional longer explanation.
	Description string `json:"description" gorm:"column:description"`
	// Type categorizes the poll (agenda, project, milestone).
	Type string `json:"type" gorm:"column:type"`
	// TierRequired is the minimum tier allowed to vote.
	TierRequired Tier `json:"tier_required" gorm:"column:tier_required;default:viewer"`
	// StartsAt is when the poll opens, if scheduled.
	StartsAt *time.Time `json:"starts_at" gorm:"column:starts_at"`
	// EndsAt is when the poll closes. A nil EndsAt means the poll runs until deactivated.
	EndsAt *time.Time `json:"ends_at" gorm:"column:ends_at"`
	// IsActive gates vote acceptance together with EndsAt.
	IsActive bool `json:"is_active" gorm:"column:is_active;default:true;index"`
	// IsShareable marks polls exposed through the action-protocol flow.
	IsShareable bool `json:"is_shareable" gorm:"column:is_shareable"`
	// CreatedAt is the creation timestamp.
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	// Options are the poll's choices.
	Options []PollOption `json:"options,omitempty" gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE"`
}

// AcceptsVotes reports whether the poll accepts votes at the given instant.
func (p *Poll) AcceptsVotes(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.EndsAt != nil && p.EndsAt.Before(now) {
		return false
	}
	return true
}

// PollOption belongs to exactly one poll. Both counters are monotonically
// non-decreasing and mutated only by the vote recorder.
type PollOption struct {
	ID          string `json:"id" gorm:"column:id;primaryKey"`
	PollID      string `json:"poll_id" gorm:"column:poll_id;index;not null"`
	Label       string `json:"label" gorm:"column:label;not null"`
	Description string `json:"description" gorm:"column:description"`
	// VoteCount is the raw number of votes for this option.
	VoteCount int64 `json:"vote_count" gorm:"column:vote_count;default:0"`
	// WeightedCount is the balance-weighted vote total.
	WeightedCount int64 `json:"weighted_count" gorm:"column:weighted_count;default:0"`
}
