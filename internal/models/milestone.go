package models

import "time"

// Milestone statuses.
const (
	MilestoneUpcoming  = "upcoming"
	MilestoneActive    = "active"
	MilestoneCompleted = "completed"
)

// Milestone is a crowdfunding target. CurrentAmount is mutated only
// additively, only after independent on-chain verification of a transfer to
// the treasury.
type Milestone struct {
	ID          string `json:"id" gorm:"column:id;primaryKey"`
	ProjectName string `json:"project_name" gorm:"column:project_name"`
	Title       string `json:"title" gorm:"column:title;not null"`
	Description string `json:"description" gorm:"column:description"`
	// TargetAmount and CurrentAmount are denominated in the chain's native unit.
	TargetAmount  float64   `json:"target_amount" gorm:"column:target_amount"`
	CurrentAmount float64   `json:"current_amount" gorm:"column:current_amount;default:0"`
	Status        string    `json:"status" gorm:"column:status;default:upcoming;index"`
	SortOrder     int       `json:"sort_order" gorm:"column:sort_order"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at"`
}

// MilestoneContribution records a verified funding transfer, once per
// transaction reference.
type MilestoneContribution struct {
	ID            string    `json:"id" gorm:"column:id;primaryKey"`
	MilestoneID   string    `json:"milestone_id" gorm:"column:milestone_id;index;not null"`
	WalletAddress string    `json:"wallet_address" gorm:"column:wallet_address;index;not null"`
	Amount        float64   `json:"amount" gorm:"column:amount;not null"`
	Currency      string    `json:"currency" gorm:"column:currency;default:SOL"`
	TxSignature   string    `json:"tx_signature" gorm:"column:tx_signature;unique;not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at"`
}
