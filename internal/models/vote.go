package models

import "time"

// Vote is the immutable audit record of a verified poll vote. It is created
// exactly once per (poll, wallet) after on-chain verification and never
// mutated or deleted afterward.
type Vote struct {
	// ID is the unique identifier of the vote.
	ID string `json:"id" gorm:"column:id;primaryKey"`
	// PollID and WalletAddress form the one-vote-per-wallet-per-poll constraint.
	PollID        string `json:"poll_id" gorm:"column:poll_id;not null;uniqueIndex:idx_votes_poll_wallet"`
	OptionID      string `json:"option_id" gorm:"column:option_id;index;not null"`
	WalletAddress string `json:"wallet_address" gorm:"column:wallet_address;not null;uniqueIndex:idx_votes_poll_wallet"`
	// TierAtVote is the voter's tier snapshot at recording time.
	TierAtVote Tier `json:"tier_at_vote" gorm:"column:tier_at_vote"`
	// Weight is the voter's balance-derived influence, floor 1.
	Weight int64 `json:"weight" gorm:"column:weight;default:1"`
	// HoldingMultiplier is the holding-duration bonus snapshot.
	HoldingMultiplier float64 `json:"holding_multiplier" gorm:"column:holding_multiplier;default:1"`
	// TxSignature is the on-chain transaction reference used as idempotency key.
	TxSignature string    `json:"tx_signature" gorm:"column:tx_signature;unique;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
}

// VoteReceipt is a denormalized, human-readable echo of a Vote. Not
// authoritative; MintAddress transitions from empty to a concrete value at
// most once when the asynchronous mint completes.
type VoteReceipt struct {
	ID            string `json:"id" gorm:"column:id;primaryKey"`
	VoteID        string `json:"vote_id" gorm:"column:vote_id;unique;not null"`
	WalletAddress string `json:"wallet_address" gorm:"column:wallet_address;index;not null"`
	PollTitle     string `json:"poll_title" gorm:"column:poll_title"`
	OptionLabel   string `json:"option_label" gorm:"column:option_label"`
	// MintAddress is the cNFT mint reference, empty while minting is pending.
	MintAddress string     `json:"mint_address" gorm:"column:mint_address"`
	MintedAt    *time.Time `json:"minted_at" gorm:"column:minted_at"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at"`
}

// Mint job states.
const (
	MintJobPending = "pending"
	MintJobDone    = "done"
	MintJobFailed  = "failed"
)

// MintJob is an outbox row recorded in the same transaction as a Vote. A
// background worker drains pending jobs with its own retry policy so the mint
// side effect is observable instead of a dangling network call.
type MintJob struct {
	ID            int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	VoteID        string    `json:"vote_id" gorm:"column:vote_id;unique;not null"`
	WalletAddress string    `json:"wallet_address" gorm:"column:wallet_address;not null"`
	PollTitle     string    `json:"poll_title" gorm:"column:poll_title"`
	OptionLabel   string    `json:"option_label" gorm:"column:option_label"`
	Status        string    `json:"status" gorm:"column:status;default:pending;index"`
	Attempts      int       `json:"attempts" gorm:"column:attempts;default:0"`
	LastError     string    `json:"last_error" gorm:"column:last_error"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"column:updated_at"`
}
