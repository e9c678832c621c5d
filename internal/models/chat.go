package models

import "time"

// ChatMessage is a live chat entry. The tier is re-derived on-chain by the
// server at post time, never taken from the client.
type ChatMessage struct {
	ID            int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	WalletAddress string    `json:"wallet_address" gorm:"column:wallet_address;index;not null"`
	DisplayName   string    `json:"display_name" gorm:"column:display_name"`
	Message       string    `json:"message" gorm:"column:message;not null"`
	Tier          Tier      `json:"tier" gorm:"column:tier"`
	IsHighlighted bool      `json:"is_highlighted" gorm:"column:is_highlighted"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at;index"`
}
