package models

import "time"

// Episode is a media entry, gated by tier client-side.
type Episode struct {
	ID           string    `json:"id" gorm:"column:id;primaryKey"`
	Title        string    `json:"title" gorm:"column:title;not null"`
	Description  string    `json:"description" gorm:"column:description"`
	VideoURL     string    `json:"video_url" gorm:"column:video_url;not null"`
	ThumbnailURL string    `json:"thumbnail_url" gorm:"column:thumbnail_url"`
	TierRequired Tier      `json:"tier_required" gorm:"column:tier_required;default:viewer"`
	IsFeatured   bool      `json:"is_featured" gorm:"column:is_featured"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
}

// BackstagePost is a members-only post.
type BackstagePost struct {
	ID           string    `json:"id" gorm:"column:id;primaryKey"`
	Title        string    `json:"title" gorm:"column:title;not null"`
	Content      string    `json:"content" gorm:"column:content"`
	MediaURL     string    `json:"media_url" gorm:"column:media_url"`
	TierRequired Tier      `json:"tier_required" gorm:"column:tier_required;default:supporter"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
}
