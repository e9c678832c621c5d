package models

import "context"

// TokenStats is the market snapshot shown on the dashboard. Sourced from the
// price feed and the holder index; degrades to zeros when either is down.
type TokenStats struct {
	Price       float64 `json:"price"`
	MarketCap   float64 `json:"marketCap"`
	Holders     int     `json:"holders"`
	Supply      int64   `json:"supply"`
	LastUpdated string  `json:"lastUpdated"`
}

// HolderRow is one ranked entry of the treasury holder table.
type HolderRow struct {
	Rank       int     `json:"rank"`
	Wallet     string  `json:"wallet"`
	WalletFull string  `json:"walletFull"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// TreasuryOverview is the on-chain holder distribution of the platform token.
type TreasuryOverview struct {
	Holders             []HolderRow `json:"holders"`
	TotalHolders        int         `json:"totalHolders"`
	TopHolderPercentage float64     `json:"topHolderPercentage"`
	Top5Percentage      float64     `json:"top5Percentage"`
	Top10Percentage     float64     `json:"top10Percentage"`
	TotalSupply         int64       `json:"totalSupply"`
	LastUpdated         string      `json:"lastUpdated"`
}

// IndexerService represents the hosted price/holder index collaborators.
type IndexerService interface {
	TokenStats(ctx context.Context) *TokenStats
	Treasury(ctx context.Context) (*TreasuryOverview, error)
}
