package models

import "context"

// BacklotI is the application interface consumed by the HTTP layer.
type BacklotI interface {
	// ResolveTier re-derives a wallet's balance, tier and holding multiplier
	// from the chain. Degrades to the safe default on chain errors.
	ResolveTier(ctx context.Context, wallet string) *TierInfo

	// BuildVoteTransaction returns an unsigned burn transaction for one vote.
	BuildVoteTransaction(ctx context.Context, pollID, optionID, wallet string) (string, error)

	// VerifyAndRecordVote verifies the signed transaction on-chain and
	// records the vote exactly once.
	VerifyAndRecordVote(ctx context.Context, pollID, optionID, txSignature string) (*Vote, error)

	// BuildActionVoteTransaction returns an unsigned memo transaction plus a
	// confirmation message for the action-protocol flow.
	BuildActionVoteTransaction(ctx context.Context, pollID, optionID, wallet string) (string, string, error)
	// WatchAndRecordVote polls for confirmation of an action-protocol vote in
	// the background and feeds it into the verified recording path.
	WatchAndRecordVote(pollID, optionID, txSignature string)

	// BuildFundingTransaction returns an unsigned native transfer to the treasury.
	BuildFundingTransaction(ctx context.Context, milestoneID string, amount float64, wallet string) (string, error)

	// VerifyAndRecordFunding verifies the transfer landed and credits the
	// milestone exactly once per transaction reference.
	VerifyAndRecordFunding(ctx context.Context, milestoneID string, amount float64, wallet, txSignature string) error

	// Leaderboard returns the top participants and, if wallet is non-empty,
	// the caller's own rank.
	Leaderboard(ctx context.Context, wallet string) (*LeaderboardResult, error)

	// PostChatMessage stores a chat message after re-deriving the sender's tier.
	PostChatMessage(ctx context.Context, wallet, message string) (*ChatMessage, error)

	// Thin reads
	ListPolls(ctx context.Context) ([]*Poll, error)
	GetPoll(ctx context.Context, id string) (*Poll, error)
	ListMilestones(ctx context.Context) ([]*Milestone, error)
	ListEpisodes(ctx context.Context) ([]*Episode, error)
	ListBackstagePosts(ctx context.Context) ([]*BackstagePost, error)
	ListChatMessages(ctx context.Context, limit int) ([]*ChatMessage, error)
}

// LeaderboardEntry is one wallet's participation score. Token balance is
// deliberately not a factor: the leaderboard rewards action, not wealth.
type LeaderboardEntry struct {
	WalletAddress     string `json:"wallet_address"`
	VotesCast         int    `json:"votes_cast"`
	PollsParticipated int    `json:"polls_participated"`
	ChatMessagesSent  int    `json:"chat_messages_sent"`
	ReceiptsEarned    int    `json:"cnft_receipts"`
	TotalScore        int    `json:"total_score"`
}

// RankedEntry is a leaderboard entry with its 1-based rank.
type RankedEntry struct {
	Rank int `json:"rank"`
	LeaderboardEntry
}

// LeaderboardResult is the aggregator's output: the top entries plus the
// caller's own rank when requested.
type LeaderboardResult struct {
	Entries []*LeaderboardEntry `json:"leaderboard"`
	MyRank  *RankedEntry        `json:"myRank,omitempty"`
}
