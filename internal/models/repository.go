package models

// VoteParticipation is a projection of the votes table used by the
// leaderboard aggregator: one row per vote, wallet plus poll.
type VoteParticipation struct {
	WalletAddress string
	PollID        string
}

type Repository interface {
	Close() error

	// Polls (read-only to the vote pipeline)
	GetPoll(id string) (*Poll, error)
	ListPolls(activeOnly bool) ([]*Poll, error)
	GetPollOption(id string) (*PollOption, error)

	// Votes
	GetVoteByPollAndWallet(pollID, wallet string) (*Vote, error)
	GetVoteByTxSignature(txSignature string) (*Vote, error)
	// RecordVote inserts the vote, increments the option counters, inserts
	// the receipt and enqueues the mint job as one transaction. Returns
	// ErrDuplicate if a uniqueness constraint rejects the insert.
	RecordVote(vote *Vote, receipt *VoteReceipt, job *MintJob) error

	// Milestones
	GetMilestone(id string) (*Milestone, error)
	ListMilestones() ([]*Milestone, error)
	GetContributionByTxSignature(txSignature string) (*MilestoneContribution, error)
	// RecordContribution inserts the contribution and atomically adds its
	// amount to the milestone total. Returns ErrDuplicate on a replayed
	// transaction reference.
	RecordContribution(contribution *MilestoneContribution) error

	// Leaderboard bulk reads
	ListVoteParticipation() ([]VoteParticipation, error)
	ListChatWallets() ([]string, error)
	ListReceiptWallets() ([]string, error)

	// Chat
	CreateChatMessage(message *ChatMessage) error
	ListChatMessages(limit int) ([]*ChatMessage, error)

	// Content
	ListEpisodes() ([]*Episode, error)
	ListBackstagePosts() ([]*BackstagePost, error)

	// Mint outbox
	ListPendingMintJobs(limit int) ([]*MintJob, error)
	MarkMintJobDone(jobID int64, mintAddress string) error
	MarkMintJobFailed(jobID int64, lastError string, terminal bool) error
}
