package backlot

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/backlot-social/backlot/internal/config"
	"github.com/backlot-social/backlot/internal/models"
	"github.com/backlot-social/backlot/pkg/logger"
)

// Deterministic test identities, derived from raw bytes so they are always
// valid base58.
func testWallet(b byte) string {
	var raw [32]byte
	for i := range raw {
		raw[i] = b
	}
	return solana.PublicKeyFromBytes(raw[:]).String()
}

func testSignature(b byte) string {
	var sig solana.Signature
	for i := range sig {
		sig[i] = b
	}
	return sig.String()
}

func testConfig() *config.Config {
	return &config.Config{
		TokenMint:      "DSL6XbjPfhXjD9YYhzxo5Dv2VRt7VSeXRkTefEu5pump",
		TreasuryWallet: testWallet(0xFE),
		TokenDecimals:  6,

		SupporterThreshold:    1,
		ProducerThreshold:     10000,
		ExecProducerThreshold: 100000,

		VoteCostTokens: 10,

		TxLookupAttempts: 3,
		TxLookupBackoff:  time.Millisecond,
		ConfirmAttempts:  2,
		ConfirmBackoff:   time.Millisecond,

		MaxContribution: 1000,
	}
}

// fakeChain is an in-memory models.ChainService.
type fakeChain struct {
	balances    map[string]float64
	firstSeen   map[string]time.Time
	txs         map[string]*models.ChainTransaction
	statuses    map[string]string
	balanceErr  error
	activityErr error
	txErr       error

	txCalls int
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		balances:  make(map[string]float64),
		firstSeen: make(map[string]time.Time),
		txs:       make(map[string]*models.ChainTransaction),
		statuses:  make(map[string]string),
	}
}

func (f *fakeChain) GetTokenBalance(ctx context.Context, wallet string) (float64, error) {
	if f.balanceErr != nil {
		return 0, f.balanceErr
	}
	return f.balances[wallet], nil
}

func (f *fakeChain) GetEarliestTokenActivity(ctx context.Context, wallet string) (time.Time, error) {
	if f.activityErr != nil {
		return time.Time{}, f.activityErr
	}
	return f.firstSeen[wallet], nil
}

func (f *fakeChain) GetTransaction(ctx context.Context, signature string) (*models.ChainTransaction, error) {
	f.txCalls++
	if f.txErr != nil {
		return nil, f.txErr
	}
	tx, ok := f.txs[signature]
	if !ok {
		return nil, models.ErrTxNotFound
	}
	return tx, nil
}

func (f *fakeChain) GetSignatureStatus(ctx context.Context, signature string) (string, error) {
	return f.statuses[signature], nil
}

func (f *fakeChain) BuildBurnTransaction(ctx context.Context, wallet string, amountRaw uint64, memo []byte) (string, error) {
	return "burn-tx-base64", nil
}

func (f *fakeChain) BuildTransferTransaction(ctx context.Context, wallet string, lamports uint64) (string, error) {
	return "transfer-tx-base64", nil
}

// fakeRepo is an in-memory models.Repository.
type fakeRepo struct {
	polls         map[string]*models.Poll
	options       map[string]*models.PollOption
	votes         []*models.Vote
	receipts      []*models.VoteReceipt
	jobs          []*models.MintJob
	milestones    map[string]*models.Milestone
	contributions []*models.MilestoneContribution
	chatMessages  []*models.ChatMessage

	participation  []models.VoteParticipation
	chatWallets    []string
	receiptWallets []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		polls:      make(map[string]*models.Poll),
		options:    make(map[string]*models.PollOption),
		milestones: make(map[string]*models.Milestone),
	}
}

func (f *fakeRepo) Close() error { return nil }

func (f *fakeRepo) GetPoll(id string) (*models.Poll, error) {
	poll, ok := f.polls[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return poll, nil
}

func (f *fakeRepo) ListPolls(activeOnly bool) ([]*models.Poll, error) {
	polls := make([]*models.Poll, 0, len(f.polls))
	for _, poll := range f.polls {
		if activeOnly && !poll.IsActive {
			continue
		}
		polls = append(polls, poll)
	}
	return polls, nil
}

func (f *fakeRepo) GetPollOption(id string) (*models.PollOption, error) {
	option, ok := f.options[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return option, nil
}

func (f *fakeRepo) GetVoteByPollAndWallet(pollID, wallet string) (*models.Vote, error) {
	for _, vote := range f.votes {
		if vote.PollID == pollID && vote.WalletAddress == wallet {
			return vote, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeRepo) GetVoteByTxSignature(txSignature string) (*models.Vote, error) {
	for _, vote := range f.votes {
		if vote.TxSignature == txSignature {
			return vote, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeRepo) RecordVote(vote *models.Vote, receipt *models.VoteReceipt, job *models.MintJob) error {
	for _, existing := range f.votes {
		if existing.PollID == vote.PollID && existing.WalletAddress == vote.WalletAddress {
			return models.ErrDuplicate
		}
		if existing.TxSignature == vote.TxSignature {
			return models.ErrDuplicate
		}
	}
	f.votes = append(f.votes, vote)
	f.receipts = append(f.receipts, receipt)
	f.jobs = append(f.jobs, job)
	if option, ok := f.options[vote.OptionID]; ok {
		option.VoteCount++
		option.WeightedCount += vote.Weight
	}
	return nil
}

func (f *fakeRepo) GetMilestone(id string) (*models.Milestone, error) {
	milestone, ok := f.milestones[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return milestone, nil
}

func (f *fakeRepo) ListMilestones() ([]*models.Milestone, error) {
	milestones := make([]*models.Milestone, 0, len(f.milestones))
	for _, milestone := range f.milestones {
		milestones = append(milestones, milestone)
	}
	return milestones, nil
}

func (f *fakeRepo) GetContributionByTxSignature(txSignature string) (*models.MilestoneContribution, error) {
	for _, contribution := range f.contributions {
		if contribution.TxSignature == txSignature {
			return contribution, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeRepo) RecordContribution(contribution *models.MilestoneContribution) error {
	for _, existing := range f.contributions {
		if existing.TxSignature == contribution.TxSignature {
			return models.ErrDuplicate
		}
	}
	f.contributions = append(f.contributions, contribution)
	if milestone, ok := f.milestones[contribution.MilestoneID]; ok {
		milestone.CurrentAmount += contribution.Amount
	}
	return nil
}

func (f *fakeRepo) ListVoteParticipation() ([]models.VoteParticipation, error) {
	return f.participation, nil
}

func (f *fakeRepo) ListChatWallets() ([]string, error) { return f.chatWallets, nil }

func (f *fakeRepo) ListReceiptWallets() ([]string, error) { return f.receiptWallets, nil }

func (f *fakeRepo) CreateChatMessage(message *models.ChatMessage) error {
	f.chatMessages = append(f.chatMessages, message)
	return nil
}

func (f *fakeRepo) ListChatMessages(limit int) ([]*models.ChatMessage, error) {
	if limit > len(f.chatMessages) {
		limit = len(f.chatMessages)
	}
	return f.chatMessages[:limit], nil
}

func (f *fakeRepo) ListEpisodes() ([]*models.Episode, error) { return nil, nil }

func (f *fakeRepo) ListBackstagePosts() ([]*models.BackstagePost, error) { return nil, nil }

func (f *fakeRepo) ListPendingMintJobs(limit int) ([]*models.MintJob, error) {
	pending := make([]*models.MintJob, 0)
	for _, job := range f.jobs {
		if job.Status == models.MintJobPending && len(pending) < limit {
			pending = append(pending, job)
		}
	}
	return pending, nil
}

func (f *fakeRepo) MarkMintJobDone(jobID int64, mintAddress string) error {
	for _, job := range f.jobs {
		if job.ID == jobID {
			job.Status = models.MintJobDone
		}
	}
	return nil
}

func (f *fakeRepo) MarkMintJobFailed(jobID int64, lastError string, terminal bool) error {
	for _, job := range f.jobs {
		if job.ID == jobID {
			job.Attempts++
			job.LastError = lastError
			if terminal {
				job.Status = models.MintJobFailed
			}
		}
	}
	return nil
}

func newTestBacklot(repo *fakeRepo, chain *fakeChain) *Backlot {
	return &Backlot{
		logger: logger.NewNopLogger(),
		config: testConfig(),
		repo:   repo,
		chain:  chain,
	}
}
