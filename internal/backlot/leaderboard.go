package backlot

import (
	"context"
	"sort"

	"github.com/backlot-social/backlot/internal/models"
)

// Participation score weights. Balance is deliberately not a factor.
const (
	scorePerVote    = 10
	scorePerPoll    = 25
	scorePerChat    = 2
	scorePerReceipt = 15
)

// leaderboardSize caps the returned table
const leaderboardSize = 50

// Leaderboard batch-computes participation scores over the full vote, chat
// and receipt history in three bulk reads, aggregating in memory so the cost
// stays flat as the participant count grows.
func (b *Backlot) Leaderboard(ctx context.Context, wallet string) (*models.LeaderboardResult, error) {
	votes, err := b.repo.ListVoteParticipation()
	if err != nil {
		return nil, err
	}
	chatWallets, err := b.repo.ListChatWallets()
	if err != nil {
		return nil, err
	}
	receiptWallets, err := b.repo.ListReceiptWallets()
	if err != nil {
		return nil, err
	}

	entries := make(map[string]*models.LeaderboardEntry)
	get := func(w string) *models.LeaderboardEntry {
		entry, ok := entries[w]
		if !ok {
			entry = &models.LeaderboardEntry{WalletAddress: w}
			entries[w] = entry
		}
		return entry
	}

	polls := make(map[string]map[string]struct{})
	for _, v := range votes {
		entry := get(v.WalletAddress)
		entry.VotesCast++
		set, ok := polls[v.WalletAddress]
		if !ok {
			set = make(map[string]struct{})
			polls[v.WalletAddress] = set
		}
		set[v.PollID] = struct{}{}
	}
	for w, set := range polls {
		entries[w].PollsParticipated = len(set)
	}
	for _, w := range chatWallets {
		get(w).ChatMessagesSent++
	}
	for _, w := range receiptWallets {
		get(w).ReceiptsEarned++
	}

	sorted := make([]*models.LeaderboardEntry, 0, len(entries))
	for _, entry := range entries {
		entry.TotalScore = entry.VotesCast*scorePerVote +
			entry.PollsParticipated*scorePerPoll +
			entry.ChatMessagesSent*scorePerChat +
			entry.ReceiptsEarned*scorePerReceipt
		sorted = append(sorted, entry)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].TotalScore != sorted[j].TotalScore {
			return sorted[i].TotalScore > sorted[j].TotalScore
		}
		return sorted[i].WalletAddress < sorted[j].WalletAddress
	})

	result := &models.LeaderboardResult{}
	if len(sorted) > leaderboardSize {
		result.Entries = sorted[:leaderboardSize]
	} else {
		result.Entries = sorted
	}

	if wallet != "" {
		for i, entry := range sorted {
			if entry.WalletAddress == wallet {
				result.MyRank = &models.RankedEntry{Rank: i + 1, LeaderboardEntry: *entry}
				break
			}
		}
	}

	return result, nil
}
