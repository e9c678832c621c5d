package backlot

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/backlot-social/backlot/internal/models"
)

func TestLeaderboardScoring(t *testing.T) {
	repo := newFakeRepo()
	b := newTestBacklot(repo, newFakeChain())

	wallet := testWallet(1)
	polls := []string{uuid.NewString(), uuid.NewString()}

	// 3 votes across 2 polls, 4 chat messages, 1 receipt:
	// 3*10 + 2*25 + 4*2 + 1*15 = 103
	repo.participation = []models.VoteParticipation{
		{WalletAddress: wallet, PollID: polls[0]},
		{WalletAddress: wallet, PollID: polls[0]},
		{WalletAddress: wallet, PollID: polls[1]},
	}
	repo.chatWallets = []string{wallet, wallet, wallet, wallet}
	repo.receiptWallets = []string{wallet}

	result, err := b.Leaderboard(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)

	entry := result.Entries[0]
	require.Equal(t, 3, entry.VotesCast)
	require.Equal(t, 2, entry.PollsParticipated)
	require.Equal(t, 4, entry.ChatMessagesSent)
	require.Equal(t, 1, entry.ReceiptsEarned)
	require.Equal(t, 103, entry.TotalScore)
}

func TestLeaderboardHeavyParticipant(t *testing.T) {
	repo := newFakeRepo()
	b := newTestBacklot(repo, newFakeChain())

	wallet := testWallet(1)
	polls := make([]string, 8)
	for i := range polls {
		polls[i] = uuid.NewString()
	}

	// 12 votes across 8 polls, 156 chat messages, 12 receipts:
	// 12*10 + 8*25 + 156*2 + 12*15 = 812
	for i := 0; i < 12; i++ {
		repo.participation = append(repo.participation, models.VoteParticipation{
			WalletAddress: wallet,
			PollID:        polls[i%8],
		})
	}
	for i := 0; i < 156; i++ {
		repo.chatWallets = append(repo.chatWallets, wallet)
	}
	for i := 0; i < 12; i++ {
		repo.receiptWallets = append(repo.receiptWallets, wallet)
	}

	result, err := b.Leaderboard(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	require.Equal(t, 812, result.Entries[0].TotalScore)
}

func TestLeaderboardOrderingAndMyRank(t *testing.T) {
	repo := newFakeRepo()
	b := newTestBacklot(repo, newFakeChain())

	pollID := uuid.NewString()
	heavy := testWallet(1)
	light := testWallet(2)

	repo.participation = []models.VoteParticipation{
		{WalletAddress: heavy, PollID: pollID},
		{WalletAddress: light, PollID: pollID},
	}
	repo.chatWallets = []string{heavy, heavy, heavy}

	result, err := b.Leaderboard(context.Background(), light)
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)
	require.Equal(t, heavy, result.Entries[0].WalletAddress)
	require.Equal(t, light, result.Entries[1].WalletAddress)

	require.NotNil(t, result.MyRank)
	require.Equal(t, 2, result.MyRank.Rank)
	require.Equal(t, light, result.MyRank.WalletAddress)
}

func TestLeaderboardCapsAtFiftyButRanksBeyond(t *testing.T) {
	repo := newFakeRepo()
	b := newTestBacklot(repo, newFakeChain())

	pollID := uuid.NewString()
	// 60 wallets with descending activity; wallet i casts 60-i votes.
	wallets := make([]string, 60)
	for i := range wallets {
		wallets[i] = testWallet(byte(i + 1))
		for v := 0; v < 60-i; v++ {
			repo.participation = append(repo.participation, models.VoteParticipation{
				WalletAddress: wallets[i],
				PollID:        fmt.Sprintf("%s-%d", pollID, v),
			})
		}
	}

	last := wallets[59]
	result, err := b.Leaderboard(context.Background(), last)
	require.NoError(t, err)
	require.Len(t, result.Entries, 50)
	require.Equal(t, wallets[0], result.Entries[0].WalletAddress)

	// The caller is below the cutoff but still gets a rank.
	require.NotNil(t, result.MyRank)
	require.Equal(t, 60, result.MyRank.Rank)
}

func TestLeaderboardEmptyHistory(t *testing.T) {
	b := newTestBacklot(newFakeRepo(), newFakeChain())

	result, err := b.Leaderboard(context.Background(), testWallet(1))
	require.NoError(t, err)
	require.Empty(t, result.Entries)
	require.Nil(t, result.MyRank)
}
