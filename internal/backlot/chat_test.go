package backlot

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/backlot-social/backlot/internal/models"
)

func TestPostChatMessage(t *testing.T) {
	repo := newFakeRepo()
	chain := newFakeChain()
	b := newTestBacklot(repo, chain)

	wallet := testWallet(1)
	chain.balances[wallet] = 500

	msg, err := b.PostChatMessage(context.Background(), wallet, "first day on set!")
	require.NoError(t, err)
	require.Equal(t, models.TierSupporter, msg.Tier)
	require.Equal(t, wallet[:4]+"..."+wallet[len(wallet)-4:], msg.DisplayName)
	require.Len(t, repo.chatMessages, 1)
}

func TestPostChatMessageRequiresTokens(t *testing.T) {
	repo := newFakeRepo()
	b := newTestBacklot(repo, newFakeChain())

	_, err := b.PostChatMessage(context.Background(), testWallet(1), "hello")
	ve, ok := models.AsVerifyError(err)
	require.True(t, ok)
	require.Equal(t, models.CodeTierRequired, ve.Code)
	require.Empty(t, repo.chatMessages)
}

func TestPostChatMessageRejectsEmptyAndOversized(t *testing.T) {
	chain := newFakeChain()
	wallet := testWallet(1)
	chain.balances[wallet] = 500
	b := newTestBacklot(newFakeRepo(), chain)

	_, err := b.PostChatMessage(context.Background(), wallet, "   ")
	ve, ok := models.AsVerifyError(err)
	require.True(t, ok)
	require.Equal(t, models.CodeInvalidRequest, ve.Code)

	_, err = b.PostChatMessage(context.Background(), wallet, strings.Repeat("a", MaxChatMessageLength+1))
	ve, ok = models.AsVerifyError(err)
	require.True(t, ok)
	require.Equal(t, models.CodeInvalidRequest, ve.Code)
}
