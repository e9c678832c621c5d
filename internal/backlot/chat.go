package backlot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/backlot-social/backlot/internal/models"
	"github.com/backlot-social/backlot/pkg/validation"
)

// MaxChatMessageLength bounds a single chat message
const MaxChatMessageLength = 500

// PostChatMessage stores a chat message. The sender's tier is re-derived
// on-chain; a client-claimed tier is never accepted.
func (b *Backlot) PostChatMessage(ctx context.Context, wallet, message string) (*models.ChatMessage, error) {
	if err := validation.ValidateAddress(wallet); err != nil {
		return nil, models.NewVerifyError(models.CodeInvalidRequest, "Invalid wallet address")
	}
	if strings.TrimSpace(message) == "" {
		return nil, models.NewVerifyError(models.CodeInvalidRequest, "Message cannot be empty")
	}
	if len(message) > MaxChatMessageLength {
		return nil, models.NewVerifyError(models.CodeInvalidRequest,
			fmt.Sprintf("Message too long (max %d chars)", MaxChatMessageLength))
	}

	info := b.ResolveTier(ctx, wallet)
	if info.Tier == models.TierViewer {
		return nil, models.NewVerifyError(models.CodeTierRequired, "Must hold tokens to chat")
	}

	msg := &models.ChatMessage{
		WalletAddress: wallet,
		DisplayName:   validation.ShortAddress(wallet),
		Message:       message,
		Tier:          info.Tier,
		CreatedAt:     time.Now(),
	}
	if err := b.repo.CreateChatMessage(msg); err != nil {
		b.logger.Error("Failed to create chat message ", "wallet ", wallet, "error ", err)
		return nil, err
	}

	return msg, nil
}
