package backlot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/backlot-social/backlot/internal/models"
	"github.com/backlot-social/backlot/pkg/validation"
)

// VerifyAndRecordVote is the server-verified voting path. It re-derives every
// trust-relevant fact from the chain: the signer, the on-chain outcome and
// the burned amount all come from the transaction itself, never from the
// client. On success the vote row exists and the option counters reflect it;
// receipt minting stays eventually-consistent via the outbox.
func (b *Backlot) VerifyAndRecordVote(ctx context.Context, pollID, optionID, txSignature string) (*models.Vote, error) {
	if err := validation.ValidateID(pollID); err != nil {
		return nil, models.NewVerifyError(models.CodeInvalidRequest, "Invalid poll id")
	}
	if err := validation.ValidateID(optionID); err != nil {
		return nil, models.NewVerifyError(models.CodeInvalidRequest, "Invalid option id")
	}
	if err := validation.ValidateSignature(txSignature); err != nil {
		return nil, models.NewVerifyError(models.CodeInvalidRequest, "Invalid transaction signature")
	}

	tx, err := b.lookupTransaction(ctx, txSignature)
	if err != nil {
		if errors.Is(err, models.ErrTxNotFound) {
			b.logger.Error("Transaction not found after retries ", "signature ", txSignature)
			return nil, models.NewVerifyError(models.CodeTxNotFound,
				"Transaction not found - it may not have confirmed on-chain yet, try again shortly")
		}
		b.logger.Error("Failed to look up transaction ", "signature ", txSignature, "error ", err)
		return nil, err
	}

	if tx.Failed {
		return nil, models.NewVerifyError(models.CodeTxFailed,
			fmt.Sprintf("Transaction failed on-chain: %s", tx.FailureDetail))
	}

	voter := tx.Signer

	// The burned amount is the signer's own token outflow, read from the
	// transaction's pre/post token balances. Covers both the burn and the
	// transfer-to-treasury deployment variants.
	required := b.config.VoteCostRaw()
	debited := tx.TokenDebit(voter)
	if debited < required {
		return nil, models.NewVerifyError(models.CodeInsufficientTransfer,
			fmt.Sprintf("Insufficient transfer: expected %d, got %d", required, debited))
	}

	poll, err := b.repo.GetPoll(pollID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewVerifyError(models.CodeNotFound, "Poll not found")
		}
		return nil, err
	}
	now := time.Now()
	if !poll.IsActive {
		return nil, models.NewVerifyError(models.CodePollClosed, "Poll is closed")
	}
	if poll.EndsAt != nil && poll.EndsAt.Before(now) {
		return nil, models.NewVerifyError(models.CodePollEnded, "Poll has ended")
	}

	option, err := b.repo.GetPollOption(optionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewVerifyError(models.CodeOptionMismatch, "Invalid option for this poll")
		}
		return nil, err
	}
	if option.PollID != pollID {
		return nil, models.NewVerifyError(models.CodeOptionMismatch, "Invalid option for this poll")
	}

	// Fast-path duplicate check; the storage constraint is the guarantee.
	if _, err := b.repo.GetVoteByPollAndWallet(pollID, voter); err == nil {
		return nil, models.NewVerifyError(models.CodeDuplicateVote, "Already voted on this poll")
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	// Tier and weight snapshot, server-derived at recording time
	info := b.ResolveTier(ctx, voter)
	weight := int64(info.Balance)
	if weight < 1 {
		weight = 1
	}

	vote := &models.Vote{
		ID:                uuid.NewString(),
		PollID:            pollID,
		OptionID:          optionID,
		WalletAddress:     voter,
		TierAtVote:        info.Tier,
		Weight:            weight,
		HoldingMultiplier: info.HoldingMultiplier,
		TxSignature:       txSignature,
		CreatedAt:         now,
	}
	receipt := &models.VoteReceipt{
		ID:            uuid.NewString(),
		VoteID:        vote.ID,
		WalletAddress: voter,
		PollTitle:     poll.Title,
		OptionLabel:   option.Label,
		CreatedAt:     now,
	}
	job := &models.MintJob{
		VoteID:        vote.ID,
		WalletAddress: voter,
		PollTitle:     poll.Title,
		OptionLabel:   option.Label,
		Status:        models.MintJobPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := b.repo.RecordVote(vote, receipt, job); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			// A concurrent submission won the race; expected outcome, not a failure
			return nil, models.NewVerifyError(models.CodeDuplicateVote, "Already voted on this poll")
		}
		b.logger.Error("Failed to record vote ", "poll ", pollID, "wallet ", voter, "error ", err)
		return nil, err
	}

	b.logger.Info("Vote recorded ", "poll ", pollID, "option ", optionID, "wallet ", voter, "weight ", weight)
	return vote, nil
}

// lookupTransaction polls the chain for the transaction with bounded retry,
// tolerating RPC propagation delay after client-side signing.
func (b *Backlot) lookupTransaction(ctx context.Context, txSignature string) (*models.ChainTransaction, error) {
	for attempt := 0; attempt < b.config.TxLookupAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(b.config.TxLookupBackoff):
			}
		}

		tx, err := b.chain.GetTransaction(ctx, txSignature)
		if err == nil {
			return tx, nil
		}
		if !errors.Is(err, models.ErrTxNotFound) {
			return nil, err
		}
		b.logger.Debug("Transaction not found, retrying ", "signature ", txSignature, "attempt ", attempt+1)
	}

	return nil, models.ErrTxNotFound
}
