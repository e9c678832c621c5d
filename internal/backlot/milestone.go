package backlot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/backlot-social/backlot/internal/models"
	"github.com/backlot-social/backlot/pkg/validation"
)

const lamportsPerSOL = 1_000_000_000

// feeTolerance accepts transfers down to 99% of the requested amount to
// absorb network fee rounding.
const feeTolerance = 0.99

// BuildFundingTransaction constructs the unsigned native transfer funding a
// milestone. Like the vote builder it records nothing.
func (b *Backlot) BuildFundingTransaction(ctx context.Context, milestoneID string, amount float64, wallet string) (string, error) {
	if err := validation.ValidateID(milestoneID); err != nil {
		return "", models.NewVerifyError(models.CodeInvalidRequest, "Invalid milestone id")
	}
	if err := validation.ValidateAddress(wallet); err != nil {
		return "", models.NewVerifyError(models.CodeInvalidRequest, "Invalid wallet address")
	}
	if amount <= 0 || amount > b.config.MaxContribution {
		return "", models.NewVerifyError(models.CodeInvalidRequest, "Invalid amount")
	}

	if _, err := b.repo.GetMilestone(milestoneID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", models.NewVerifyError(models.CodeNotFound, "Milestone not found")
		}
		return "", err
	}

	lamports := uint64(math.Round(amount * lamportsPerSOL))
	serialized, err := b.chain.BuildTransferTransaction(ctx, wallet, lamports)
	if err != nil {
		b.logger.Error("Failed to build funding transaction ", "wallet ", wallet, "error ", err)
		return "", err
	}
	return serialized, nil
}

// VerifyAndRecordFunding mirrors the vote pipeline for plain value
// transfers: confirm the transfer landed on-chain, then credit the milestone
// exactly once per transaction reference.
func (b *Backlot) VerifyAndRecordFunding(ctx context.Context, milestoneID string, amount float64, wallet, txSignature string) error {
	if err := validation.ValidateID(milestoneID); err != nil {
		return models.NewVerifyError(models.CodeInvalidRequest, "Invalid milestone id")
	}
	if err := validation.ValidateAddress(wallet); err != nil {
		return models.NewVerifyError(models.CodeInvalidRequest, "Invalid wallet address")
	}
	if err := validation.ValidateSignature(txSignature); err != nil {
		return models.NewVerifyError(models.CodeInvalidRequest, "Invalid transaction signature")
	}
	if amount <= 0 || amount > b.config.MaxContribution {
		return models.NewVerifyError(models.CodeInvalidRequest, "Invalid amount")
	}

	// Fast-path replay check; the unique tx_signature index is the guarantee.
	if _, err := b.repo.GetContributionByTxSignature(txSignature); err == nil {
		return models.NewVerifyError(models.CodeDuplicateContribution, "Transaction already recorded")
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	tx, err := b.lookupTransaction(ctx, txSignature)
	if err != nil {
		if errors.Is(err, models.ErrTxNotFound) {
			return models.NewVerifyError(models.CodeTxNotFound,
				"Transaction not found - it may not have confirmed on-chain yet, try again shortly")
		}
		b.logger.Error("Failed to look up funding transaction ", "signature ", txSignature, "error ", err)
		return err
	}

	if tx.Failed {
		return models.NewVerifyError(models.CodeTxFailed,
			fmt.Sprintf("Transaction failed on-chain: %s", tx.FailureDetail))
	}

	if tx.Signer != wallet {
		return models.NewVerifyError(models.CodeSignerMismatch, "Signer mismatch")
	}

	received := float64(tx.NativeCredit(b.config.TreasuryWallet)) / lamportsPerSOL
	if received < amount*feeTolerance {
		return models.NewVerifyError(models.CodeInsufficientTransfer,
			fmt.Sprintf("Insufficient transfer: expected %g SOL, got %.6f", amount, received))
	}

	if _, err := b.repo.GetMilestone(milestoneID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewVerifyError(models.CodeNotFound, "Milestone not found")
		}
		return err
	}

	contribution := &models.MilestoneContribution{
		ID:            uuid.NewString(),
		MilestoneID:   milestoneID,
		WalletAddress: wallet,
		Amount:        amount,
		Currency:      "SOL",
		TxSignature:   txSignature,
		CreatedAt:     time.Now(),
	}
	if err := b.repo.RecordContribution(contribution); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return models.NewVerifyError(models.CodeDuplicateContribution, "Transaction already recorded")
		}
		b.logger.Error("Failed to record contribution ", "milestone ", milestoneID, "error ", err)
		return err
	}

	b.logger.Info("Milestone contribution recorded ", "milestone ", milestoneID, "wallet ", wallet, "amount ", amount)
	return nil
}
