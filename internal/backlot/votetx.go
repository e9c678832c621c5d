package backlot

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/backlot-social/backlot/internal/models"
	"github.com/backlot-social/backlot/pkg/validation"
)

// BuildVoteTransaction constructs the unsigned burn transaction for one
// vote. Purely a construction step: nothing is signed, submitted or recorded
// here, so it touches no storage.
func (b *Backlot) BuildVoteTransaction(ctx context.Context, pollID, optionID, wallet string) (string, error) {
	if err := validation.ValidateID(pollID); err != nil {
		return "", models.NewVerifyError(models.CodeInvalidRequest, "Invalid poll id")
	}
	if err := validation.ValidateID(optionID); err != nil {
		return "", models.NewVerifyError(models.CodeInvalidRequest, "Invalid option id")
	}
	if err := validation.ValidateAddress(wallet); err != nil {
		return "", models.NewVerifyError(models.CodeInvalidRequest, "Invalid wallet address")
	}

	serialized, err := b.chain.BuildBurnTransaction(ctx, wallet, b.config.VoteCostRaw(), nil)
	if err != nil {
		b.logger.Error("Failed to build vote transaction ", "wallet ", wallet, "error ", err)
		return "", err
	}
	return serialized, nil
}

// voteMemo is the payload embedded in action-protocol vote transactions.
type voteMemo struct {
	Type   string `json:"type"`
	Poll   string `json:"poll"`
	Option string `json:"option"`
	Label  string `json:"label"`
}

// BuildActionVoteTransaction builds the burn-plus-memo transaction for the
// externally shareable action flow and a human-readable confirmation
// message. Recording still happens only through the verified path once the
// signature confirms.
func (b *Backlot) BuildActionVoteTransaction(ctx context.Context, pollID, optionID, wallet string) (string, string, error) {
	if err := validation.ValidateID(pollID); err != nil {
		return "", "", models.NewVerifyError(models.CodeInvalidRequest, "Invalid poll id")
	}
	if err := validation.ValidateID(optionID); err != nil {
		return "", "", models.NewVerifyError(models.CodeInvalidRequest, "Invalid option id")
	}
	if err := validation.ValidateAddress(wallet); err != nil {
		return "", "", models.NewVerifyError(models.CodeInvalidRequest, "Invalid wallet address")
	}

	poll, err := b.repo.GetPoll(pollID)
	if err != nil {
		return "", "", models.NewVerifyError(models.CodeNotFound, "Poll not found")
	}
	option, err := b.repo.GetPollOption(optionID)
	if err != nil || option.PollID != pollID {
		return "", "", models.NewVerifyError(models.CodeOptionMismatch, "Invalid option for this poll")
	}

	memo, err := json.Marshal(voteMemo{
		Type:   "backlot_vote",
		Poll:   pollID,
		Option: optionID,
		Label:  option.Label,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal vote memo: %w", err)
	}

	serialized, err := b.chain.BuildBurnTransaction(ctx, wallet, b.config.VoteCostRaw(), memo)
	if err != nil {
		b.logger.Error("Failed to build action vote transaction ", "wallet ", wallet, "error ", err)
		return "", "", err
	}

	message := fmt.Sprintf("Vote %q on %q", option.Label, poll.Title)
	return serialized, message, nil
}

// WatchAndRecordVote polls for confirmation of an action-protocol vote in
// the background and then feeds the signature into the verified recording
// path. The caller already has its response; this outcome is logged only.
func (b *Backlot) WatchAndRecordVote(pollID, optionID, txSignature string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Vote confirmation watcher panicked ",
					"signature ", txSignature, "panic ", r, "stack ", string(debug.Stack()))
			}
		}()

		ctx := context.Background()
		for attempt := 0; attempt < b.config.ConfirmAttempts; attempt++ {
			time.Sleep(b.config.ConfirmBackoff)

			status, err := b.chain.GetSignatureStatus(ctx, txSignature)
			if err != nil {
				b.logger.Debug("Failed to get signature status ", "signature ", txSignature, "error ", err)
				continue
			}
			if status != "confirmed" && status != "finalized" {
				continue
			}

			if _, err := b.VerifyAndRecordVote(ctx, pollID, optionID, txSignature); err != nil {
				b.logger.Error("Failed to record action vote ", "signature ", txSignature, "error ", err)
			}
			return
		}
		b.logger.Warn("Action vote never confirmed ", "signature ", txSignature)
	}()
}
