package models

import "errors"

// Sentinel errors shared between the repository, the chain client and the core.
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert hits a uniqueness constraint.
	// The application-level existence checks are a fast path; this error is
	// the actual correctness guarantee under concurrent submission.
	ErrDuplicate = errors.New("duplicate record")
	// ErrTxNotFound is returned when a transaction is not (yet) visible on-chain.
	ErrTxNotFound = errors.New("transaction not found")
)

// Verification failure codes. Each maps to a specific user-facing message
// because the client must explain the failure to a human holding a wallet.
const (
	CodeInvalidRequest        = "invalid_request"
	CodeTxNotFound            = "tx_not_found"
	CodeTxFailed              = "tx_failed"
	CodeSignerMismatch        = "signer_mismatch"
	CodeInsufficientTransfer  = "insufficient_transfer"
	CodeDuplicateVote         = "duplicate_vote"
	CodeDuplicateContribution = "duplicate_contribution"
	CodePollClosed            = "poll_closed"
	CodePollEnded             = "poll_ended"
	CodeOptionMismatch        = "option_mismatch"
	CodeNotFound              = "not_found"
	CodeTierRequired          = "tier_required"
)

// VerifyError is a terminal, user-facing verification or business-rule
// failure. It is never retried by the pipeline.
type VerifyError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *VerifyError) Error() string {
	return e.Message
}

// NewVerifyError builds a VerifyError with the given code and message.
func NewVerifyError(code, message string) *VerifyError {
	return &VerifyError{Code: code, Message: message}
}

// AsVerifyError unwraps err into a VerifyError if it is one.
func AsVerifyError(err error) (*VerifyError, bool) {
	var ve *VerifyError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
