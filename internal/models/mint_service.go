package models

import "context"

// MintService represents the external side-service that mints cNFT vote
// receipts. Failures are logged and never affect vote state.
type MintService interface {
	// MintReceipt mints a receipt for the job and returns the mint
	// reference, or empty with nil error when the service reports the mint
	// as pending (e.g. its tree is not configured yet).
	MintReceipt(ctx context.Context, job *MintJob) (string, error)
}
