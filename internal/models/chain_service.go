package models

import (
	"context"
	"time"
)

// ChainService represents a service that interacts with the blockchain.
// Every method returns a structured result or error; nothing panics through.
type ChainService interface {
	// GetTokenBalance returns the wallet's platform token holdings in whole
	// tokens. A wallet with no token account has balance 0.
	GetTokenBalance(ctx context.Context, wallet string) (float64, error)

	// GetEarliestTokenActivity returns the earliest on-chain activity
	// timestamp of the wallet's token account, paging signature history
	// backward until no earlier page exists. The zero time means no activity
	// was found.
	GetEarliestTokenActivity(ctx context.Context, wallet string) (time.Time, error)

	// GetTransaction fetches a confirmed transaction by signature.
	// Returns ErrTxNotFound if the transaction is not visible yet.
	GetTransaction(ctx context.Context, signature string) (*ChainTransaction, error)

	// GetSignatureStatus returns the confirmation status of a signature
	// ("processed", "confirmed", "finalized") or empty if unknown.
	GetSignatureStatus(ctx context.Context, signature string) (string, error)

	// BuildBurnTransaction constructs an unsigned transaction burning
	// amountRaw smallest units of the platform token from the wallet's
	// token account, with a fresh blockhash attached. A non-empty memo is
	// appended as an extra instruction (action-protocol flow). Returns the
	// base64-serialized transaction.
	BuildBurnTransaction(ctx context.Context, wallet string, amountRaw uint64, memo []byte) (string, error)

	// BuildTransferTransaction constructs an unsigned native-unit transfer
	// of lamports from the wallet to the treasury.
	BuildTransferTransaction(ctx context.Context, wallet string, lamports uint64) (string, error)
}

// ChainTransaction is the verifier's view of an on-chain transaction:
// only server-derived facts, never client-supplied values.
type ChainTransaction struct {
	// Signature is the transaction reference.
	Signature string
	// Failed reports whether the transaction executed but errored on-chain.
	Failed bool
	// FailureDetail carries the on-chain error for user-facing messages.
	FailureDetail string
	// Signer is the fee payer, the wallet that signed the transaction.
	Signer string
	// TokenDeltas maps owner address to the raw platform-token balance
	// change (post minus pre). A burn shows as a negative delta for the
	// voter; a transfer to treasury additionally shows a positive delta
	// for the treasury owner.
	TokenDeltas map[string]int64
	// NativeDeltas maps account address to the lamport balance change.
	NativeDeltas map[string]int64
}

// TokenDebit returns how many raw token units left the owner's account.
func (t *ChainTransaction) TokenDebit(owner string) uint64 {
	delta := t.TokenDeltas[owner]
	if delta >= 0 {
		return 0
	}
	return uint64(-delta)
}

// NativeCredit returns how many lamports the account received.
func (t *ChainTransaction) NativeCredit(account string) uint64 {
	delta := t.NativeDeltas[account]
	if delta <= 0 {
		return 0
	}
	return uint64(delta)
}
