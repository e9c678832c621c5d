package validation

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
)

// ValidateAddress validates a base58-encoded wallet address
func ValidateAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("address cannot be empty")
	}

	if _, err := solana.PublicKeyFromBase58(addr); err != nil {
		return fmt.Errorf("invalid base58 address: %w", err)
	}

	return nil
}

// ValidateSignature validates a base58-encoded transaction signature
func ValidateSignature(sig string) error {
	if sig == "" {
		return fmt.Errorf("signature cannot be empty")
	}

	if _, err := solana.SignatureFromBase58(sig); err != nil {
		return fmt.Errorf("invalid transaction signature: %w", err)
	}

	return nil
}

// ValidateID validates a UUID identifier (polls, options, milestones)
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("id cannot be empty")
	}

	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}

	return nil
}

// ShortAddress returns the truncated display form of an address ("abcd...wxyz")
func ShortAddress(addr string) string {
	if len(addr) <= 8 {
		return addr
	}
	return addr[:4] + "..." + addr[len(addr)-4:]
}
