package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		PostgresHost:          "localhost",
		PostgresDB:            "backlot",
		SolanaRPCURL:          "https://api.mainnet-beta.solana.com",
		TokenMint:             "DSL6XbjPfhXjD9YYhzxo5Dv2VRt7VSeXRkTefEu5pump",
		TreasuryWallet:        "11111111111111111111111111111111",
		TokenDecimals:         6,
		SupporterThreshold:    1,
		ProducerThreshold:     10000,
		ExecProducerThreshold: 100000,
		VoteCostTokens:        10,
		TxLookupAttempts:      5,
		TxLookupBackoff:       2 * time.Second,
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejectsBadKeys(t *testing.T) {
	cfg := validConfig()
	cfg.TokenMint = "not-a-key"
	require.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.TreasuryWallet = ""
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsUnorderedThresholds(t *testing.T) {
	cfg := validConfig()
	cfg.ProducerThreshold = cfg.ExecProducerThreshold + 1
	require.Error(t, cfg.Validate())
}

func TestVoteCostRaw(t *testing.T) {
	cfg := validConfig()
	require.Equal(t, uint64(10_000_000), cfg.VoteCostRaw())

	cfg.TokenDecimals = 0
	require.Equal(t, uint64(10), cfg.VoteCostRaw())

	cfg.TokenDecimals = 9
	cfg.VoteCostTokens = 1
	require.Equal(t, uint64(1_000_000_000), cfg.VoteCostRaw())
}
