package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
)

type Config struct {
	Development bool
	// API configuration
	APIPort int
	SiteURL string
	// Postgres configuration
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     int
	PostgresDB       string
	// Chain configuration
	SolanaRPCURL   string
	TokenMint      string
	TreasuryWallet string
	TokenDecimals  int

	// Tier thresholds, denominated in whole tokens
	SupporterThreshold    float64
	ProducerThreshold     float64
	ExecProducerThreshold float64

	// Voting configuration
	VoteCostTokens int

	// Transaction lookup retry policy for the verification path
	TxLookupAttempts int
	TxLookupBackoff  time.Duration
	// Secondary window for background confirmation polling after action flows
	ConfirmAttempts int
	ConfirmBackoff  time.Duration

	// Milestone funding
	MaxContribution float64

	// Holder index / price feed configuration
	HeliusAPIKey   string
	HeliusURL      string
	DexScreenerURL string

	// Receipt minting side-service
	MintServiceURL     string
	InternalAPISecret  string
	MintOutboxInterval time.Duration
	MintMaxAttempts    int
}

// VoteCostRaw returns the vote cost in the token's smallest unit.
func (c *Config) VoteCostRaw() uint64 {
	raw := uint64(c.VoteCostTokens)
	for i := 0; i < c.TokenDecimals; i++ {
		raw *= 10
	}
	return raw
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Development:      getEnvAsBool("DEVELOPMENT", false),
		APIPort:          getEnvAsInt("API_PORT", 6540),
		SiteURL:          getEnv("SITE_URL", "https://www.backlotsocial.xyz"),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvAsInt("POSTGRES_PORT", 5432),
		PostgresDB:       getEnv("POSTGRES_DB", "backlot"),

		SolanaRPCURL:   getEnv("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
		TokenMint:      getEnv("TOKEN_MINT", "DSL6XbjPfhXjD9YYhzxo5Dv2VRt7VSeXRkTefEu5pump"),
		TreasuryWallet: getEnv("TREASURY_WALLET", ""),
		TokenDecimals:  getEnvAsInt("TOKEN_DECIMALS", 6),

		SupporterThreshold:    getEnvAsFloat("SUPPORTER_THRESHOLD", 1),
		ProducerThreshold:     getEnvAsFloat("PRODUCER_THRESHOLD", 10000),
		ExecProducerThreshold: getEnvAsFloat("EXEC_PRODUCER_THRESHOLD", 100000),

		VoteCostTokens: getEnvAsInt("VOTE_COST_TOKENS", 10),

		TxLookupAttempts: getEnvAsInt("TX_LOOKUP_ATTEMPTS", 5),
		TxLookupBackoff:  getEnvAsDuration("TX_LOOKUP_BACKOFF", 2*time.Second),
		ConfirmAttempts:  getEnvAsInt("CONFIRM_ATTEMPTS", 6),
		ConfirmBackoff:   getEnvAsDuration("CONFIRM_BACKOFF", 5*time.Second),

		MaxContribution: getEnvAsFloat("MAX_CONTRIBUTION", 1000),

		HeliusAPIKey:   getEnv("HELIUS_API_KEY", ""),
		HeliusURL:      getEnv("HELIUS_URL", "https://mainnet.helius-rpc.com"),
		DexScreenerURL: getEnv("DEXSCREENER_URL", "https://api.dexscreener.com"),

		MintServiceURL:     getEnv("MINT_SERVICE_URL", ""),
		InternalAPISecret:  getEnv("INTERNAL_API_SECRET", ""),
		MintOutboxInterval: getEnvAsDuration("MINT_OUTBOX_INTERVAL", 15*time.Second),
		MintMaxAttempts:    getEnvAsInt("MINT_MAX_ATTEMPTS", 5),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are properly set
func (c *Config) Validate() error {
	if c.TokenMint == "" {
		return fmt.Errorf("TOKEN_MINT is required")
	}
	if _, err := solana.PublicKeyFromBase58(c.TokenMint); err != nil {
		return fmt.Errorf("invalid TOKEN_MINT format: %w", err)
	}

	if c.TreasuryWallet == "" {
		return fmt.Errorf("TREASURY_WALLET is required")
	}
	if _, err := solana.PublicKeyFromBase58(c.TreasuryWallet); err != nil {
		return fmt.Errorf("invalid TREASURY_WALLET format: %w", err)
	}

	if c.SolanaRPCURL == "" {
		return fmt.Errorf("SOLANA_RPC_URL is required")
	}

	if c.PostgresDB == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}

	if c.TokenDecimals < 0 || c.TokenDecimals > 18 {
		return fmt.Errorf("TOKEN_DECIMALS out of range: %d", c.TokenDecimals)
	}

	if c.SupporterThreshold > c.ProducerThreshold || c.ProducerThreshold > c.ExecProducerThreshold {
		return fmt.Errorf("tier thresholds must be ascending: supporter=%v producer=%v exec=%v",
			c.SupporterThreshold, c.ProducerThreshold, c.ExecProducerThreshold)
	}

	if c.VoteCostTokens <= 0 {
		return fmt.Errorf("VOTE_COST_TOKENS must be positive")
	}

	if c.TxLookupAttempts <= 0 {
		return fmt.Errorf("TX_LOOKUP_ATTEMPTS must be positive")
	}

	return nil
}

// Helper functions to read environment variables
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsFloat(name string, defaultValue float64) float64 {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
