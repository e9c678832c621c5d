package indexer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/backlot-social/backlot/internal/config"
	"github.com/backlot-social/backlot/pkg/logger"
)

func testIndexer(cfg *config.Config) *Indexer {
	if cfg.TokenMint == "" {
		cfg.TokenMint = "DSL6XbjPfhXjD9YYhzxo5Dv2VRt7VSeXRkTefEu5pump"
	}
	if cfg.SolanaRPCURL == "" {
		cfg.SolanaRPCURL = "http://127.0.0.1:1"
	}
	if cfg.TokenDecimals == 0 {
		cfg.TokenDecimals = 6
	}
	return NewIndexer(logger.NewNopLogger(), cfg)
}

func TestFetchPricePicksMostLiquidPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Path, "/latest/dex/tokens/")
		json.NewEncoder(w).Encode(map[string]any{
			"pairs": []map[string]any{
				{"priceUsd": "0.0010", "marketCap": 1000000.0, "liquidity": map[string]any{"usd": 500.0}},
				{"priceUsd": "0.0042", "marketCap": 4200000.0, "liquidity": map[string]any{"usd": 90000.0}},
			},
		})
	}))
	defer srv.Close()

	i := testIndexer(&config.Config{DexScreenerURL: srv.URL})

	price, marketCap, err := i.fetchPrice(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0.0042, price)
	require.Equal(t, 4200000.0, marketCap)
}

func TestFetchPriceNoPairs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"pairs": []any{}})
	}))
	defer srv.Close()

	i := testIndexer(&config.Config{DexScreenerURL: srv.URL})

	_, _, err := i.fetchPrice(context.Background())
	require.Error(t, err)
}

func TestFetchHolderBalancesAggregatesByOwner(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "getTokenAccounts", req["method"])

		json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{
				"token_accounts": []map[string]any{
					{"owner": "walletA", "amount": 5_000_000},
					{"owner": "walletA", "amount": 1_000_000}, // second token account, same owner
					{"owner": "walletB", "amount": 2_000_000},
					{"owner": "walletC", "amount": 0}, // empty accounts are not holders
				},
			},
		})
	}))
	defer srv.Close()

	i := testIndexer(&config.Config{
		HeliusURL:    srv.URL,
		HeliusAPIKey: "test-key",
	})

	balances, err := i.fetchHolderBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, balances, 2)
	require.Equal(t, 6.0, balances["walletA"])
	require.Equal(t, 2.0, balances["walletB"])
}

func TestFetchHolderBalancesRequiresAPIKey(t *testing.T) {
	i := testIndexer(&config.Config{})

	_, err := i.fetchHolderBalances(context.Background())
	require.Error(t, err)
}

func TestTokenStatsDegradesToZerosWhenUpstreamsFail(t *testing.T) {
	i := testIndexer(&config.Config{DexScreenerURL: "http://127.0.0.1:1"})

	stats := i.TokenStats(context.Background())
	require.NotNil(t, stats)
	require.Zero(t, stats.Price)
	require.Zero(t, stats.Holders)
	require.NotEmpty(t, stats.LastUpdated)
}
