package indexer

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/backlot-social/backlot/internal/config"
	"github.com/backlot-social/backlot/internal/models"
	"github.com/backlot-social/backlot/pkg/logger"
)

const (
	statsCacheTTL    = 1 * time.Minute
	treasuryCacheTTL = 5 * time.Minute
)

// Indexer aggregates token market data from hosted indexes: DexScreener for
// price and the Helius token API for the holder distribution. Everything is
// cached in memory so dashboard traffic never fans out to the upstreams.
type Indexer struct {
	logger *logger.Logger
	config *config.Config

	client    *http.Client
	rpcClient *rpc.Client
	mint      solana.PublicKey

	cacheMutex      sync.RWMutex
	statsCache      *models.TokenStats
	statsFetchedAt  time.Time
	treasuryCache   *models.TreasuryOverview
	treasuryFetched time.Time
}

// NewIndexer creates the indexer. The config is assumed validated, so the
// mint key parses.
func NewIndexer(logger *logger.Logger, config *config.Config) *Indexer {
	mint, _ := solana.PublicKeyFromBase58(config.TokenMint)
	return &Indexer{
		logger:    logger,
		config:    config,
		client:    &http.Client{Timeout: 15 * time.Second},
		rpcClient: rpc.New(config.SolanaRPCURL),
		mint:      mint,
	}
}

// TokenStats returns the cached market snapshot, refreshing it when stale.
// Never fails: when every upstream is down the previous snapshot (or zeros)
// is returned.
func (i *Indexer) TokenStats(ctx context.Context) *models.TokenStats {
	i.cacheMutex.RLock()
	cached, fetchedAt := i.statsCache, i.statsFetchedAt
	i.cacheMutex.RUnlock()
	if cached != nil && time.Since(fetchedAt) < statsCacheTTL {
		return cached
	}

	stats := &models.TokenStats{LastUpdated: time.Now().UTC().Format(time.RFC3339)}

	price, marketCap, err := i.fetchPrice(ctx)
	if err != nil {
		i.logger.Error("Failed to fetch token price ", "error ", err)
	} else {
		stats.Price = price
		stats.MarketCap = marketCap
	}

	supply, err := i.fetchSupply(ctx)
	if err != nil {
		i.logger.Error("Failed to fetch token supply ", "error ", err)
	} else {
		stats.Supply = supply
	}

	holders, err := i.countHolders(ctx)
	if err != nil {
		i.logger.Error("Failed to count holders ", "error ", err)
	} else {
		stats.Holders = holders
	}

	if stats.Price == 0 && stats.Holders == 0 && cached != nil {
		// Every upstream failed; keep serving the stale snapshot.
		return cached
	}

	i.cacheMutex.Lock()
	i.statsCache = stats
	i.statsFetchedAt = time.Now()
	i.cacheMutex.Unlock()
	return stats
}

// Treasury returns the cached holder distribution, refreshing it when stale.
func (i *Indexer) Treasury(ctx context.Context) (*models.TreasuryOverview, error) {
	i.cacheMutex.RLock()
	cached, fetchedAt := i.treasuryCache, i.treasuryFetched
	i.cacheMutex.RUnlock()
	if cached != nil && time.Since(fetchedAt) < treasuryCacheTTL {
		return cached, nil
	}

	overview, err := i.buildTreasuryOverview(ctx)
	if err != nil {
		if cached != nil {
			i.logger.Error("Failed to refresh treasury overview, serving stale ", "error ", err)
			return cached, nil
		}
		return nil, err
	}

	i.cacheMutex.Lock()
	i.treasuryCache = overview
	i.treasuryFetched = time.Now()
	i.cacheMutex.Unlock()
	return overview, nil
}

func (i *Indexer) fetchSupply(ctx context.Context) (int64, error) {
	out, err := i.rpcClient.GetTokenSupply(ctx, i.mint, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, err
	}
	if out.Value.UiAmount == nil {
		return 0, nil
	}
	return int64(*out.Value.UiAmount), nil
}
