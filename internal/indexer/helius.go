package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/gagliardetto/solana-go/rpc"

	"github.com/backlot-social/backlot/internal/models"
	"github.com/backlot-social/backlot/pkg/validation"
)

const (
	heliusPageLimit = 1000
	maxHolderPages  = 10
	holderTableSize = 20
)

type heliusTokenAccount struct {
	Owner  string `json:"owner"`
	Amount int64  `json:"amount"`
}

type heliusTokenAccountsResult struct {
	TokenAccounts []heliusTokenAccount `json:"token_accounts"`
}

// fetchHolderBalances pages through the Helius getTokenAccounts index and
// aggregates balances per owner, in whole tokens.
func (i *Indexer) fetchHolderBalances(ctx context.Context) (map[string]float64, error) {
	if i.config.HeliusAPIKey == "" {
		return nil, fmt.Errorf("holder index not configured")
	}

	url := fmt.Sprintf("%s/?api-key=%s", i.config.HeliusURL, i.config.HeliusAPIKey)
	divisor := math.Pow10(i.config.TokenDecimals)

	balances := make(map[string]float64)
	for page := 1; page <= maxHolderPages; page++ {
		body, err := json.Marshal(map[string]any{
			"jsonrpc": "2.0",
			"id":      "backlot-holders",
			"method":  "getTokenAccounts",
			"params": map[string]any{
				"mint":  i.config.TokenMint,
				"page":  page,
				"limit": heliusPageLimit,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal holder request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create holder request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := i.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("holder index unreachable: %w", err)
		}

		var out struct {
			Result heliusTokenAccountsResult `json:"result"`
			Error  *struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		decodeErr := json.NewDecoder(resp.Body).Decode(&out)
		resp.Body.Close()
		if decodeErr != nil {
			return nil, fmt.Errorf("failed to decode holder response: %w", decodeErr)
		}
		if out.Error != nil {
			return nil, fmt.Errorf("holder index error: %s", out.Error.Message)
		}

		for _, account := range out.Result.TokenAccounts {
			if account.Amount == 0 {
				continue
			}
			balances[account.Owner] += float64(account.Amount) / divisor
		}

		if len(out.Result.TokenAccounts) < heliusPageLimit {
			break
		}
	}
	return balances, nil
}

func (i *Indexer) countHolders(ctx context.Context) (int, error) {
	balances, err := i.fetchHolderBalances(ctx)
	if err != nil {
		return 0, err
	}
	return len(balances), nil
}

// buildTreasuryOverview computes the holder distribution. Falls back to the
// top-20 largest accounts RPC when the Helius index is unavailable, which
// loses the total holder count but keeps the table alive.
func (i *Indexer) buildTreasuryOverview(ctx context.Context) (*models.TreasuryOverview, error) {
	balances, err := i.fetchHolderBalances(ctx)
	if err != nil {
		i.logger.Debug("Holder index unavailable, falling back to largest accounts ", "error ", err)
		balances, err = i.fetchLargestAccounts(ctx)
		if err != nil {
			return nil, err
		}
	}

	supply, err := i.fetchSupply(ctx)
	if err != nil {
		return nil, err
	}

	type holder struct {
		wallet string
		amount float64
	}
	sorted := make([]holder, 0, len(balances))
	for wallet, amount := range balances {
		sorted = append(sorted, holder{wallet, amount})
	}
	sort.Slice(sorted, func(a, b int) bool {
		if sorted[a].amount != sorted[b].amount {
			return sorted[a].amount > sorted[b].amount
		}
		return sorted[a].wallet < sorted[b].wallet
	})

	overview := &models.TreasuryOverview{
		TotalHolders: len(sorted),
		TotalSupply:  supply,
		LastUpdated:  time.Now().UTC().Format(time.RFC3339),
	}
	for rank, h := range sorted {
		pct := 0.0
		if supply > 0 {
			pct = h.amount / float64(supply) * 100
		}
		if rank < holderTableSize {
			overview.Holders = append(overview.Holders, models.HolderRow{
				Rank:       rank + 1,
				Wallet:     validation.ShortAddress(h.wallet),
				WalletFull: h.wallet,
				Amount:     h.amount,
				Percentage: pct,
			})
		}
		if rank == 0 {
			overview.TopHolderPercentage = pct
		}
		if rank < 5 {
			overview.Top5Percentage += pct
		}
		if rank < 10 {
			overview.Top10Percentage += pct
		}
	}
	return overview, nil
}

// fetchLargestAccounts is the RPC fallback. It returns token accounts rather
// than owners, so the distribution is approximate.
func (i *Indexer) fetchLargestAccounts(ctx context.Context) (map[string]float64, error) {
	out, err := i.rpcClient.GetTokenLargestAccounts(ctx, i.mint, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch largest accounts: %w", err)
	}

	balances := make(map[string]float64)
	for _, account := range out.Value {
		if account.UiTokenAmount.UiAmount == nil || *account.UiTokenAmount.UiAmount == 0 {
			continue
		}
		balances[account.Address.String()] = *account.UiTokenAmount.UiAmount
	}
	return balances, nil
}
