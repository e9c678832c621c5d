package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// dexPair is one trading pair from the DexScreener token endpoint. Prices
// come back as strings.
type dexPair struct {
	PriceUSD  string  `json:"priceUsd"`
	MarketCap float64 `json:"marketCap"`
	FDV       float64 `json:"fdv"`
	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
}

// fetchPrice returns the token price and market cap from the most liquid
// DexScreener pair.
func (i *Indexer) fetchPrice(ctx context.Context) (float64, float64, error) {
	url := fmt.Sprintf("%s/latest/dex/tokens/%s", i.config.DexScreenerURL, i.config.TokenMint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create price request: %w", err)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("price feed unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("price feed returned status %d", resp.StatusCode)
	}

	var out struct {
		Pairs []dexPair `json:"pairs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, 0, fmt.Errorf("failed to decode price response: %w", err)
	}
	if len(out.Pairs) == 0 {
		return 0, 0, fmt.Errorf("no trading pairs for token %s", i.config.TokenMint)
	}

	best := out.Pairs[0]
	for _, pair := range out.Pairs[1:] {
		if pair.Liquidity.USD > best.Liquidity.USD {
			best = pair
		}
	}

	price, err := strconv.ParseFloat(best.PriceUSD, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse price %q: %w", best.PriceUSD, err)
	}
	marketCap := best.MarketCap
	if marketCap == 0 {
		marketCap = best.FDV
	}
	return price, marketCap, nil
}
