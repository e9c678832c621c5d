package minter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/backlot-social/backlot/internal/config"
	"github.com/backlot-social/backlot/internal/models"
	"github.com/backlot-social/backlot/pkg/logger"
)

const requestTimeout = 15 * time.Second

// Client talks to the cNFT mint side-service. The service either mints a
// receipt and returns its reference, or reports the mint as pending (e.g.
// its Merkle tree is not configured yet).
type Client struct {
	logger *logger.Logger
	config *config.Config

	httpClient *http.Client
}

func NewClient(cfg *config.Config, logger *logger.Logger) *Client {
	return &Client{
		logger:     logger,
		config:     cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type mintRequest struct {
	VoteID        string `json:"voteId"`
	WalletAddress string `json:"walletAddress"`
	PollTitle     string `json:"pollTitle"`
	OptionLabel   string `json:"optionLabel"`
}

type mintResponse struct {
	Success   bool   `json:"success"`
	Status    string `json:"status"`
	Signature string `json:"signature"`
	Error     string `json:"error"`
}

// MintReceipt asks the side-service to mint a receipt for the job. An empty
// reference with nil error means the service reported the mint as pending.
func (c *Client) MintReceipt(ctx context.Context, job *models.MintJob) (string, error) {
	if c.config.MintServiceURL == "" {
		// No mint service configured; receipts stay pending indefinitely
		// without affecting vote validity.
		return "", nil
	}

	body, err := json.Marshal(mintRequest{
		VoteID:        job.VoteID,
		WalletAddress: job.WalletAddress,
		PollTitle:     job.PollTitle,
		OptionLabel:   job.OptionLabel,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal mint request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.MintServiceURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create mint request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.InternalAPISecret != "" {
		req.Header.Set("x-internal-secret", c.config.InternalAPISecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("mint service unreachable: %w", err)
	}
	defer resp.Body.Close()

	var out mintResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode mint response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !out.Success {
		return "", fmt.Errorf("mint service error (status %d): %s", resp.StatusCode, out.Error)
	}
	if out.Status == "pending" {
		return "", nil
	}
	return out.Signature, nil
}
