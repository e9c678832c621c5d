package blockchain

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/backlot-social/backlot/internal/config"
	"github.com/backlot-social/backlot/internal/models"
	"github.com/backlot-social/backlot/pkg/logger"
)

const (
	// RequestTimeout bounds every single RPC call
	RequestTimeout = 10 * time.Second
	// SignaturePageLimit is the page size when walking transaction history backward
	SignaturePageLimit = 1000
	// MaxHistoryPages bounds the backward walk; beyond this we keep the
	// earliest timestamp seen so far
	MaxHistoryPages = 20
)

type Solana struct {
	logger *logger.Logger
	config *config.Config

	client   *rpc.Client
	mint     solana.PublicKey
	treasury solana.PublicKey
}

// NewSolana creates a new Solana chain client.
func NewSolana(cfg *config.Config, logger *logger.Logger) (*Solana, error) {
	mint, err := solana.PublicKeyFromBase58(cfg.TokenMint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token mint: %w", err)
	}
	treasury, err := solana.PublicKeyFromBase58(cfg.TreasuryWallet)
	if err != nil {
		return nil, fmt.Errorf("failed to parse treasury wallet: %w", err)
	}

	return &Solana{
		logger:   logger,
		config:   cfg,
		client:   rpc.New(cfg.SolanaRPCURL),
		mint:     mint,
		treasury: treasury,
	}, nil
}

func (s *Solana) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// GetTokenBalance returns the wallet's platform token holdings in whole tokens.
// A wallet without a token account has balance 0, which is not an error.
func (s *Solana) GetTokenBalance(ctx context.Context, wallet string) (float64, error) {
	owner, err := solana.PublicKeyFromBase58(wallet)
	if err != nil {
		return 0, fmt.Errorf("invalid wallet address: %w", err)
	}
	ata, _, err := solana.FindAssociatedTokenAddress(owner, s.mint)
	if err != nil {
		return 0, fmt.Errorf("failed to derive token account: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	res, err := s.client.GetTokenAccountBalance(ctx, ata, rpc.CommitmentConfirmed)
	if err != nil {
		if strings.Contains(err.Error(), "could not find account") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get token balance: %w", err)
	}
	if res == nil || res.Value == nil || res.Value.UiAmount == nil {
		return 0, nil
	}
	return *res.Value.UiAmount, nil
}

// GetEarliestTokenActivity walks the token account's signature history
// backward in pages until no earlier page exists and returns the earliest
// block time found. The zero time means the account has no history.
func (s *Solana) GetEarliestTokenActivity(ctx context.Context, wallet string) (time.Time, error) {
	owner, err := solana.PublicKeyFromBase58(wallet)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid wallet address: %w", err)
	}
	ata, _, err := solana.FindAssociatedTokenAddress(owner, s.mint)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to derive token account: %w", err)
	}

	limit := SignaturePageLimit
	var earliest time.Time
	var before solana.Signature
	havePage := false

	for page := 0; page < MaxHistoryPages; page++ {
		opts := &rpc.GetSignaturesForAddressOpts{
			Limit:      &limit,
			Commitment: rpc.CommitmentConfirmed,
		}
		if havePage {
			opts.Before = before
		}

		pageCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
		sigs, err := s.client.GetSignaturesForAddressWithOpts(pageCtx, ata, opts)
		cancel()
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to get signature history: %w", err)
		}
		if len(sigs) == 0 {
			break
		}

		last := sigs[len(sigs)-1]
		if last.BlockTime != nil {
			earliest = last.BlockTime.Time()
		}
		before = last.Signature
		havePage = true

		if len(sigs) < limit {
			break
		}
	}

	return earliest, nil
}

// GetTransaction fetches a confirmed transaction and reduces it to the
// server-derived facts the verifiers rely on: signer, on-chain error, and
// pre/post balance deltas. Returns models.ErrTxNotFound while the
// transaction is not visible yet.
func (s *Solana) GetTransaction(ctx context.Context, signature string) (*models.ChainTransaction, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction signature: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	maxVersion := uint64(0)
	out, err := s.client.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     rpc.CommitmentConfirmed,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, models.ErrTxNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if out == nil || out.Meta == nil {
		return nil, models.ErrTxNotFound
	}

	parsed, err := out.Transaction.GetTransaction()
	if err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	if len(parsed.Message.AccountKeys) == 0 {
		return nil, fmt.Errorf("transaction has no account keys")
	}

	chainTx := &models.ChainTransaction{
		Signature:    signature,
		Signer:       parsed.Message.AccountKeys[0].String(),
		TokenDeltas:  make(map[string]int64),
		NativeDeltas: make(map[string]int64),
	}

	if out.Meta.Err != nil {
		chainTx.Failed = true
		chainTx.FailureDetail = fmt.Sprintf("%v", out.Meta.Err)
	}

	// Platform-token deltas by owner, from the transaction's own pre/post
	// token balances. The client never supplies these.
	pre := make(map[string]int64)
	for _, b := range out.Meta.PreTokenBalances {
		if b.Mint.Equals(s.mint) && b.Owner != nil {
			pre[b.Owner.String()] = parseRawAmount(b.UiTokenAmount)
		}
	}
	for _, b := range out.Meta.PostTokenBalances {
		if b.Mint.Equals(s.mint) && b.Owner != nil {
			owner := b.Owner.String()
			chainTx.TokenDeltas[owner] = parseRawAmount(b.UiTokenAmount) - pre[owner]
			delete(pre, owner)
		}
	}
	// Accounts present pre but absent post were emptied and closed
	for owner, amount := range pre {
		chainTx.TokenDeltas[owner] = -amount
	}

	// Native lamport deltas by account index
	for i, key := range parsed.Message.AccountKeys {
		if i < len(out.Meta.PreBalances) && i < len(out.Meta.PostBalances) {
			chainTx.NativeDeltas[key.String()] = int64(out.Meta.PostBalances[i]) - int64(out.Meta.PreBalances[i])
		}
	}

	return chainTx, nil
}

func parseRawAmount(amount *rpc.UiTokenAmount) int64 {
	if amount == nil {
		return 0
	}
	raw, err := strconv.ParseInt(amount.Amount, 10, 64)
	if err != nil {
		return 0
	}
	return raw
}

func (s *Solana) GetSignatureStatus(ctx context.Context, signature string) (string, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return "", fmt.Errorf("invalid transaction signature: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	out, err := s.client.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return "", fmt.Errorf("failed to get signature status: %w", err)
	}
	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return "", nil
	}
	return string(out.Value[0].ConfirmationStatus), nil
}

func (s *Solana) latestBlockhash(ctx context.Context) (solana.Hash, error) {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	res, err := s.client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	return res.Value.Blockhash, nil
}

// BuildBurnTransaction constructs an unsigned transaction burning amountRaw
// smallest units from the wallet's token account. The attached blockhash
// keeps it valid only for a short window.
func (s *Solana) BuildBurnTransaction(ctx context.Context, wallet string, amountRaw uint64, memo []byte) (string, error) {
	owner, err := solana.PublicKeyFromBase58(wallet)
	if err != nil {
		return "", fmt.Errorf("invalid wallet address: %w", err)
	}
	ata, _, err := solana.FindAssociatedTokenAddress(owner, s.mint)
	if err != nil {
		return "", fmt.Errorf("failed to derive token account: %w", err)
	}

	blockhash, err := s.latestBlockhash(ctx)
	if err != nil {
		return "", err
	}

	instructions := []solana.Instruction{
		token.NewBurnCheckedInstruction(
			amountRaw,
			uint8(s.config.TokenDecimals),
			ata,
			s.mint,
			owner,
			[]solana.PublicKey{},
		).Build(),
	}
	if len(memo) > 0 {
		instructions = append(instructions, solana.NewInstruction(
			solana.MemoProgramID,
			solana.AccountMetaSlice{solana.NewAccountMeta(owner, false, true)},
			memo,
		))
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(owner))
	if err != nil {
		return "", fmt.Errorf("failed to build burn transaction: %w", err)
	}
	return serializeUnsigned(tx)
}

// BuildTransferTransaction constructs an unsigned native transfer from the
// wallet to the treasury.
func (s *Solana) BuildTransferTransaction(ctx context.Context, wallet string, lamports uint64) (string, error) {
	from, err := solana.PublicKeyFromBase58(wallet)
	if err != nil {
		return "", fmt.Errorf("invalid wallet address: %w", err)
	}

	blockhash, err := s.latestBlockhash(ctx)
	if err != nil {
		return "", err
	}

	transfer := system.NewTransferInstruction(lamports, from, s.treasury).Build()

	tx, err := solana.NewTransaction([]solana.Instruction{transfer}, blockhash, solana.TransactionPayer(from))
	if err != nil {
		return "", fmt.Errorf("failed to build transfer transaction: %w", err)
	}
	return serializeUnsigned(tx)
}

// serializeUnsigned pads the signature slots with zero signatures so the
// wallet extension can deserialize and sign client-side.
func serializeUnsigned(tx *solana.Transaction) (string, error) {
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)
	data, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
