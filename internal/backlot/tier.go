package backlot

import (
	"context"
	"time"

	"github.com/backlot-social/backlot/internal/models"
)

const (
	// holdingBonusPerDay accrues 1x extra weight per 30 days held
	holdingBonusDays = 30
	// holdingBonusCap saturates the multiplier at 4x after 90 days
	holdingBonusCap = 3
)

// ResolveTier re-derives the wallet's balance, tier and holding multiplier
// from the chain. This is a read path whose unavailability must not block
// navigation, so any chain error degrades to the safe default
// (balance 0, viewer, multiplier 1) instead of propagating.
func (b *Backlot) ResolveTier(ctx context.Context, wallet string) *models.TierInfo {
	info := &models.TierInfo{
		Balance:           0,
		Tier:              models.TierViewer,
		HoldingMultiplier: 1,
	}

	balance, err := b.chain.GetTokenBalance(ctx, wallet)
	if err != nil {
		b.logger.Error("Failed to get token balance ", "wallet ", wallet, "error ", err)
		return info
	}
	info.Balance = balance
	info.Tier = b.tierFromBalance(balance)

	firstSeen, err := b.chain.GetEarliestTokenActivity(ctx, wallet)
	if err != nil {
		b.logger.Error("Failed to get earliest token activity ", "wallet ", wallet, "error ", err)
		return info
	}
	info.HoldingMultiplier = HoldingMultiplier(firstSeen, time.Now())

	return info
}

// tierFromBalance maps a whole-token balance onto the tier ladder using the
// configured thresholds.
func (b *Backlot) tierFromBalance(balance float64) models.Tier {
	switch {
	case balance >= b.config.ExecProducerThreshold:
		return models.TierExecutiveProducer
	case balance >= b.config.ProducerThreshold:
		return models.TierProducer
	case balance >= b.config.SupporterThreshold:
		return models.TierSupporter
	default:
		return models.TierViewer
	}
}

// HoldingMultiplier computes the holding-duration bonus:
// 1 + min(holdingDays/30, 3), in [1.0, 4.0]. A zero firstSeen means no
// on-chain activity was found and yields no bonus.
func HoldingMultiplier(firstSeen, now time.Time) float64 {
	if firstSeen.IsZero() || !firstSeen.Before(now) {
		return 1
	}
	days := now.Sub(firstSeen).Hours() / 24
	bonus := days / holdingBonusDays
	if bonus > holdingBonusCap {
		bonus = holdingBonusCap
	}
	return 1 + bonus
}
