package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTierOrdering(t *testing.T) {
	require.True(t, TierExecutiveProducer.AtLeast(TierProducer))
	require.True(t, TierProducer.AtLeast(TierProducer))
	require.False(t, TierSupporter.AtLeast(TierProducer))
	require.True(t, TierViewer.AtLeast(TierViewer))

	// Unknown tiers rank as viewer.
	require.False(t, Tier("director").AtLeast(TierSupporter))
}

func TestPollAcceptsVotes(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	require.True(t, (&Poll{IsActive: true}).AcceptsVotes(now))
	require.True(t, (&Poll{IsActive: true, EndsAt: &future}).AcceptsVotes(now))
	require.False(t, (&Poll{IsActive: true, EndsAt: &past}).AcceptsVotes(now))
	require.False(t, (&Poll{IsActive: false}).AcceptsVotes(now))
}
