package services

import (
	"testing"

	"vtu/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointsFor(t *testing.T) {
	cases := []struct {
		amount float64
		tier   models.RewardTier
		want   int
	}{
		{999, models.TierBronze, 9},
		{1000, models.TierBronze, 10},
		{2500, models.TierBronze, 25},
		{1000, models.TierSilver, 12},
		{1000, models.TierGold, 15},
		{1000, models.TierPlatinum, 20},
		{50, models.TierBronze, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PointsFor(tc.amount, tc.tier),
			"amount %.0f tier %s", tc.amount, tc.tier)
	}
}

func TestAccrueRewardCreatesAccountAndEntry(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, AccrueReward(db, 1, 10, 2500, "Data: MTN 1GB"))

	account, err := GetOrCreateRewardAccount(db, 1)
	require.NoError(t, err)
	assert.Equal(t, 25, account.Points)
	assert.Equal(t, 25, account.LifetimePoints)
	assert.Equal(t, models.TierBronze, account.Tier)

	entries, err := ListRewardEntries(db, 1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 25, entries[0].Points)
	assert.Equal(t, uint(10), entries[0].TransactionID)
}

func TestAccrueRewardSkipsZeroPoints(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, AccrueReward(db, 1, 10, 50, "Airtime: MTN ₦50"))

	entries, err := ListRewardEntries(db, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAccrueRewardUpgradesTier(t *testing.T) {
	db := newTestDB(t)

	// 100,000 naira at bronze accrues 1000 lifetime points, crossing silver
	require.NoError(t, AccrueReward(db, 1, 10, 100000, "big spend"))

	account, err := GetOrCreateRewardAccount(db, 1)
	require.NoError(t, err)
	assert.Equal(t, 1000, account.LifetimePoints)
	assert.Equal(t, models.TierSilver, account.Tier)
}

func TestTierNeverDowngrades(t *testing.T) {
	assert.Equal(t, models.TierPlatinum, tierForLifetimePoints(100, models.TierPlatinum))
	assert.Equal(t, models.TierGold, tierForLifetimePoints(5000, models.TierBronze))
	assert.Equal(t, models.TierPlatinum, tierForLifetimePoints(20000, models.TierBronze))
	assert.Equal(t, models.TierBronze, tierForLifetimePoints(999, models.TierBronze))
}
