package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"vtu/models"

	"gorm.io/gorm"
)

var tierMultipliers = map[models.RewardTier]float64{
	models.TierBronze:   1,
	models.TierSilver:   1.25,
	models.TierGold:     1.5,
	models.TierPlatinum: 2,
}

// Lifetime-point thresholds for tier upgrades
const (
	silverThreshold   = 1000
	goldThreshold     = 5000
	platinumThreshold = 20000
)

// PointsFor computes loyalty points for an amount of completed spend:
// 10 points per 1000 naira, weighted by tier.
func PointsFor(amountSpent float64, tier models.RewardTier) int {
	multiplier, ok := tierMultipliers[tier]
	if !ok {
		multiplier = 1
	}
	return int(math.Floor(amountSpent / 1000 * 10 * multiplier))
}

// GetOrCreateRewardAccount fetches a user's reward account, creating it on
// first accrual.
func GetOrCreateRewardAccount(db *gorm.DB, userID uint) (*models.RewardAccount, error) {
	var account models.RewardAccount
	err := db.Where("user_id = ? AND is_deleted = false", userID).First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load reward account: %w", err)
	}

	account = models.RewardAccount{UserID: userID, Tier: models.TierBronze}
	if err := db.Create(&account).Error; err != nil {
		var existing models.RewardAccount
		if err2 := db.Where("user_id = ? AND is_deleted = false", userID).First(&existing).Error; err2 == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("failed to create reward account: %w", err)
	}
	return &account, nil
}

// AccrueReward grants points for a completed purchase. Callers treat any
// error here as log-only; a reward failure never fails the purchase.
func AccrueReward(db *gorm.DB, userID uint, transactionID uint, amountSpent float64, description string) error {
	account, err := GetOrCreateRewardAccount(db, userID)
	if err != nil {
		return err
	}

	points := PointsFor(amountSpent, account.Tier)
	if points <= 0 {
		return nil
	}

	entry := models.RewardEntry{
		UserID:        userID,
		TransactionID: transactionID,
		Points:        points,
		AmountSpent:   amountSpent,
		Description:   description,
		EarnedAt:      time.Now(),
	}
	if err := db.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record reward entry: %w", err)
	}

	account.Points += points
	account.LifetimePoints += points
	account.Tier = tierForLifetimePoints(account.LifetimePoints, account.Tier)
	if err := db.Save(account).Error; err != nil {
		return fmt.Errorf("failed to update reward account: %w", err)
	}
	return nil
}

// tierForLifetimePoints upgrades the tier when a threshold is crossed.
// Tiers never downgrade.
func tierForLifetimePoints(lifetime int, current models.RewardTier) models.RewardTier {
	tier := current
	switch {
	case lifetime >= platinumThreshold:
		tier = models.TierPlatinum
	case lifetime >= goldThreshold && current != models.TierPlatinum:
		tier = models.TierGold
	case lifetime >= silverThreshold && current == models.TierBronze:
		tier = models.TierSilver
	}
	return tier
}

// ListRewardEntries returns a user's accrual history, newest first
func ListRewardEntries(db *gorm.DB, userID uint, limit int) ([]models.RewardEntry, error) {
	if limit < 1 {
		limit = 20
	}
	var entries []models.RewardEntry
	if err := db.Where("user_id = ? AND is_deleted = false", userID).
		Order("earned_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list reward entries: %w", err)
	}
	return entries, nil
}
