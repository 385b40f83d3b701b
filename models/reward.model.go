package models

import (
	"time"

	"gorm.io/gorm"
)

// RewardTier weights loyalty point accrual
type RewardTier string

const (
	TierBronze   RewardTier = "BRONZE"
	TierSilver   RewardTier = "SILVER"
	TierGold     RewardTier = "GOLD"
	TierPlatinum RewardTier = "PLATINUM"
)

// RewardAccount tracks a user's loyalty points. Tier is upgraded from
// lifetime points, never downgraded.
type RewardAccount struct {
	gorm.Model
	UserID         uint       `gorm:"not null;uniqueIndex" json:"userId"`
	Points         int        `gorm:"default:0" json:"points"`
	LifetimePoints int        `gorm:"default:0" json:"lifetimePoints"`
	Tier           RewardTier `gorm:"type:varchar(20);default:'BRONZE'" json:"tier"`
	IsDeleted      bool       `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (RewardAccount) TableName() string {
	return "reward_accounts"
}

// RewardEntry records each accrual so point history is auditable
type RewardEntry struct {
	gorm.Model
	UserID        uint      `gorm:"not null;index" json:"userId"`
	TransactionID uint      `gorm:"not null" json:"transactionId"`
	Points        int       `gorm:"not null" json:"points"`
	AmountSpent   float64   `gorm:"not null" json:"amountSpent"`
	Description   string    `gorm:"type:varchar(255)" json:"description"`
	EarnedAt      time.Time `gorm:"not null" json:"earnedAt"`
	IsDeleted     bool      `gorm:"default:false" json:"isDeleted"`
}

func (RewardEntry) TableName() string {
	return "reward_entries"
}
