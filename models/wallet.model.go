package models

import (
	"gorm.io/gorm"
)

// Wallet holds a user's spendable balance in naira. One wallet per user,
// created lazily on first access. Balance mutations go through the ledger
// service so every change is paired with a transaction row.
type Wallet struct {
	gorm.Model
	UserID        uint    `gorm:"not null;uniqueIndex" json:"userId"`
	Balance       float64 `gorm:"not null;default:0" json:"balance"`
	EscrowBalance float64 `gorm:"not null;default:0" json:"escrowBalance"` // earmarked for pending gifts
	TotalEarned   float64 `gorm:"not null;default:0" json:"totalEarned"`
	TotalSpent    float64 `gorm:"not null;default:0" json:"totalSpent"`
	IsDeleted     bool    `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Wallet) TableName() string {
	return "wallets"
}
