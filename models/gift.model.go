package models

import (
	"time"

	"gorm.io/gorm"
)

// GiftStatus defines the lifecycle state of a data gift
type GiftStatus string

const (
	GiftStatusPending   GiftStatus = "PENDING"
	GiftStatusClaimed   GiftStatus = "CLAIMED"
	GiftStatusExpired   GiftStatus = "EXPIRED"
	GiftStatusCancelled GiftStatus = "CANCELLED"
)

// Gift is a pre-funded data purchase redeemable once by code. The sender's
// wallet is debited at creation; claiming only runs the provider call.
type Gift struct {
	gorm.Model
	SenderID       uint       `gorm:"not null;index" json:"senderId"`
	RecipientPhone string     `gorm:"type:varchar(20);not null" json:"recipientPhone"`
	Network        string     `gorm:"type:varchar(30);not null" json:"network"`
	PlanID         uint       `gorm:"not null" json:"planId"`
	PlanName       string     `gorm:"type:varchar(255)" json:"planName"`
	Amount         float64    `gorm:"not null" json:"amount"` // selling price at creation time
	GiftCode       string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"giftCode"`
	Message        string     `gorm:"type:text" json:"message"`
	Status         GiftStatus `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`
	ExpiresAt      time.Time  `gorm:"not null" json:"expiresAt"`
	ClaimedByID    uint       `gorm:"default:0" json:"claimedById"`
	ClaimedAt      *time.Time `json:"claimedAt"`
	TransactionID  uint       `gorm:"default:0" json:"transactionId"` // sender debit row
	IsDeleted      bool       `gorm:"default:false" json:"isDeleted"`

	Sender User `gorm:"foreignKey:SenderID" json:"-"`
}

func (Gift) TableName() string {
	return "gifts"
}
