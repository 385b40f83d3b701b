package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransactionType defines the type of wallet transaction
type TransactionType string

const (
	TransactionTypePurchase    TransactionType = "PURCHASE"
	TransactionTypeRefund      TransactionType = "REFUND"
	TransactionTypeDeposit     TransactionType = "DEPOSIT"
	TransactionTypeGift        TransactionType = "GIFT"
	TransactionTypeAdminCredit TransactionType = "ADMIN_CREDIT"
	TransactionTypeAdminDebit  TransactionType = "ADMIN_DEBIT"
)

// TransactionStatus defines the status of a transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// ServiceType identifies which billing service a purchase row belongs to
type ServiceType string

const (
	ServiceTypeData        ServiceType = "DATA"
	ServiceTypeAirtime     ServiceType = "AIRTIME"
	ServiceTypeCable       ServiceType = "CABLE"
	ServiceTypeElectricity ServiceType = "ELECTRICITY"
	ServiceTypeExamPin     ServiceType = "EXAM_PIN"
	ServiceTypeGift        ServiceType = "GIFT"
)

// Transaction is the append-only ledger entry. Amount is signed: debits
// negative, credits positive. Amount never changes after creation; only
// Status and provider metadata transition.
type Transaction struct {
	gorm.Model
	WalletID uint              `gorm:"not null;index" json:"walletId"`
	UserID   uint              `gorm:"not null;index" json:"userId"`
	Type     TransactionType   `gorm:"type:varchar(50);not null" json:"type"`
	Amount   float64           `gorm:"not null" json:"amount"`
	Status   TransactionStatus `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`

	BalanceBefore float64 `gorm:"not null" json:"balanceBefore"`
	BalanceAfter  float64 `gorm:"not null" json:"balanceAfter"`
	Description   string  `gorm:"type:text" json:"description"`

	// Purchase details
	ServiceType ServiceType `gorm:"type:varchar(20);index" json:"serviceType"`
	Network     string      `gorm:"type:varchar(30)" json:"network"`     // MTN, GLO, AIRTEL, 9MOBILE / DSTV, GOTV / disco code
	Destination string      `gorm:"type:varchar(50)" json:"destination"` // phone, meter or smartcard number
	PlanID      uint        `gorm:"default:0" json:"planId"`
	PlanName    string      `gorm:"type:varchar(255)" json:"planName"`
	CostPrice   float64     `gorm:"default:0" json:"costPrice"`

	// Provider details
	Reference         string         `gorm:"type:varchar(100);uniqueIndex" json:"reference"` // our client reference
	ProviderReference string         `gorm:"type:varchar(100);index" json:"providerReference"`
	ProviderResponse  datatypes.JSON `json:"providerResponse"`
	RequeryFlagged    bool           `gorm:"default:false" json:"requeryFlagged"` // ambiguous result, needs manual requery

	// Gift / admin details
	RelatedUserID uint   `gorm:"default:0" json:"relatedUserId"` // gift claimant, stamped on the sender's debit row
	AdminID       uint   `gorm:"default:0" json:"adminId"`
	Reason        string `gorm:"type:text" json:"reason"`

	TransactionDate time.Time `gorm:"not null" json:"transactionDate"`
	IsDeleted       bool      `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}
