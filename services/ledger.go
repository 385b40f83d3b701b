package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"vtu/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Round2 rounds a naira amount to two decimals
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// GetOrCreateWallet fetches a user's wallet, creating it on first access.
func GetOrCreateWallet(db *gorm.DB, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := db.Where("user_id = ? AND is_deleted = false", userID).First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	wallet = models.Wallet{UserID: userID}
	if err := db.Create(&wallet).Error; err != nil {
		// Lost a create race with a concurrent request; the unique index
		// on user_id guarantees a single wallet, so re-read it.
		var existing models.Wallet
		if err2 := db.Where("user_id = ? AND is_deleted = false", userID).First(&existing).Error; err2 == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return &wallet, nil
}

// DebitWallet subtracts amount from the wallet balance. The subtract and
// the floor check are a single conditional UPDATE so two concurrent debits
// against one wallet can never drive the balance negative.
func DebitWallet(db *gorm.DB, userID uint, amount float64) (*models.Wallet, error) {
	amount = Round2(amount)
	if amount <= 0 {
		return nil, NewValidationError("amount", "Debit amount must be greater than 0!")
	}

	result := db.Model(&models.Wallet{}).
		Where("user_id = ? AND is_deleted = false AND balance >= ?", userID, amount).
		Updates(map[string]interface{}{
			"balance":     gorm.Expr("balance - ?", amount),
			"total_spent": gorm.Expr("total_spent + ?", amount),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to debit wallet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var wallet models.Wallet
		if err := db.Where("user_id = ? AND is_deleted = false", userID).First(&wallet).Error; err != nil {
			return nil, ErrWalletNotFound
		}
		return nil, ErrInsufficientFunds
	}

	var wallet models.Wallet
	if err := db.Where("user_id = ? AND is_deleted = false", userID).First(&wallet).Error; err != nil {
		return nil, fmt.Errorf("failed to reload wallet: %w", err)
	}
	return &wallet, nil
}

// CreditWallet adds amount to the wallet balance. A refund credit reverses
// an earlier debit's total_spent instead of counting as earnings, so
// balance == total_earned - total_spent (+ opening balance) stays true.
func CreditWallet(db *gorm.DB, userID uint, amount float64, refund bool) (*models.Wallet, error) {
	amount = Round2(amount)
	if amount <= 0 {
		return nil, NewValidationError("amount", "Credit amount must be greater than 0!")
	}

	if _, err := GetOrCreateWallet(db, userID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"balance": gorm.Expr("balance + ?", amount),
	}
	if refund {
		updates["total_spent"] = gorm.Expr("total_spent - ?", amount)
	} else {
		updates["total_earned"] = gorm.Expr("total_earned + ?", amount)
	}

	result := db.Model(&models.Wallet{}).
		Where("user_id = ? AND is_deleted = false", userID).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to credit wallet: %w", result.Error)
	}

	var wallet models.Wallet
	if err := db.Where("user_id = ? AND is_deleted = false", userID).First(&wallet).Error; err != nil {
		return nil, fmt.Errorf("failed to reload wallet: %w", err)
	}
	return &wallet, nil
}

// HoldInEscrow moves an already-debited amount into the wallet's escrow
// counter, marking money earmarked for a delivery that has not happened
// yet (gift creation).
func HoldInEscrow(db *gorm.DB, userID uint, amount float64) error {
	amount = Round2(amount)
	result := db.Model(&models.Wallet{}).
		Where("user_id = ? AND is_deleted = false", userID).
		Update("escrow_balance", gorm.Expr("escrow_balance + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to hold escrow: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

// ReleaseEscrow clears an earmark once the held amount is delivered or
// refunded. The floor check keeps concurrent releases from driving the
// counter negative.
func ReleaseEscrow(db *gorm.DB, userID uint, amount float64) error {
	amount = Round2(amount)
	result := db.Model(&models.Wallet{}).
		Where("user_id = ? AND is_deleted = false AND escrow_balance >= ?", userID, amount).
		Update("escrow_balance", gorm.Expr("escrow_balance - ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to release escrow: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no escrow of ₦%.2f held for user %d", amount, userID)
	}
	return nil
}

// RecordTransaction appends a ledger entry. Reference and TransactionDate
// default when empty.
func RecordTransaction(db *gorm.DB, txn *models.Transaction) error {
	if txn.Reference == "" {
		txn.Reference = uuid.NewString()
	}
	if txn.TransactionDate.IsZero() {
		txn.TransactionDate = time.Now()
	}
	if err := db.Create(txn).Error; err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

// UpdateTransactionStatus moves a transaction to a terminal status. The
// amount is immutable; only status transitions here.
func UpdateTransactionStatus(db *gorm.DB, txnID uint, status models.TransactionStatus) error {
	result := db.Model(&models.Transaction{}).
		Where("id = ?", txnID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TransactionFilter narrows ListTransactions results
type TransactionFilter struct {
	Type        models.TransactionType
	Status      models.TransactionStatus
	ServiceType models.ServiceType
	Page        int
	Limit       int
}

// ListTransactions returns a page of a user's ledger entries, newest first
func ListTransactions(db *gorm.DB, userID uint, filter TransactionFilter) ([]models.Transaction, int64, error) {
	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	query := db.Model(&models.Transaction{}).Where("user_id = ? AND is_deleted = false", userID)
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ServiceType != "" {
		query = query.Where("service_type = ?", filter.ServiceType)
	}

	var total int64
	query.Count(&total)

	var transactions []models.Transaction
	if err := query.
		Order("transaction_date DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, total, nil
}
