package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"vtu/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	giftCodeLength   = 8
	giftCodeAttempts = 5
	giftExpiryDays   = 7
)

// Alphabet excludes 0/O and 1/I so codes stay human-typeable
const giftCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GiftService creates and redeems pre-funded data gifts. The sender pays
// at creation; a claim only runs the provider-call-and-settle half of the
// purchase state machine.
type GiftService struct {
	db        *gorm.DB
	purchases *PurchaseService
}

// NewGiftService wires the gift engine to the orchestrator
func NewGiftService(db *gorm.DB, purchases *PurchaseService) *GiftService {
	return &GiftService{db: db, purchases: purchases}
}

// generateGiftCode returns a random human-typeable code
func generateGiftCode() (string, error) {
	buf := make([]byte, giftCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate gift code: %w", err)
	}
	code := make([]byte, giftCodeLength)
	for i, b := range buf {
		code[i] = giftCodeAlphabet[int(b)%len(giftCodeAlphabet)]
	}
	return string(code), nil
}

// CreateGift debits the sender for the plan price and issues a redemption
// code. The money is earmarked here; no provider call happens until the
// claim.
func (g *GiftService) CreateGift(senderID uint, recipientPhone string, planID uint, message string) (*models.Gift, error) {
	recipientPhone = NormalizePhone(recipientPhone)
	if !IsValidPhone(recipientPhone) {
		return nil, NewValidationError("recipientPhone", "Invalid recipient phone number!")
	}

	plan, err := GetDataPlan(g.db, planID)
	if errors.Is(err, ErrNotFound) {
		return nil, NewValidationError("planId", "Data plan not found!")
	}
	if err != nil {
		return nil, err
	}

	var gift *models.Gift
	err = g.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := DebitWallet(tx, senderID, plan.SellingPrice)
		if err != nil {
			return err
		}
		// Earmarked, not yet spent: the amount sits in escrow until the
		// claim delivers or a refund returns it.
		if err := HoldInEscrow(tx, senderID, plan.SellingPrice); err != nil {
			return err
		}

		txn := &models.Transaction{
			WalletID:      wallet.ID,
			UserID:        senderID,
			Type:          models.TransactionTypeGift,
			Amount:        -plan.SellingPrice,
			Status:        models.TransactionStatusCompleted,
			BalanceBefore: wallet.Balance + plan.SellingPrice,
			BalanceAfter:  wallet.Balance,
			Description:   fmt.Sprintf("Gift: %s %s for %s", plan.Network, plan.Name, recipientPhone),
			ServiceType:   models.ServiceTypeGift,
			Network:       plan.Network,
			Destination:   recipientPhone,
			PlanID:        plan.ID,
			PlanName:      plan.Name,
			CostPrice:     plan.CostPrice,
		}
		if err := RecordTransaction(tx, txn); err != nil {
			return err
		}

		// Random code, retry on the rare unique-index collision
		var createErr error
		for attempt := 0; attempt < giftCodeAttempts; attempt++ {
			code, err := generateGiftCode()
			if err != nil {
				return err
			}
			candidate := &models.Gift{
				SenderID:       senderID,
				RecipientPhone: recipientPhone,
				Network:        plan.Network,
				PlanID:         plan.ID,
				PlanName:       plan.Name,
				Amount:         plan.SellingPrice,
				GiftCode:       code,
				Message:        message,
				Status:         models.GiftStatusPending,
				ExpiresAt:      time.Now().AddDate(0, 0, giftExpiryDays),
				TransactionID:  txn.ID,
			}
			if createErr = tx.Create(candidate).Error; createErr == nil {
				gift = candidate
				return nil
			}
		}
		return fmt.Errorf("failed to create gift after %d code attempts: %w", giftCodeAttempts, createErr)
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) || IsValidationError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create gift: %w", err)
	}
	return gift, nil
}

// ClaimGift redeems a code exactly once and delivers the plan to the
// recipient phone via the orchestrator's provider-call-and-settle steps.
// The sender's wallet is not touched again unless the delivery fails.
func (g *GiftService) ClaimGift(ctx context.Context, code string, claimantID uint) (*PurchaseResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var gift models.Gift
	err := g.db.Where("gift_code = ? AND is_deleted = false", code).First(&gift).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewValidationError("giftCode", "Gift code not found!")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load gift: %w", err)
	}

	switch gift.Status {
	case models.GiftStatusClaimed:
		return nil, NewValidationError("giftCode", "This gift has already been claimed!")
	case models.GiftStatusCancelled:
		return nil, NewValidationError("giftCode", "This gift was cancelled by the sender!")
	case models.GiftStatusExpired:
		return nil, NewValidationError("giftCode", "This gift has expired!")
	}

	// Lazy expiry: an expired code encountered during claim transitions
	// and refunds the sender right here, no background sweep.
	if time.Now().After(gift.ExpiresAt) {
		g.expireGift(&gift)
		return nil, NewValidationError("giftCode", "This gift has expired!")
	}

	// Provider down means the gift stays claimable; nobody is charged here.
	if !g.purchases.provider.IsConfigured() {
		return nil, ErrServiceUnavailable
	}

	// Guarded transition so a code can never be claimed twice under
	// concurrent requests.
	claimedAt := time.Now()
	result := g.db.Model(&models.Gift{}).
		Where("id = ? AND status = ?", gift.ID, models.GiftStatusPending).
		Updates(map[string]interface{}{
			"status":        models.GiftStatusClaimed,
			"claimed_by_id": claimantID,
			"claimed_at":    claimedAt,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to claim gift: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, NewValidationError("giftCode", "This gift has already been claimed!")
	}

	plan, err := GetDataPlan(g.db, gift.PlanID)
	if err != nil {
		// Plan retired since creation; delivery is impossible, refund the
		// sender and close the gift.
		g.failClaim(&gift, "plan no longer available")
		return nil, ErrPurchaseFailed
	}

	provResult := g.purchases.provider.Purchase(ctx, ProviderRequest{
		ServiceID:   strings.ToLower(plan.Network) + "-data",
		PlanCode:    plan.PlanCode,
		Destination: gift.RecipientPhone,
		Amount:      gift.Amount,
		Reference:   uuid.NewString(),
	})

	if !provResult.Success {
		g.failClaim(&gift, provResult.Message)
		return &PurchaseResult{
			Success: false,
			Message: "Gift delivery failed. The sender has been refunded; you were not charged.",
		}, nil
	}

	// Delivered: the earmarked money is now truly spent, and the sender's
	// debit row gains the claimant as its related party.
	if err := ReleaseEscrow(g.db, gift.SenderID, gift.Amount); err != nil {
		log.Printf("[GIFT] failed to release escrow for gift %d: %v", gift.ID, err)
	}
	if gift.TransactionID != 0 {
		g.db.Model(&models.Transaction{}).Where("id = ?", gift.TransactionID).
			Update("related_user_id", claimantID)
	}

	g.purchases.notify(gift.SenderID, "gift.claimed",
		fmt.Sprintf("Your gift %s was claimed and delivered to %s", gift.GiftCode, gift.RecipientPhone))

	return &PurchaseResult{
		Success:           true,
		Message:           fmt.Sprintf("Gift claimed! %s delivered to %s.", gift.PlanName, gift.RecipientPhone),
		ProviderReference: provResult.Reference,
	}, nil
}

// CancelGift lets the sender cancel an unclaimed gift and reclaim the money
func (g *GiftService) CancelGift(senderID, giftID uint) error {
	var gift models.Gift
	err := g.db.Where("id = ? AND sender_id = ? AND is_deleted = false", giftID, senderID).First(&gift).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load gift: %w", err)
	}
	if gift.Status != models.GiftStatusPending {
		return NewValidationError("status", "Only pending gifts can be cancelled!")
	}

	result := g.db.Model(&models.Gift{}).
		Where("id = ? AND status = ?", gift.ID, models.GiftStatusPending).
		Update("status", models.GiftStatusCancelled)
	if result.Error != nil {
		return fmt.Errorf("failed to cancel gift: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return NewValidationError("status", "Only pending gifts can be cancelled!")
	}

	g.refundSender(&gift, "cancelled")
	return nil
}

// ListSentGifts returns gifts created by the user
func (g *GiftService) ListSentGifts(userID uint) ([]models.Gift, error) {
	var gifts []models.Gift
	if err := g.db.Where("sender_id = ? AND is_deleted = false", userID).
		Order("created_at DESC").Find(&gifts).Error; err != nil {
		return nil, fmt.Errorf("failed to list sent gifts: %w", err)
	}
	return gifts, nil
}

// ListClaimedGifts returns gifts the user has claimed
func (g *GiftService) ListClaimedGifts(userID uint) ([]models.Gift, error) {
	var gifts []models.Gift
	if err := g.db.Where("claimed_by_id = ? AND is_deleted = false", userID).
		Order("claimed_at DESC").Find(&gifts).Error; err != nil {
		return nil, fmt.Errorf("failed to list claimed gifts: %w", err)
	}
	return gifts, nil
}

// expireGift transitions a past-expiry pending gift and refunds the sender
func (g *GiftService) expireGift(gift *models.Gift) {
	result := g.db.Model(&models.Gift{}).
		Where("id = ? AND status = ?", gift.ID, models.GiftStatusPending).
		Update("status", models.GiftStatusExpired)
	if result.Error != nil || result.RowsAffected == 0 {
		return
	}
	gift.Status = models.GiftStatusExpired
	g.refundSender(gift, "expired")
}

// failClaim closes a gift whose delivery failed and refunds the sender
func (g *GiftService) failClaim(gift *models.Gift, reason string) {
	log.Printf("[GIFT] delivery of gift %d failed: %s", gift.ID, reason)
	g.db.Model(&models.Gift{}).
		Where("id = ?", gift.ID).
		Update("status", models.GiftStatusCancelled)
	gift.Status = models.GiftStatusCancelled
	g.refundSender(gift, "delivery failed")
}

// refundSender credits the earmarked amount back to the sender with a
// refund ledger row. A failure here is money owed and is logged loudly.
func (g *GiftService) refundSender(gift *models.Gift, reason string) {
	err := g.db.Transaction(func(tx *gorm.DB) error {
		if err := ReleaseEscrow(tx, gift.SenderID, gift.Amount); err != nil {
			return err
		}
		wallet, err := CreditWallet(tx, gift.SenderID, gift.Amount, true)
		if err != nil {
			return err
		}
		refund := &models.Transaction{
			WalletID:      wallet.ID,
			UserID:        gift.SenderID,
			Type:          models.TransactionTypeRefund,
			Amount:        gift.Amount,
			Status:        models.TransactionStatusCompleted,
			BalanceBefore: wallet.Balance - gift.Amount,
			BalanceAfter:  wallet.Balance,
			Description:   fmt.Sprintf("Refund: gift %s %s (%s)", gift.GiftCode, gift.PlanName, reason),
			ServiceType:   models.ServiceTypeGift,
			Network:       gift.Network,
			Destination:   gift.RecipientPhone,
			PlanID:        gift.PlanID,
			PlanName:      gift.PlanName,
		}
		return RecordTransaction(tx, refund)
	})
	if err != nil {
		log.Printf("[GIFT] CRITICAL: refund of ₦%.2f to sender %d for gift %d failed: %v",
			gift.Amount, gift.SenderID, gift.ID, err)
	}
}
