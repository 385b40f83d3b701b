package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"vtu/models"

	"gorm.io/gorm"
)

// RequeryTransaction reconciles a purchase row against the provider's
// status endpoint. This is the recovery path for rows left PENDING by a
// crash between debit and settle, and for ambiguous network failures: the
// provider may have delivered even though we never saw the response, so we
// requery instead of blindly refunding or retrying.
func (s *PurchaseService) RequeryTransaction(ctx context.Context, txnID uint) (*PurchaseResult, error) {
	var txn models.Transaction
	err := s.db.Where("id = ? AND is_deleted = false", txnID).First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	if txn.Type != models.TransactionTypePurchase {
		return nil, NewValidationError("id", "Only purchase transactions can be requeried!")
	}

	// Terminal rows answer from the ledger; requery is idempotent. The
	// exception is a refunded row flagged as ambiguous: we never saw the
	// provider's outcome, so it is re-checked against the status endpoint.
	switch txn.Status {
	case models.TransactionStatusCompleted:
		return &PurchaseResult{
			Success:           true,
			Message:           "Transaction already completed.",
			Transaction:       &txn,
			ProviderReference: txn.ProviderReference,
		}, nil
	case models.TransactionStatusFailed:
		if txn.RequeryFlagged {
			return s.requeryRefundedRow(ctx, &txn)
		}
		return &PurchaseResult{
			Success:     false,
			Message:     "Transaction failed and was refunded to wallet.",
			Transaction: &txn,
		}, nil
	}

	if !s.provider.IsConfigured() {
		return nil, ErrServiceUnavailable
	}

	status := s.provider.CheckStatus(ctx, txn.Reference)
	att := &purchaseAttempt{
		userID:         txn.UserID,
		serviceType:    txn.ServiceType,
		network:        txn.Network,
		destination:    txn.Destination,
		price:          -txn.Amount,
		planID:         txn.PlanID,
		planName:       txn.PlanName,
		description:    txn.Description,
		walletDeducted: true,
		txn:            &txn,
	}

	switch status.Status {
	case DeliveryDelivered:
		log.Printf("[REQUERY] txn %d delivered, settling", txn.ID)
		return s.settle(att, ProviderResult{Success: true, Message: status.Message, Raw: status.Raw})
	case DeliveryFailed:
		log.Printf("[REQUERY] txn %d failed at provider, compensating", txn.ID)
		return s.compensate(att, ProviderResult{Message: status.Message, Raw: status.Raw})
	}

	// Still ambiguous. Flag for another pass rather than guessing.
	s.db.Model(&models.Transaction{}).Where("id = ?", txn.ID).Update("requery_flagged", true)
	return &PurchaseResult{
		Success:     false,
		Message:     "Transaction is still pending with the provider. No wallet change was made.",
		Transaction: &txn,
	}, nil
}

// requeryRefundedRow re-checks a refunded purchase whose provider outcome
// was never seen. A confirmed failure clears the flag; a delivery means the
// user holds both the refund and the service, which is escalated for manual
// reconciliation, never silently re-debited.
func (s *PurchaseService) requeryRefundedRow(ctx context.Context, txn *models.Transaction) (*PurchaseResult, error) {
	if !s.provider.IsConfigured() {
		return nil, ErrServiceUnavailable
	}

	status := s.provider.CheckStatus(ctx, txn.Reference)
	switch status.Status {
	case DeliveryDelivered:
		log.Printf("[REQUERY] CRITICAL: txn %d was delivered by the provider after its refund, manual reconciliation required", txn.ID)
		return &PurchaseResult{
			Success:     false,
			Message:     "Provider reports this purchase was delivered after it was refunded. Manual reconciliation required.",
			Transaction: txn,
		}, nil
	case DeliveryFailed:
		if err := s.db.Model(&models.Transaction{}).Where("id = ?", txn.ID).
			Update("requery_flagged", false).Error; err != nil {
			log.Printf("[REQUERY] failed to clear flag on txn %d: %v", txn.ID, err)
		}
		txn.RequeryFlagged = false
		return &PurchaseResult{
			Success:     false,
			Message:     "Transaction failed and was refunded to wallet.",
			Transaction: txn,
		}, nil
	}

	return &PurchaseResult{
		Success:     false,
		Message:     "Provider outcome is still unknown. The wallet was refunded; the transaction stays flagged.",
		Transaction: txn,
	}, nil
}

// ReconcilePendingTransactions requeries every PENDING purchase row older
// than the cutoff. Run from the scheduler so crashed attempts settle or
// refund without operator action.
func (s *PurchaseService) ReconcilePendingTransactions(ctx context.Context, olderThanMinutes int) {
	if !s.provider.IsConfigured() {
		return
	}

	cutoff := time.Now().Add(-time.Duration(olderThanMinutes) * time.Minute)
	var pending []models.Transaction
	if err := s.db.Where(
		"type = ? AND status = ? AND is_deleted = false AND created_at < ?",
		models.TransactionTypePurchase, models.TransactionStatusPending, cutoff).
		Limit(100).
		Find(&pending).Error; err != nil {
		log.Printf("[REQUERY] failed to load pending transactions: %v", err)
		return
	}
	if len(pending) == 0 {
		return
	}
	log.Printf("[REQUERY] reconciling %d pending transactions", len(pending))

	for i := range pending {
		if _, err := s.RequeryTransaction(ctx, pending[i].ID); err != nil {
			log.Printf("[REQUERY] txn %d: %v", pending[i].ID, err)
		}
	}
}
