package services

import (
	"context"
	"testing"
	"time"

	"vtu/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedPendingPurchase debits the wallet and records a PENDING purchase row,
// the state a crash between debit and settle leaves behind.
func seedPendingPurchase(t *testing.T, svc *PurchaseService, userID uint, amount float64) *models.Transaction {
	t.Helper()
	wallet, err := DebitWallet(svc.db, userID, amount)
	require.NoError(t, err)

	txn := &models.Transaction{
		WalletID:      wallet.ID,
		UserID:        userID,
		Type:          models.TransactionTypePurchase,
		Amount:        -amount,
		Status:        models.TransactionStatusPending,
		BalanceBefore: wallet.Balance + amount,
		BalanceAfter:  wallet.Balance,
		Description:   "Airtime: MTN to 08031234567",
		ServiceType:   models.ServiceTypeAirtime,
		Network:       "MTN",
		Destination:   "08031234567",
	}
	require.NoError(t, RecordTransaction(svc.db, txn))
	return txn
}

func TestRequeryTerminalRowsAreIdempotent(t *testing.T) {
	svc, provider := newTestOrchestrator(t)
	fundWallet(t, svc.db, 1, 1000)

	txn := seedPendingPurchase(t, svc, 1, 400)
	require.NoError(t, svc.db.Model(txn).Update("status", models.TransactionStatusCompleted).Error)

	result, err := svc.RequeryTransaction(context.Background(), txn.ID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Zero(t, provider.purchaseCalls)

	// Balance unchanged by repeated requeries
	wallet := walletOf(t, svc.db, 1)
	assert.Equal(t, 600.0, wallet.Balance)
}

func TestRequeryDeliveredSettles(t *testing.T) {
	svc, provider := newTestOrchestrator(t)
	fundWallet(t, svc.db, 1, 1000)
	txn := seedPendingPurchase(t, svc, 1, 400)

	provider.status = func(reference string) StatusResult {
		return StatusResult{Status: DeliveryDelivered, Message: "delivered"}
	}

	result, err := svc.RequeryTransaction(context.Background(), txn.ID)
	require.NoError(t, err)
	assert.True(t, result.Success)

	var reloaded models.Transaction
	require.NoError(t, svc.db.First(&reloaded, txn.ID).Error)
	assert.Equal(t, models.TransactionStatusCompleted, reloaded.Status)

	wallet := walletOf(t, svc.db, 1)
	assert.Equal(t, 600.0, wallet.Balance)
}

func TestRequeryFailedCompensates(t *testing.T) {
	svc, provider := newTestOrchestrator(t)
	fundWallet(t, svc.db, 1, 1000)
	txn := seedPendingPurchase(t, svc, 1, 400)

	provider.status = func(reference string) StatusResult {
		return StatusResult{Status: DeliveryFailed, Message: "reversed"}
	}

	result, err := svc.RequeryTransaction(context.Background(), txn.ID)
	require.NoError(t, err)
	assert.False(t, result.Success)

	var reloaded models.Transaction
	require.NoError(t, svc.db.First(&reloaded, txn.ID).Error)
	assert.Equal(t, models.TransactionStatusFailed, reloaded.Status)

	wallet := walletOf(t, svc.db, 1)
	assert.Equal(t, 1000.0, wallet.Balance)
	assert.Equal(t, 0.0, wallet.TotalSpent)

	txns := txnsOf(t, svc.db, 1)
	require.Len(t, txns, 2)
	assert.Equal(t, models.TransactionTypeRefund, txns[1].Type)
	assert.Equal(t, 400.0, txns[1].Amount)
}

func TestRequeryStillPendingFlags(t *testing.T) {
	svc, provider := newTestOrchestrator(t)
	fundWallet(t, svc.db, 1, 1000)
	txn := seedPendingPurchase(t, svc, 1, 400)

	provider.status = func(reference string) StatusResult {
		return StatusResult{Status: DeliveryPending}
	}

	result, err := svc.RequeryTransaction(context.Background(), txn.ID)
	require.NoError(t, err)
	assert.False(t, result.Success)

	var reloaded models.Transaction
	require.NoError(t, svc.db.First(&reloaded, txn.ID).Error)
	assert.Equal(t, models.TransactionStatusPending, reloaded.Status)
	assert.True(t, reloaded.RequeryFlagged)

	// No wallet movement on an ambiguous result
	wallet := walletOf(t, svc.db, 1)
	assert.Equal(t, 600.0, wallet.Balance)
}

// seedAmbiguousRefund runs a purchase through an unreachable-provider
// failure, leaving a refunded FAILED row flagged for requery.
func seedAmbiguousRefund(t *testing.T, svc *PurchaseService, provider *stubProvider) *models.Transaction {
	t.Helper()
	provider.purchase = func(req ProviderRequest) ProviderResult {
		return ProviderResult{Success: false, Ambiguous: true, Message: "provider unreachable"}
	}
	result, err := svc.PurchaseAirtime(context.Background(), 1, "MTN", 400, "08031234567")
	require.NoError(t, err)
	require.False(t, result.Success)

	var txn models.Transaction
	require.NoError(t, svc.db.Where("type = ?", models.TransactionTypePurchase).First(&txn).Error)
	require.True(t, txn.RequeryFlagged)
	return &txn
}

func TestRequeryFlaggedRefundConfirmedClearsFlag(t *testing.T) {
	svc, provider := newTestOrchestrator(t)
	fundWallet(t, svc.db, 1, 1000)
	txn := seedAmbiguousRefund(t, svc, provider)

	provider.status = func(reference string) StatusResult {
		return StatusResult{Status: DeliveryFailed, Message: "reversed"}
	}

	result, err := svc.RequeryTransaction(context.Background(), txn.ID)
	require.NoError(t, err)
	assert.False(t, result.Success)

	var reloaded models.Transaction
	require.NoError(t, svc.db.First(&reloaded, txn.ID).Error)
	assert.False(t, reloaded.RequeryFlagged)

	// The earlier refund stood; no second wallet movement
	wallet := walletOf(t, svc.db, 1)
	assert.Equal(t, 1000.0, wallet.Balance)
}

func TestRequeryFlaggedRefundDeliveredEscalates(t *testing.T) {
	svc, provider := newTestOrchestrator(t)
	fundWallet(t, svc.db, 1, 1000)
	txn := seedAmbiguousRefund(t, svc, provider)

	provider.status = func(reference string) StatusResult {
		return StatusResult{Status: DeliveryDelivered}
	}

	result, err := svc.RequeryTransaction(context.Background(), txn.ID)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Manual reconciliation required")

	// Flag stays up and nobody is re-debited
	var reloaded models.Transaction
	require.NoError(t, svc.db.First(&reloaded, txn.ID).Error)
	assert.True(t, reloaded.RequeryFlagged)

	wallet := walletOf(t, svc.db, 1)
	assert.Equal(t, 1000.0, wallet.Balance)
}

func TestRequeryUnknownTransaction(t *testing.T) {
	svc, _ := newTestOrchestrator(t)

	_, err := svc.RequeryTransaction(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRequeryRejectsNonPurchaseRows(t *testing.T) {
	svc, _ := newTestOrchestrator(t)
	fundWallet(t, svc.db, 1, 1000)

	txn := &models.Transaction{
		WalletID: 1, UserID: 1,
		Type:   models.TransactionTypeDeposit,
		Amount: 1000, Status: models.TransactionStatusCompleted,
	}
	require.NoError(t, RecordTransaction(svc.db, txn))

	_, err := svc.RequeryTransaction(context.Background(), txn.ID)
	assert.True(t, IsValidationError(err))
}

func TestReconcilePendingTransactions(t *testing.T) {
	svc, provider := newTestOrchestrator(t)
	fundWallet(t, svc.db, 1, 1000)
	stale := seedPendingPurchase(t, svc, 1, 400)
	fresh := seedPendingPurchase(t, svc, 1, 200)

	// Age one row past the cutoff
	require.NoError(t, svc.db.Model(stale).Update("created_at", time.Now().Add(-time.Hour)).Error)

	provider.status = func(reference string) StatusResult {
		return StatusResult{Status: DeliveryDelivered}
	}

	svc.ReconcilePendingTransactions(context.Background(), 15)

	var reloaded models.Transaction
	require.NoError(t, svc.db.First(&reloaded, stale.ID).Error)
	assert.Equal(t, models.TransactionStatusCompleted, reloaded.Status)

	var reloadedFresh models.Transaction
	require.NoError(t, svc.db.First(&reloadedFresh, fresh.ID).Error)
	assert.Equal(t, models.TransactionStatusPending, reloadedFresh.Status)
}
