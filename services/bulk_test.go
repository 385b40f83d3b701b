package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkAirtimeAllSucceed(t *testing.T) {
	svc, _ := newTestOrchestrator(t)
	fundWallet(t, svc.db, 1, 1000)

	result, err := svc.BulkPurchaseAirtime(context.Background(), 1, []BulkAirtimeItem{
		{Phone: "08031234567", Amount: 100},
		{Phone: "08051234567", Amount: 200},
		{Phone: "08021234567", Amount: 300},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 600.0, result.TotalCharged)

	wallet := walletOf(t, svc.db, 1)
	assert.Equal(t, 400.0, wallet.Balance)
}

func TestBulkAirtimeBadPhoneAbortsBatch(t *testing.T) {
	svc, provider := newTestOrchestrator(t)
	fundWallet(t, svc.db, 1, 1000)

	_, err := svc.BulkPurchaseAirtime(context.Background(), 1, []BulkAirtimeItem{
		{Phone: "08031234567", Amount: 100},
		{Phone: "0123", Amount: 100},
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "0123")

	// Nothing was charged for any item, including the valid one
	assert.Zero(t, provider.purchaseCalls)
	wallet := walletOf(t, svc.db, 1)
	assert.Equal(t, 1000.0, wallet.Balance)
	assert.Empty(t, txnsOf(t, svc.db, 1))
}

func TestBulkAirtimePartialFailureCompensatesPerItem(t *testing.T) {
	svc, provider := newTestOrchestrator(t)
	fundWallet(t, svc.db, 1, 1000)

	provider.purchase = func(req ProviderRequest) ProviderResult {
		if req.Destination == "08051234567" {
			return ProviderResult{Success: false, Message: "provider declined"}
		}
		return ProviderResult{Success: true, Reference: "prov-" + req.Reference}
	}

	result, err := svc.BulkPurchaseAirtime(context.Background(), 1, []BulkAirtimeItem{
		{Phone: "08031234567", Amount: 100},
		{Phone: "08051234567", Amount: 200},
		{Phone: "08021234567", Amount: 300},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 400.0, result.TotalCharged)
	assert.False(t, result.Items[1].Success)

	// Only the delivered items stay charged; the failed one was refunded
	wallet := walletOf(t, svc.db, 1)
	assert.Equal(t, 600.0, wallet.Balance)
	assert.Equal(t, 400.0, wallet.TotalSpent)
}

func TestBulkAirtimeCapsBatchSize(t *testing.T) {
	svc, _ := newTestOrchestrator(t)

	items := make([]BulkAirtimeItem, 51)
	for i := range items {
		items[i] = BulkAirtimeItem{Phone: "08031234567", Amount: 100}
	}
	_, err := svc.BulkPurchaseAirtime(context.Background(), 1, items)
	assert.True(t, IsValidationError(err))

	_, err = svc.BulkPurchaseAirtime(context.Background(), 1, nil)
	assert.True(t, IsValidationError(err))
}

func TestBulkAirtimeInsufficientFundsMidBatch(t *testing.T) {
	svc, _ := newTestOrchestrator(t)
	fundWallet(t, svc.db, 1, 250)

	result, err := svc.BulkPurchaseAirtime(context.Background(), 1, []BulkAirtimeItem{
		{Phone: "08031234567", Amount: 200},
		{Phone: "08051234567", Amount: 200},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Items[1].Message, "not charged")

	wallet := walletOf(t, svc.db, 1)
	assert.Equal(t, 50.0, wallet.Balance)
}
