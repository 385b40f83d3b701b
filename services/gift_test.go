package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"vtu/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGiftService(t *testing.T) (*GiftService, *stubProvider) {
	t.Helper()
	provider := &stubProvider{configured: true}
	db := newTestDB(t)
	purchases := NewPurchaseService(db, provider, nil)
	return NewGiftService(db, purchases), provider
}

func TestCreateGiftDebitsSender(t *testing.T) {
	svc, _ := newTestGiftService(t)
	plan := seedDataPlan(t, svc.db, "MTN", 800, 1000)
	fundWallet(t, svc.db, 1, 5000)

	gift, err := svc.CreateGift(1, "08031234567", plan.ID, "enjoy")
	require.NoError(t, err)
	assert.Equal(t, models.GiftStatusPending, gift.Status)
	assert.Len(t, gift.GiftCode, 8)
	for _, r := range gift.GiftCode {
		assert.Contains(t, giftCodeAlphabet, string(r))
	}
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), gift.ExpiresAt, time.Minute)

	// Debited from balance, earmarked in escrow until the claim
	wallet := walletOf(t, svc.db, 1)
	assert.Equal(t, 4000.0, wallet.Balance)
	assert.Equal(t, 1000.0, wallet.EscrowBalance)

	txns := txnsOf(t, svc.db, 1)
	require.Len(t, txns, 1)
	assert.Equal(t, models.TransactionTypeGift, txns[0].Type)
	assert.Equal(t, -1000.0, txns[0].Amount)
	assert.Equal(t, models.TransactionStatusCompleted, txns[0].Status)
}

func TestCreateGiftInsufficientFunds(t *testing.T) {
	svc, _ := newTestGiftService(t)
	plan := seedDataPlan(t, svc.db, "MTN", 800, 1000)
	fundWallet(t, svc.db, 1, 500)

	_, err := svc.CreateGift(1, "08031234567", plan.ID, "")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Empty(t, txnsOf(t, svc.db, 1))
}

func TestGiftCodesAreUnique(t *testing.T) {
	svc, _ := newTestGiftService(t)
	plan := seedDataPlan(t, svc.db, "MTN", 80, 100)
	fundWallet(t, svc.db, 1, 10000)

	codes := make(map[string]bool)
	for i := 0; i < 10; i++ {
		gift, err := svc.CreateGift(1, "08031234567", plan.ID, "")
		require.NoError(t, err)
		assert.False(t, codes[gift.GiftCode])
		codes[gift.GiftCode] = true
	}
}

func TestClaimGiftDeliversOnce(t *testing.T) {
	svc, _ := newTestGiftService(t)
	plan := seedDataPlan(t, svc.db, "MTN", 800, 1000)
	fundWallet(t, svc.db, 1, 5000)

	gift, err := svc.CreateGift(1, "08031234567", plan.ID, "")
	require.NoError(t, err)

	result, err := svc.ClaimGift(context.Background(), strings.ToLower(gift.GiftCode), 2)
	require.NoError(t, err)
	assert.True(t, result.Success)

	var reloaded models.Gift
	require.NoError(t, svc.db.First(&reloaded, gift.ID).Error)
	assert.Equal(t, models.GiftStatusClaimed, reloaded.Status)
	assert.Equal(t, uint(2), reloaded.ClaimedByID)

	// Delivery releases the escrow and links the claimant to the debit row
	wallet := walletOf(t, svc.db, 1)
	assert.Equal(t, 0.0, wallet.EscrowBalance)

	var debit models.Transaction
	require.NoError(t, svc.db.First(&debit, reloaded.TransactionID).Error)
	assert.Equal(t, uint(2), debit.RelatedUserID)

	_, err = svc.ClaimGift(context.Background(), gift.GiftCode, 3)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "already been claimed")
}

func TestClaimUnknownCode(t *testing.T) {
	svc, _ := newTestGiftService(t)

	_, err := svc.ClaimGift(context.Background(), "NOSUCH00", 2)
	assert.True(t, IsValidationError(err))
}

func TestClaimExpiredGiftRefundsSender(t *testing.T) {
	svc, provider := newTestGiftService(t)
	plan := seedDataPlan(t, svc.db, "MTN", 800, 1000)
	fundWallet(t, svc.db, 1, 5000)

	gift, err := svc.CreateGift(1, "08031234567", plan.ID, "")
	require.NoError(t, err)
	require.NoError(t, svc.db.Model(gift).Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, err = svc.ClaimGift(context.Background(), gift.GiftCode, 2)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "expired")
	assert.Zero(t, provider.purchaseCalls)

	var reloaded models.Gift
	require.NoError(t, svc.db.First(&reloaded, gift.ID).Error)
	assert.Equal(t, models.GiftStatusExpired, reloaded.Status)

	wallet := walletOf(t, svc.db, 1)
	assert.Equal(t, 5000.0, wallet.Balance)
	assert.Equal(t, 0.0, wallet.EscrowBalance)

	txns := txnsOf(t, svc.db, 1)
	require.Len(t, txns, 2)
	assert.Equal(t, models.TransactionTypeRefund, txns[1].Type)
	assert.Equal(t, 1000.0, txns[1].Amount)
}

func TestClaimGiftProviderDownStaysClaimable(t *testing.T) {
	svc, provider := newTestGiftService(t)
	plan := seedDataPlan(t, svc.db, "MTN", 800, 1000)
	fundWallet(t, svc.db, 1, 5000)

	gift, err := svc.CreateGift(1, "08031234567", plan.ID, "")
	require.NoError(t, err)

	provider.configured = false
	_, err = svc.ClaimGift(context.Background(), gift.GiftCode, 2)
	assert.ErrorIs(t, err, ErrServiceUnavailable)

	var reloaded models.Gift
	require.NoError(t, svc.db.First(&reloaded, gift.ID).Error)
	assert.Equal(t, models.GiftStatusPending, reloaded.Status)

	// Nobody was charged; the earmark is still held
	wallet := walletOf(t, svc.db, 1)
	assert.Equal(t, 4000.0, wallet.Balance)
	assert.Equal(t, 1000.0, wallet.EscrowBalance)
}

func TestClaimGiftDeliveryFailureRefundsSender(t *testing.T) {
	svc, provider := newTestGiftService(t)
	plan := seedDataPlan(t, svc.db, "MTN", 800, 1000)
	fundWallet(t, svc.db, 1, 5000)

	gift, err := svc.CreateGift(1, "08031234567", plan.ID, "")
	require.NoError(t, err)

	provider.purchase = func(req ProviderRequest) ProviderResult {
		return ProviderResult{Success: false, Message: "provider declined"}
	}

	result, err := svc.ClaimGift(context.Background(), gift.GiftCode, 2)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "refunded")

	var reloaded models.Gift
	require.NoError(t, svc.db.First(&reloaded, gift.ID).Error)
	assert.Equal(t, models.GiftStatusCancelled, reloaded.Status)

	wallet := walletOf(t, svc.db, 1)
	assert.Equal(t, 5000.0, wallet.Balance)
	assert.Equal(t, 0.0, wallet.EscrowBalance)
}

func TestClaimGiftPlanRetiredRefundsSender(t *testing.T) {
	svc, _ := newTestGiftService(t)
	plan := seedDataPlan(t, svc.db, "MTN", 800, 1000)
	fundWallet(t, svc.db, 1, 5000)

	gift, err := svc.CreateGift(1, "08031234567", plan.ID, "")
	require.NoError(t, err)
	require.NoError(t, svc.db.Model(plan).Update("is_active", false).Error)

	_, err = svc.ClaimGift(context.Background(), gift.GiftCode, 2)
	assert.ErrorIs(t, err, ErrPurchaseFailed)

	var reloaded models.Gift
	require.NoError(t, svc.db.First(&reloaded, gift.ID).Error)
	assert.Equal(t, models.GiftStatusCancelled, reloaded.Status)

	wallet := walletOf(t, svc.db, 1)
	assert.Equal(t, 5000.0, wallet.Balance)
}

func TestCancelGiftRefundsSender(t *testing.T) {
	svc, _ := newTestGiftService(t)
	plan := seedDataPlan(t, svc.db, "MTN", 800, 1000)
	fundWallet(t, svc.db, 1, 5000)

	gift, err := svc.CreateGift(1, "08031234567", plan.ID, "")
	require.NoError(t, err)

	require.NoError(t, svc.CancelGift(1, gift.ID))

	wallet := walletOf(t, svc.db, 1)
	assert.Equal(t, 5000.0, wallet.Balance)
	assert.Equal(t, 0.0, wallet.EscrowBalance)
	assert.Equal(t, 0.0, wallet.TotalSpent)

	err = svc.CancelGift(1, gift.ID)
	assert.True(t, IsValidationError(err))

	assert.ErrorIs(t, svc.CancelGift(2, gift.ID), ErrNotFound)
}

func TestListGifts(t *testing.T) {
	svc, _ := newTestGiftService(t)
	plan := seedDataPlan(t, svc.db, "MTN", 800, 1000)
	fundWallet(t, svc.db, 1, 5000)

	gift, err := svc.CreateGift(1, "08031234567", plan.ID, "")
	require.NoError(t, err)

	_, err = svc.ClaimGift(context.Background(), gift.GiftCode, 2)
	require.NoError(t, err)

	sent, err := svc.ListSentGifts(1)
	require.NoError(t, err)
	assert.Len(t, sent, 1)

	claimed, err := svc.ListClaimedGifts(2)
	require.NoError(t, err)
	assert.Len(t, claimed, 1)

	claimed, err = svc.ListClaimedGifts(3)
	require.NoError(t, err)
	assert.Empty(t, claimed)
}
