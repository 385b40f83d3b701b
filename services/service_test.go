package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"vtu/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory database. A single connection keeps
// the database alive and serializes access.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.Transaction{},
		&models.DataPlan{},
		&models.CablePlan{},
		&models.ExamPin{},
		&models.ScheduledPurchase{},
		&models.Gift{},
		&models.RewardAccount{},
		&models.RewardEntry{},
	))
	return db
}

// stubProvider is a scriptable BillingProvider for orchestrator tests
type stubProvider struct {
	configured    bool
	purchase      func(req ProviderRequest) ProviderResult
	validate      func(serviceID, identifier string) CustomerResult
	status        func(reference string) StatusResult
	purchaseCalls int
}

func (p *stubProvider) IsConfigured() bool { return p.configured }

func (p *stubProvider) Purchase(ctx context.Context, req ProviderRequest) ProviderResult {
	p.purchaseCalls++
	if p.purchase != nil {
		return p.purchase(req)
	}
	return ProviderResult{Success: true, Reference: "prov-" + req.Reference, Message: "delivered"}
}

func (p *stubProvider) ValidateCustomer(ctx context.Context, serviceID, identifier string) CustomerResult {
	if p.validate != nil {
		return p.validate(serviceID, identifier)
	}
	return CustomerResult{Success: true, Name: "TEST CUSTOMER"}
}

func (p *stubProvider) CheckStatus(ctx context.Context, reference string) StatusResult {
	if p.status != nil {
		return p.status(reference)
	}
	return StatusResult{Status: DeliveryUnknown}
}

// fundWallet credits a user's wallet through the ledger service
func fundWallet(t *testing.T, db *gorm.DB, userID uint, amount float64) {
	t.Helper()
	_, err := CreditWallet(db, userID, amount, false)
	require.NoError(t, err)
}

// seedDataPlan creates an active data plan
func seedDataPlan(t *testing.T, db *gorm.DB, network string, cost, selling float64) *models.DataPlan {
	t.Helper()
	plan := &models.DataPlan{
		Network:      network,
		PlanCode:     strings.ToLower(network) + "-1gb",
		Name:         "1GB - 30 Days",
		DataAmount:   "1GB",
		Validity:     "30 days",
		CostPrice:    cost,
		SellingPrice: selling,
		IsActive:     true,
	}
	require.NoError(t, db.Create(plan).Error)
	return plan
}

// walletOf reloads a user's wallet
func walletOf(t *testing.T, db *gorm.DB, userID uint) *models.Wallet {
	t.Helper()
	var wallet models.Wallet
	require.NoError(t, db.Where("user_id = ?", userID).First(&wallet).Error)
	return &wallet
}

// txnsOf loads all of a user's ledger rows, oldest first
func txnsOf(t *testing.T, db *gorm.DB, userID uint) []models.Transaction {
	t.Helper()
	var txns []models.Transaction
	require.NoError(t, db.Where("user_id = ?", userID).Order("id ASC").Find(&txns).Error)
	return txns
}
