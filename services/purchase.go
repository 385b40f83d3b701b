package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"vtu/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	airtimeMinAmount     = 50
	airtimeMaxAmount     = 50000
	electricityMinAmount = 500
	electricityMaxAmount = 100000
	bulkMaxItems         = 50
)

// Notifier delivers purchase events to the user (email, socket, ...).
// Injected so the core never touches a global connection registry.
type Notifier interface {
	Notify(userID uint, event string, message string)
}

// PurchaseService runs the debit -> provider call -> settle-or-refund
// state machine. It is the single settlement path: single purchases, bulk
// items, scheduled firings and gift claims all come through here.
type PurchaseService struct {
	db       *gorm.DB
	provider BillingProvider
	notifier Notifier
}

// NewPurchaseService wires the orchestrator
func NewPurchaseService(db *gorm.DB, provider BillingProvider, notifier Notifier) *PurchaseService {
	return &PurchaseService{db: db, provider: provider, notifier: notifier}
}

// PurchaseResult is returned to callers for every attempt, success or not.
// Message always states whether money moved.
type PurchaseResult struct {
	Success           bool                `json:"success"`
	Message           string              `json:"message"`
	Transaction       *models.Transaction `json:"transaction,omitempty"`
	ProviderReference string              `json:"providerReference,omitempty"`
	Token             string              `json:"token,omitempty"`
	NewBalance        float64             `json:"newBalance"`
}

// purchaseAttempt is the orchestrator's working state for one attempt. It
// exists so that on any failure we know whether a compensating refund is
// owed (walletDeducted) and which row to flip.
type purchaseAttempt struct {
	userID      uint
	serviceType models.ServiceType
	serviceID   string // provider-side service id
	planCode    string
	network     string
	destination string
	price       float64
	costPrice   float64
	planID      uint
	planName    string
	description string

	walletDeducted bool
	txn            *models.Transaction
}

// PurchaseData buys a data bundle for a phone number
func (s *PurchaseService) PurchaseData(ctx context.Context, userID uint, planID uint, phone string) (*PurchaseResult, error) {
	phone = NormalizePhone(phone)
	if !IsValidPhone(phone) {
		return nil, NewValidationError("phone", "Invalid phone number!")
	}

	plan, err := GetDataPlan(s.db, planID)
	if errors.Is(err, ErrNotFound) {
		return nil, NewValidationError("planId", "Data plan not found!")
	}
	if err != nil {
		return nil, err
	}

	att := &purchaseAttempt{
		userID:      userID,
		serviceType: models.ServiceTypeData,
		serviceID:   strings.ToLower(plan.Network) + "-data",
		planCode:    plan.PlanCode,
		network:     plan.Network,
		destination: phone,
		price:       plan.SellingPrice,
		costPrice:   plan.CostPrice,
		planID:      plan.ID,
		planName:    plan.Name,
		description: fmt.Sprintf("Data: %s %s to %s", plan.Network, plan.Name, phone),
	}
	return s.execute(ctx, att)
}

// PurchaseAirtime buys airtime. When network is empty it is detected from
// the phone prefix; an undetectable prefix is a validation failure, never
// a guess.
func (s *PurchaseService) PurchaseAirtime(ctx context.Context, userID uint, network string, amount float64, phone string) (*PurchaseResult, error) {
	phone = NormalizePhone(phone)
	if !IsValidPhone(phone) {
		return nil, NewValidationError("phone", "Invalid phone number!")
	}
	if amount < airtimeMinAmount || amount > airtimeMaxAmount {
		return nil, NewValidationError("amount",
			fmt.Sprintf("Airtime amount must be between %d and %d!", airtimeMinAmount, airtimeMaxAmount))
	}

	if network == "" {
		network = DetectNetwork(phone)
		if network == "" {
			return nil, NewValidationError("network", "Could not detect network from phone number, please specify it!")
		}
	}
	network = strings.ToUpper(network)
	if !IsValidNetwork(network) {
		return nil, NewValidationError("network", "Unsupported network!")
	}

	att := &purchaseAttempt{
		userID:      userID,
		serviceType: models.ServiceTypeAirtime,
		serviceID:   strings.ToLower(network),
		network:     network,
		destination: phone,
		price:       amount,
		costPrice:   amount,
		description: fmt.Sprintf("Airtime: %s ₦%.2f to %s", network, amount, phone),
	}
	return s.execute(ctx, att)
}

// PayCableTV renews a cable TV bouquet on a smartcard
func (s *PurchaseService) PayCableTV(ctx context.Context, userID uint, planID uint, smartcard string) (*PurchaseResult, error) {
	smartcard = strings.TrimSpace(smartcard)
	if !isDigits(smartcard) || len(smartcard) < 10 || len(smartcard) > 12 {
		return nil, NewValidationError("smartcard", "Invalid smartcard number!")
	}

	plan, err := GetCablePlan(s.db, planID)
	if errors.Is(err, ErrNotFound) {
		return nil, NewValidationError("planId", "Cable plan not found!")
	}
	if err != nil {
		return nil, err
	}

	att := &purchaseAttempt{
		userID:      userID,
		serviceType: models.ServiceTypeCable,
		serviceID:   strings.ToLower(plan.Provider),
		planCode:    plan.PlanCode,
		network:     plan.Provider,
		destination: smartcard,
		price:       plan.SellingPrice,
		costPrice:   plan.CostPrice,
		planID:      plan.ID,
		planName:    plan.Name,
		description: fmt.Sprintf("Cable: %s %s on %s", plan.Provider, plan.Name, smartcard),
	}
	return s.execute(ctx, att)
}

// PayElectricity buys an electricity token for a meter
func (s *PurchaseService) PayElectricity(ctx context.Context, userID uint, disco, meterType, meter string, amount float64) (*PurchaseResult, error) {
	meter = strings.TrimSpace(meter)
	if !isDigits(meter) || len(meter) < 10 || len(meter) > 13 {
		return nil, NewValidationError("meter", "Invalid meter number!")
	}
	if amount < electricityMinAmount || amount > electricityMaxAmount {
		return nil, NewValidationError("amount",
			fmt.Sprintf("Electricity payment must be between %d and %d!", electricityMinAmount, electricityMaxAmount))
	}
	if disco == "" {
		return nil, NewValidationError("disco", "Electricity provider is required!")
	}
	meterType = strings.ToLower(meterType)
	if meterType != "prepaid" && meterType != "postpaid" {
		return nil, NewValidationError("meterType", "Meter type must be prepaid or postpaid!")
	}

	att := &purchaseAttempt{
		userID:      userID,
		serviceType: models.ServiceTypeElectricity,
		serviceID:   strings.ToLower(disco),
		planCode:    meterType,
		network:     strings.ToUpper(disco),
		destination: meter,
		price:       amount,
		costPrice:   amount,
		description: fmt.Sprintf("Electricity: %s %s meter %s ₦%.2f", strings.ToUpper(disco), meterType, meter, amount),
	}
	return s.execute(ctx, att)
}

// BuyExamPin buys an exam result-checker pin, delivered to the phone number
func (s *PurchaseService) BuyExamPin(ctx context.Context, userID uint, pinID uint, phone string) (*PurchaseResult, error) {
	phone = NormalizePhone(phone)
	if !IsValidPhone(phone) {
		return nil, NewValidationError("phone", "Invalid phone number!")
	}

	pin, err := GetExamPin(s.db, pinID)
	if errors.Is(err, ErrNotFound) {
		return nil, NewValidationError("pinId", "Exam pin not found!")
	}
	if err != nil {
		return nil, err
	}

	att := &purchaseAttempt{
		userID:      userID,
		serviceType: models.ServiceTypeExamPin,
		serviceID:   strings.ToLower(pin.ExamType),
		planCode:    pin.PlanCode,
		network:     pin.ExamType,
		destination: phone,
		price:       pin.SellingPrice,
		costPrice:   pin.CostPrice,
		planID:      pin.ID,
		planName:    pin.Name,
		description: fmt.Sprintf("Exam pin: %s to %s", pin.Name, phone),
	}
	return s.execute(ctx, att)
}

// ValidateCustomer resolves a smartcard or meter number to a customer name
// before the user commits to a purchase.
func (s *PurchaseService) ValidateCustomer(ctx context.Context, serviceID, identifier string) (*CustomerResult, error) {
	if !s.provider.IsConfigured() {
		return nil, ErrServiceUnavailable
	}
	result := s.provider.ValidateCustomer(ctx, strings.ToLower(serviceID), strings.TrimSpace(identifier))
	return &result, nil
}

// execute runs steps 3-7 of the state machine for a validated, priced
// attempt: balance check, guarded debit, provider call, settle or refund.
func (s *PurchaseService) execute(ctx context.Context, att *purchaseAttempt) (*PurchaseResult, error) {
	att.price = Round2(att.price)

	// Provider short-circuit before any ledger touch
	if !s.provider.IsConfigured() {
		return nil, ErrServiceUnavailable
	}

	wallet, err := GetOrCreateWallet(s.db, att.userID)
	if err != nil {
		return nil, err
	}
	if wallet.Balance < att.price {
		return nil, ErrInsufficientFunds
	}

	// Debit and the pending ledger row are one logical step: if the row
	// write fails the transaction rolls back and the balance subtract is
	// undone with it, so a debit can never go unrecorded.
	reference := uuid.NewString()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		debited, err := DebitWallet(tx, att.userID, att.price)
		if err != nil {
			return err
		}

		txn := &models.Transaction{
			WalletID:      debited.ID,
			UserID:        att.userID,
			Type:          models.TransactionTypePurchase,
			Amount:        -att.price,
			Status:        models.TransactionStatusPending,
			BalanceBefore: debited.Balance + att.price,
			BalanceAfter:  debited.Balance,
			Description:   att.description,
			ServiceType:   att.serviceType,
			Network:       att.network,
			Destination:   att.destination,
			PlanID:        att.planID,
			PlanName:      att.planName,
			CostPrice:     att.costPrice,
			Reference:     reference,
		}
		if err := RecordTransaction(tx, txn); err != nil {
			return err
		}
		att.txn = txn
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to debit wallet: %w", err)
	}
	att.walletDeducted = true

	result := s.provider.Purchase(ctx, ProviderRequest{
		ServiceID:   att.serviceID,
		PlanCode:    att.planCode,
		Destination: att.destination,
		Amount:      att.price,
		Reference:   reference,
	})

	if result.Success {
		return s.settle(att, result)
	}
	return s.compensate(att, result)
}

// settle marks the pending debit completed and accrues rewards. A reward
// or notification failure never fails the purchase.
func (s *PurchaseService) settle(att *purchaseAttempt, result ProviderResult) (*PurchaseResult, error) {
	updates := map[string]interface{}{
		"status":             models.TransactionStatusCompleted,
		"provider_reference": result.Reference,
	}
	if len(result.Raw) > 0 {
		updates["provider_response"] = datatypes.JSON(result.Raw)
	}
	if err := s.db.Model(&models.Transaction{}).Where("id = ?", att.txn.ID).Updates(updates).Error; err != nil {
		// The service was delivered; the row stays PENDING for requery to
		// settle later.
		log.Printf("[PURCHASE] failed to mark txn %d completed: %v", att.txn.ID, err)
	}
	att.txn.Status = models.TransactionStatusCompleted
	att.txn.ProviderReference = result.Reference

	if err := AccrueReward(s.db, att.userID, att.txn.ID, att.price, att.description); err != nil {
		log.Printf("[REWARDS] accrual failed for txn %d: %v", att.txn.ID, err)
	}
	s.notify(att.userID, "purchase.completed", att.description)

	wallet, _ := GetOrCreateWallet(s.db, att.userID)
	res := &PurchaseResult{
		Success:           true,
		Message:           "Purchase successful!",
		Transaction:       att.txn,
		ProviderReference: result.Reference,
		Token:             result.Token,
	}
	if wallet != nil {
		res.NewBalance = wallet.Balance
	}
	return res, nil
}

// compensate credits the price back, fails the original row and appends a
// refund row. Attempted even when the provider call itself blew up; a
// refund failure is money owed to the user and is logged loudly, never
// swallowed.
func (s *PurchaseService) compensate(att *purchaseAttempt, result ProviderResult) (*PurchaseResult, error) {
	failUpdates := map[string]interface{}{
		"status": models.TransactionStatusFailed,
	}
	if result.Ambiguous {
		// We refunded without a definitive provider answer; the service may
		// still have been delivered. Flag the row so requery reconciles it.
		failUpdates["requery_flagged"] = true
	}
	if len(result.Raw) > 0 {
		failUpdates["provider_response"] = datatypes.JSON(result.Raw)
	}

	refundErr := s.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := CreditWallet(tx, att.userID, att.price, true)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Transaction{}).Where("id = ?", att.txn.ID).Updates(failUpdates).Error; err != nil {
			return err
		}
		refund := &models.Transaction{
			WalletID:      wallet.ID,
			UserID:        att.userID,
			Type:          models.TransactionTypeRefund,
			Amount:        att.price,
			Status:        models.TransactionStatusCompleted,
			BalanceBefore: wallet.Balance - att.price,
			BalanceAfter:  wallet.Balance,
			Description:   "Refund: " + att.description,
			ServiceType:   att.serviceType,
			Network:       att.network,
			Destination:   att.destination,
			PlanID:        att.planID,
			PlanName:      att.planName,
		}
		return RecordTransaction(tx, refund)
	})
	if refundErr != nil {
		// Money owed to the user. Flag the row for reconciliation and alert.
		log.Printf("[PURCHASE] CRITICAL: refund of ₦%.2f to user %d failed for txn %d: %v",
			att.price, att.userID, att.txn.ID, refundErr)
		s.db.Model(&models.Transaction{}).Where("id = ?", att.txn.ID).Update("requery_flagged", true)
	}

	att.txn.Status = models.TransactionStatusFailed

	message := result.Message
	if message == "" {
		message = "Purchase failed"
	}
	if refundErr != nil {
		message = fmt.Sprintf("%s. ₦%.2f refund is being processed.", message, att.price)
	} else {
		message = fmt.Sprintf("%s. ₦%.2f refunded to wallet.", message, att.price)
	}

	wallet, _ := GetOrCreateWallet(s.db, att.userID)
	res := &PurchaseResult{
		Success:     false,
		Message:     message,
		Transaction: att.txn,
	}
	if wallet != nil {
		res.NewBalance = wallet.Balance
	}
	return res, nil
}

func (s *PurchaseService) notify(userID uint, event, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(userID, event, message)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
