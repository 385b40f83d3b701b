package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// BulkAirtimeItem is one entry of a bulk airtime request
type BulkAirtimeItem struct {
	Phone   string  `json:"phone"`
	Amount  float64 `json:"amount"`
	Network string  `json:"network"`
}

// BulkItemResult is the per-item outcome of a bulk purchase
type BulkItemResult struct {
	Phone         string  `json:"phone"`
	Amount        float64 `json:"amount"`
	Success       bool    `json:"success"`
	Message       string  `json:"message"`
	TransactionID uint    `json:"transactionId,omitempty"`
}

// BulkResult aggregates a bulk purchase run
type BulkResult struct {
	Total        int              `json:"total"`
	Succeeded    int              `json:"succeeded"`
	Failed       int              `json:"failed"`
	TotalCharged float64          `json:"totalCharged"` // amount retained after compensations
	Items        []BulkItemResult `json:"items"`
}

// BulkPurchaseAirtime runs the purchase state machine per item,
// sequentially so each item's compensation stays simple and bounded. Every
// phone number is validated up front: one malformed entry aborts the whole
// batch before any ledger touch, naming the offending number.
func (s *PurchaseService) BulkPurchaseAirtime(ctx context.Context, userID uint, items []BulkAirtimeItem) (*BulkResult, error) {
	if len(items) == 0 {
		return nil, NewValidationError("items", "At least one recipient is required!")
	}
	if len(items) > bulkMaxItems {
		return nil, NewValidationError("items",
			fmt.Sprintf("Bulk purchases are limited to %d recipients!", bulkMaxItems))
	}

	// Pre-validate the whole batch before touching the ledger for any item
	for i := range items {
		items[i].Phone = NormalizePhone(items[i].Phone)
		if !IsValidPhone(items[i].Phone) {
			return nil, NewValidationError("items",
				fmt.Sprintf("Invalid phone number: %s", items[i].Phone))
		}
		if items[i].Amount < airtimeMinAmount || items[i].Amount > airtimeMaxAmount {
			return nil, NewValidationError("items",
				fmt.Sprintf("Invalid amount ₦%.2f for %s: must be between %d and %d!",
					items[i].Amount, items[i].Phone, airtimeMinAmount, airtimeMaxAmount))
		}
		if items[i].Network == "" {
			items[i].Network = DetectNetwork(items[i].Phone)
			if items[i].Network == "" {
				return nil, NewValidationError("items",
					fmt.Sprintf("Could not detect network for %s, please specify it!", items[i].Phone))
			}
		}
		items[i].Network = strings.ToUpper(items[i].Network)
		if !IsValidNetwork(items[i].Network) {
			return nil, NewValidationError("items",
				fmt.Sprintf("Unsupported network %q for %s!", items[i].Network, items[i].Phone))
		}
	}

	if !s.provider.IsConfigured() {
		return nil, ErrServiceUnavailable
	}

	bulk := &BulkResult{Total: len(items)}
	for _, item := range items {
		itemResult := BulkItemResult{Phone: item.Phone, Amount: item.Amount}

		result, err := s.PurchaseAirtime(ctx, userID, item.Network, item.Amount, item.Phone)
		switch {
		case err != nil:
			itemResult.Message = userFacingMessage(err)
		case result.Success:
			itemResult.Success = true
			itemResult.Message = result.Message
			bulk.TotalCharged += item.Amount
			if result.Transaction != nil {
				itemResult.TransactionID = result.Transaction.ID
			}
		default:
			itemResult.Message = result.Message
			if result.Transaction != nil {
				itemResult.TransactionID = result.Transaction.ID
			}
		}

		if itemResult.Success {
			bulk.Succeeded++
		} else {
			bulk.Failed++
		}
		bulk.Items = append(bulk.Items, itemResult)
	}
	bulk.TotalCharged = Round2(bulk.TotalCharged)
	return bulk, nil
}

// userFacingMessage converts sentinel errors into messages that state
// whether money moved.
func userFacingMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsValidationError(err):
		return err.Error() + " You were not charged."
	case errors.Is(err, ErrInsufficientFunds):
		return "Insufficient wallet balance. You were not charged."
	case errors.Is(err, ErrServiceUnavailable):
		return "Service temporarily unavailable. You were not charged."
	}
	return "Purchase failed. You were not charged."
}
