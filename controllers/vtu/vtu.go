package vtuController

import (
	"errors"

	"vtu/middleware"
	"vtu/services"

	"github.com/gofiber/fiber/v2"
)

// Service is the purchase orchestrator, wired in main
var Service *services.PurchaseService

// Init sets the orchestrator used by the handlers
func Init(service *services.PurchaseService) {
	Service = service
}

// respondPurchaseError maps the error taxonomy onto HTTP statuses. Every
// message states whether the user's money was touched.
func respondPurchaseError(c *fiber.Ctx, err error) error {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		return middleware.ValidationErrorResponse(c, ve.Fields)
	}
	if errors.Is(err, services.ErrInsufficientFunds) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
			"Insufficient wallet balance! You were not charged.", nil)
	}
	if errors.Is(err, services.ErrServiceUnavailable) {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false,
			"Service temporarily unavailable! You were not charged.", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false,
		"Something went wrong! You were not charged.", nil)
}

// respondPurchaseResult returns an orchestrator result. Failed results were
// already compensated; the message says so.
func respondPurchaseResult(c *fiber.Ctx, result *services.PurchaseResult) error {
	if !result.Success {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, result.Message, fiber.Map{
			"transaction": result.Transaction,
			"newBalance":  result.NewBalance,
		})
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, result.Message, fiber.Map{
		"transaction":       result.Transaction,
		"providerReference": result.ProviderReference,
		"token":             result.Token,
		"newBalance":        result.NewBalance,
	})
}

// PurchaseData buys a data bundle
func PurchaseData(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedDataPurchase").(*struct {
		PlanID uint   `json:"planId"`
		Phone  string `json:"phone"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := Service.PurchaseData(c.Context(), userId, reqData.PlanID, reqData.Phone)
	if err != nil {
		return respondPurchaseError(c, err)
	}
	return respondPurchaseResult(c, result)
}

// PurchaseAirtime buys airtime
func PurchaseAirtime(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedAirtimePurchase").(*struct {
		Network string  `json:"network"`
		Amount  float64 `json:"amount"`
		Phone   string  `json:"phone"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := Service.PurchaseAirtime(c.Context(), userId, reqData.Network, reqData.Amount, reqData.Phone)
	if err != nil {
		return respondPurchaseError(c, err)
	}
	return respondPurchaseResult(c, result)
}

// BulkPurchaseAirtime buys airtime for up to 50 recipients
func BulkPurchaseAirtime(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedBulkAirtime").(*struct {
		Items []services.BulkAirtimeItem `json:"items"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := Service.BulkPurchaseAirtime(c.Context(), userId, reqData.Items)
	if err != nil {
		return respondPurchaseError(c, err)
	}

	message := "Bulk purchase processed!"
	if result.Failed > 0 {
		message = "Bulk purchase processed with some failures. Failed items were refunded."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, result)
}

// PayCableTV renews a cable bouquet
func PayCableTV(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedCablePurchase").(*struct {
		PlanID    uint   `json:"planId"`
		Smartcard string `json:"smartcard"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := Service.PayCableTV(c.Context(), userId, reqData.PlanID, reqData.Smartcard)
	if err != nil {
		return respondPurchaseError(c, err)
	}
	return respondPurchaseResult(c, result)
}

// ValidateCustomer resolves a smartcard or meter number to a customer name
func ValidateCustomer(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCustomerLookup").(*struct {
		ServiceID  string `json:"serviceId"`
		Identifier string `json:"identifier"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := Service.ValidateCustomer(c.Context(), reqData.ServiceID, reqData.Identifier)
	if err != nil {
		return respondPurchaseError(c, err)
	}
	if !result.Success {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, result.Message, nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Customer verified!", fiber.Map{
		"customerName": result.Name,
	})
}

// PayElectricity buys an electricity token
func PayElectricity(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedElectricityPurchase").(*struct {
		Disco     string  `json:"disco"`
		MeterType string  `json:"meterType"`
		Meter     string  `json:"meter"`
		Amount    float64 `json:"amount"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := Service.PayElectricity(c.Context(), userId, reqData.Disco, reqData.MeterType, reqData.Meter, reqData.Amount)
	if err != nil {
		return respondPurchaseError(c, err)
	}
	return respondPurchaseResult(c, result)
}

// BuyExamPin buys an exam result-checker pin
func BuyExamPin(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedExamPinPurchase").(*struct {
		PinID uint   `json:"pinId"`
		Phone string `json:"phone"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := Service.BuyExamPin(c.Context(), userId, reqData.PinID, reqData.Phone)
	if err != nil {
		return respondPurchaseError(c, err)
	}
	return respondPurchaseResult(c, result)
}

// RequeryTransaction reconciles a pending purchase with the provider (Admin only)
func RequeryTransaction(c *fiber.Ctx) error {
	txnId, err := c.ParamsInt("id")
	if err != nil || txnId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid transaction id!", nil)
	}

	result, err := Service.RequeryTransaction(c.Context(), uint(txnId))
	if errors.Is(err, services.ErrNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Transaction not found!", nil)
	}
	if err != nil {
		return respondPurchaseError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, result.Success, result.Message, fiber.Map{
		"transaction": result.Transaction,
	})
}
