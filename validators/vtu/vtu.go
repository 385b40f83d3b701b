package vtuValidator

import (
	"strings"

	"vtu/middleware"
	"vtu/services"

	"github.com/gofiber/fiber/v2"
)

// DataPurchase validates a data bundle purchase request
func DataPurchase() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			PlanID uint   `json:"planId"`
			Phone  string `json:"phone"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.PlanID == 0 {
			errors["planId"] = "Plan ID is required!"
		}
		reqData.Phone = services.NormalizePhone(reqData.Phone)
		if !services.IsValidPhone(reqData.Phone) {
			errors["phone"] = "A valid Nigerian phone number is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedDataPurchase", reqData)
		return c.Next()
	}
}

// AirtimePurchase validates an airtime purchase request
func AirtimePurchase() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Network string  `json:"network"`
			Amount  float64 `json:"amount"`
			Phone   string  `json:"phone"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Network != "" && !services.IsValidNetwork(reqData.Network) {
			errors["network"] = "Network must be one of MTN, GLO, AIRTEL, 9MOBILE!"
		}
		if reqData.Amount < 50 || reqData.Amount > 50000 {
			errors["amount"] = "Amount must be between 50 and 50000!"
		}
		reqData.Phone = services.NormalizePhone(reqData.Phone)
		if !services.IsValidPhone(reqData.Phone) {
			errors["phone"] = "A valid Nigerian phone number is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAirtimePurchase", reqData)
		return c.Next()
	}
}

// BulkAirtime validates a bulk airtime request. Per-item checks run in the
// service so a failure can name the offending number.
func BulkAirtime() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Items []services.BulkAirtimeItem `json:"items"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.Items) == 0 {
			errors["items"] = "At least one recipient is required!"
		}
		if len(reqData.Items) > 50 {
			errors["items"] = "A maximum of 50 recipients is allowed per batch!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBulkAirtime", reqData)
		return c.Next()
	}
}

// CablePurchase validates a cable TV renewal request
func CablePurchase() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			PlanID    uint   `json:"planId"`
			Smartcard string `json:"smartcard"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.PlanID == 0 {
			errors["planId"] = "Plan ID is required!"
		}
		reqData.Smartcard = strings.TrimSpace(reqData.Smartcard)
		if len(reqData.Smartcard) < 10 || len(reqData.Smartcard) > 12 {
			errors["smartcard"] = "Smartcard number must be 10 to 12 digits!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCablePurchase", reqData)
		return c.Next()
	}
}

// CustomerLookup validates a smartcard/meter verification request
func CustomerLookup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ServiceID  string `json:"serviceId"`
			Identifier string `json:"identifier"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.ServiceID == "" {
			errors["serviceId"] = "Service ID is required!"
		}
		reqData.Identifier = strings.TrimSpace(reqData.Identifier)
		if reqData.Identifier == "" {
			errors["identifier"] = "Smartcard or meter number is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCustomerLookup", reqData)
		return c.Next()
	}
}

// ElectricityPurchase validates an electricity token request
func ElectricityPurchase() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Disco     string  `json:"disco"`
			MeterType string  `json:"meterType"`
			Meter     string  `json:"meter"`
			Amount    float64 `json:"amount"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Disco == "" {
			errors["disco"] = "Distribution company is required!"
		}
		meterType := strings.ToLower(reqData.MeterType)
		if meterType != "prepaid" && meterType != "postpaid" {
			errors["meterType"] = "Meter type must be prepaid or postpaid!"
		}
		reqData.Meter = strings.TrimSpace(reqData.Meter)
		if len(reqData.Meter) < 10 || len(reqData.Meter) > 13 {
			errors["meter"] = "Meter number must be 10 to 13 digits!"
		}
		if reqData.Amount < 500 || reqData.Amount > 100000 {
			errors["amount"] = "Amount must be between 500 and 100000!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedElectricityPurchase", reqData)
		return c.Next()
	}
}

// ExamPinPurchase validates an exam pin purchase request
func ExamPinPurchase() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			PinID uint   `json:"pinId"`
			Phone string `json:"phone"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.PinID == 0 {
			errors["pinId"] = "Pin ID is required!"
		}
		reqData.Phone = services.NormalizePhone(reqData.Phone)
		if !services.IsValidPhone(reqData.Phone) {
			errors["phone"] = "A valid Nigerian phone number is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedExamPinPurchase", reqData)
		return c.Next()
	}
}
