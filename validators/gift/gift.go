package giftValidator

import (
	"strings"

	"vtu/middleware"
	"vtu/services"

	"github.com/gofiber/fiber/v2"
)

// Gift validates a gift creation request
func Gift() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			RecipientPhone string `json:"recipientPhone"`
			PlanID         uint   `json:"planId"`
			Message        string `json:"message"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.RecipientPhone = services.NormalizePhone(reqData.RecipientPhone)
		if !services.IsValidPhone(reqData.RecipientPhone) {
			errors["recipientPhone"] = "A valid Nigerian phone number is required!"
		}
		if reqData.PlanID == 0 {
			errors["planId"] = "Plan ID is required!"
		}
		if len(reqData.Message) > 200 {
			errors["message"] = "Message cannot exceed 200 characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGift", reqData)
		return c.Next()
	}
}

// GiftClaim validates a gift redemption request
func GiftClaim() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			GiftCode string `json:"giftCode"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.GiftCode = strings.ToUpper(strings.TrimSpace(reqData.GiftCode))
		if len(reqData.GiftCode) != 8 {
			errors["giftCode"] = "Gift code must be 8 characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGiftClaim", reqData)
		return c.Next()
	}
}
