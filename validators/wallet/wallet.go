package walletValidator

import (
	"vtu/middleware"

	"github.com/gofiber/fiber/v2"
)

// AdjustBalance validates admin credit/debit requests
func AdjustBalance() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID uint    `json:"userId"`
			Amount float64 `json:"amount"`
			Reason string  `json:"reason"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["userId"] = "User ID is required!"
		}
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}
		if reqData.Reason == "" {
			errors["reason"] = "Reason is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAdjustBalance", reqData)
		return c.Next()
	}
}
