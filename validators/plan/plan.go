package planValidator

import (
	"vtu/middleware"
	"vtu/services"

	"github.com/gofiber/fiber/v2"
)

// DataPlan validates an admin data plan upsert request
func DataPlan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ID           uint    `json:"id"`
			Network      string  `json:"network"`
			PlanCode     string  `json:"planCode"`
			Name         string  `json:"name"`
			DataAmount   string  `json:"dataAmount"`
			Validity     string  `json:"validity"`
			CostPrice    float64 `json:"costPrice"`
			SellingPrice float64 `json:"sellingPrice"`
			IsActive     *bool   `json:"isActive"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if !services.IsValidNetwork(reqData.Network) {
			errors["network"] = "Network must be one of MTN, GLO, AIRTEL, 9MOBILE!"
		}
		if reqData.PlanCode == "" {
			errors["planCode"] = "Plan code is required!"
		}
		if reqData.Name == "" {
			errors["name"] = "Plan name is required!"
		}
		if reqData.CostPrice <= 0 {
			errors["costPrice"] = "Cost price must be greater than 0!"
		}
		if reqData.SellingPrice <= 0 {
			errors["sellingPrice"] = "Selling price must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedDataPlan", reqData)
		return c.Next()
	}
}

// CablePlan validates an admin cable plan upsert request
func CablePlan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ID           uint    `json:"id"`
			Provider     string  `json:"provider"`
			PlanCode     string  `json:"planCode"`
			Name         string  `json:"name"`
			CostPrice    float64 `json:"costPrice"`
			SellingPrice float64 `json:"sellingPrice"`
			Months       int     `json:"months"`
			IsActive     *bool   `json:"isActive"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Provider == "" {
			errors["provider"] = "Provider is required!"
		}
		if reqData.PlanCode == "" {
			errors["planCode"] = "Plan code is required!"
		}
		if reqData.Name == "" {
			errors["name"] = "Plan name is required!"
		}
		if reqData.CostPrice <= 0 {
			errors["costPrice"] = "Cost price must be greater than 0!"
		}
		if reqData.SellingPrice <= 0 {
			errors["sellingPrice"] = "Selling price must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCablePlan", reqData)
		return c.Next()
	}
}

// ExamPin validates an admin exam pin upsert request
func ExamPin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ID           uint    `json:"id"`
			ExamType     string  `json:"examType"`
			PlanCode     string  `json:"planCode"`
			Name         string  `json:"name"`
			CostPrice    float64 `json:"costPrice"`
			SellingPrice float64 `json:"sellingPrice"`
			IsActive     *bool   `json:"isActive"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.ExamType == "" {
			errors["examType"] = "Exam type is required!"
		}
		if reqData.PlanCode == "" {
			errors["planCode"] = "Plan code is required!"
		}
		if reqData.Name == "" {
			errors["name"] = "Name is required!"
		}
		if reqData.CostPrice <= 0 {
			errors["costPrice"] = "Cost price must be greater than 0!"
		}
		if reqData.SellingPrice <= 0 {
			errors["sellingPrice"] = "Selling price must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedExamPin", reqData)
		return c.Next()
	}
}
