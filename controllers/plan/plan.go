package planController

import (
	"errors"

	"vtu/database"
	"vtu/middleware"
	"vtu/models"
	"vtu/services"

	"github.com/gofiber/fiber/v2"
)

// ListDataPlans returns active data plans, optionally filtered by network
func ListDataPlans(c *fiber.Ctx) error {
	plans, err := services.ListDataPlans(database.Database.Db, c.Query("network"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch plans!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Data plans fetched!", plans)
}

// ListCablePlans returns active cable plans, optionally filtered by provider
func ListCablePlans(c *fiber.Ctx) error {
	plans, err := services.ListCablePlans(database.Database.Db, c.Query("provider"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch plans!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Cable plans fetched!", plans)
}

// ListExamPins returns active exam pin types
func ListExamPins(c *fiber.Ctx) error {
	pins, err := services.ListExamPins(database.Database.Db)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch exam pins!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam pins fetched!", pins)
}

// UpsertDataPlan creates or updates a data plan (Admin only)
func UpsertDataPlan(c *fiber.Ctx) error {
	admin := c.Locals("adminUser").(*models.User)

	reqData, ok := c.Locals("validatedDataPlan").(*struct {
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
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	plan := &models.DataPlan{
		Network:      reqData.Network,
		PlanCode:     reqData.PlanCode,
		Name:         reqData.Name,
		DataAmount:   reqData.DataAmount,
		Validity:     reqData.Validity,
		CostPrice:    reqData.CostPrice,
		SellingPrice: reqData.SellingPrice,
		IsActive:     true,
	}
	plan.ID = reqData.ID
	if reqData.IsActive != nil {
		plan.IsActive = *reqData.IsActive
	}

	if err := services.UpsertDataPlan(database.Database.Db, admin.ID, plan); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save plan!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Data plan saved!", plan)
}

// UpsertCablePlan creates or updates a cable plan (Admin only)
func UpsertCablePlan(c *fiber.Ctx) error {
	admin := c.Locals("adminUser").(*models.User)

	reqData, ok := c.Locals("validatedCablePlan").(*struct {
		ID           uint    `json:"id"`
		Provider     string  `json:"provider"`
		PlanCode     string  `json:"planCode"`
		Name         string  `json:"name"`
		CostPrice    float64 `json:"costPrice"`
		SellingPrice float64 `json:"sellingPrice"`
		Months       int     `json:"months"`
		IsActive     *bool   `json:"isActive"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	plan := &models.CablePlan{
		Provider:     reqData.Provider,
		PlanCode:     reqData.PlanCode,
		Name:         reqData.Name,
		CostPrice:    reqData.CostPrice,
		SellingPrice: reqData.SellingPrice,
		Months:       reqData.Months,
		IsActive:     true,
	}
	plan.ID = reqData.ID
	if plan.Months < 1 {
		plan.Months = 1
	}
	if reqData.IsActive != nil {
		plan.IsActive = *reqData.IsActive
	}

	if err := services.UpsertCablePlan(database.Database.Db, admin.ID, plan); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save plan!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Cable plan saved!", plan)
}

// UpsertExamPin creates or updates an exam pin type (Admin only)
func UpsertExamPin(c *fiber.Ctx) error {
	admin := c.Locals("adminUser").(*models.User)

	reqData, ok := c.Locals("validatedExamPin").(*struct {
		ID           uint    `json:"id"`
		ExamType     string  `json:"examType"`
		PlanCode     string  `json:"planCode"`
		Name         string  `json:"name"`
		CostPrice    float64 `json:"costPrice"`
		SellingPrice float64 `json:"sellingPrice"`
		IsActive     *bool   `json:"isActive"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	pin := &models.ExamPin{
		ExamType:     reqData.ExamType,
		PlanCode:     reqData.PlanCode,
		Name:         reqData.Name,
		CostPrice:    reqData.CostPrice,
		SellingPrice: reqData.SellingPrice,
		IsActive:     true,
	}
	pin.ID = reqData.ID
	if reqData.IsActive != nil {
		pin.IsActive = *reqData.IsActive
	}

	if err := services.UpsertExamPin(database.Database.Db, admin.ID, pin); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save exam pin!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam pin saved!", pin)
}

// DeleteDataPlan soft-deletes a data plan (Admin only)
func DeleteDataPlan(c *fiber.Ctx) error {
	admin := c.Locals("adminUser").(*models.User)

	planId, err := c.ParamsInt("id")
	if err != nil || planId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid plan id!", nil)
	}

	err = services.DeleteDataPlan(database.Database.Db, admin.ID, uint(planId))
	if errors.Is(err, services.ErrNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Plan not found!", nil)
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete plan!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Data plan deleted!", nil)
}
