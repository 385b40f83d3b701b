package scheduleController

import (
	"errors"
	"strings"

	"vtu/database"
	"vtu/middleware"
	"vtu/models"
	"vtu/services"

	"github.com/gofiber/fiber/v2"
)

// CreateScheduledPurchase creates a recurring purchase
func CreateScheduledPurchase(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedSchedule").(*struct {
		ServiceType string  `json:"serviceType"`
		Network     string  `json:"network"`
		PlanID      uint    `json:"planId"`
		Amount      float64 `json:"amount"`
		Destination string  `json:"destination"`
		Frequency   string  `json:"frequency"`
		DayOfWeek   int     `json:"dayOfWeek"`
		DayOfMonth  int     `json:"dayOfMonth"`
		TimeOfDay   string  `json:"timeOfDay"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	sched := &models.ScheduledPurchase{
		UserID:      userId,
		ServiceType: models.ServiceType(strings.ToUpper(reqData.ServiceType)),
		Network:     strings.ToUpper(reqData.Network),
		PlanID:      reqData.PlanID,
		Amount:      reqData.Amount,
		Destination: reqData.Destination,
		Frequency:   models.ScheduleFrequency(strings.ToUpper(reqData.Frequency)),
		DayOfWeek:   reqData.DayOfWeek,
		DayOfMonth:  reqData.DayOfMonth,
		TimeOfDay:   reqData.TimeOfDay,
	}

	if err := services.CreateScheduledPurchase(database.Database.Db, sched); err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return middleware.ValidationErrorResponse(c, ve.Fields)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create schedule!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Scheduled purchase created!", sched)
}

// ListScheduledPurchases returns the user's schedules
func ListScheduledPurchases(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	schedules, err := services.ListScheduledPurchases(database.Database.Db, userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch schedules!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Schedules fetched!", schedules)
}

// UpdateScheduledPurchase edits timing or status of a schedule
func UpdateScheduledPurchase(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	schedId, err := c.ParamsInt("id")
	if err != nil || schedId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid schedule id!", nil)
	}

	reqData, ok := c.Locals("validatedScheduleUpdate").(*struct {
		Frequency  string  `json:"frequency"`
		DayOfWeek  *int    `json:"dayOfWeek"`
		DayOfMonth *int    `json:"dayOfMonth"`
		TimeOfDay  string  `json:"timeOfDay"`
		Amount     float64 `json:"amount"`
		Status     string  `json:"status"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	sched, err := services.UpdateScheduledPurchase(database.Database.Db, userId, uint(schedId), func(s *models.ScheduledPurchase) {
		if reqData.Frequency != "" {
			s.Frequency = models.ScheduleFrequency(strings.ToUpper(reqData.Frequency))
		}
		if reqData.DayOfWeek != nil {
			s.DayOfWeek = *reqData.DayOfWeek
		}
		if reqData.DayOfMonth != nil {
			s.DayOfMonth = *reqData.DayOfMonth
		}
		if reqData.TimeOfDay != "" {
			s.TimeOfDay = reqData.TimeOfDay
		}
		if reqData.Amount > 0 {
			s.Amount = reqData.Amount
		}
		if reqData.Status != "" {
			s.Status = models.ScheduleStatus(strings.ToUpper(reqData.Status))
		}
	})
	if errors.Is(err, services.ErrNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Schedule not found!", nil)
	}
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return middleware.ValidationErrorResponse(c, ve.Fields)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update schedule!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Schedule updated!", sched)
}

// DeleteScheduledPurchase cancels a schedule
func DeleteScheduledPurchase(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	schedId, err := c.ParamsInt("id")
	if err != nil || schedId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid schedule id!", nil)
	}

	err = services.DeleteScheduledPurchase(database.Database.Db, userId, uint(schedId))
	if errors.Is(err, services.ErrNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Schedule not found!", nil)
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete schedule!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Schedule cancelled!", nil)
}
