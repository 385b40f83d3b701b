package scheduleValidator

import (
	"strings"

	"vtu/middleware"
	"vtu/services"

	"github.com/gofiber/fiber/v2"
)

// Schedule validates a scheduled purchase creation request
func Schedule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
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

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		serviceType := strings.ToUpper(reqData.ServiceType)
		if serviceType != "DATA" && serviceType != "AIRTIME" {
			errors["serviceType"] = "Service type must be DATA or AIRTIME!"
		}
		if serviceType == "DATA" && reqData.PlanID == 0 {
			errors["planId"] = "Plan ID is required for data schedules!"
		}
		if serviceType == "AIRTIME" && (reqData.Amount < 50 || reqData.Amount > 50000) {
			errors["amount"] = "Amount must be between 50 and 50000!"
		}
		reqData.Destination = services.NormalizePhone(reqData.Destination)
		if !services.IsValidPhone(reqData.Destination) {
			errors["destination"] = "A valid Nigerian phone number is required!"
		}

		frequency := strings.ToUpper(reqData.Frequency)
		switch frequency {
		case "DAILY":
		case "WEEKLY":
			if reqData.DayOfWeek < 0 || reqData.DayOfWeek > 6 {
				errors["dayOfWeek"] = "Day of week must be between 0 (Sunday) and 6 (Saturday)!"
			}
		case "MONTHLY":
			if reqData.DayOfMonth < 1 || reqData.DayOfMonth > 31 {
				errors["dayOfMonth"] = "Day of month must be between 1 and 31!"
			}
		default:
			errors["frequency"] = "Frequency must be DAILY, WEEKLY or MONTHLY!"
		}

		if _, _, err := services.ParseTimeOfDay(reqData.TimeOfDay); err != nil {
			errors["timeOfDay"] = "Time of day must be in HH:MM format!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSchedule", reqData)
		return c.Next()
	}
}

// ScheduleUpdate validates a schedule edit request
func ScheduleUpdate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Frequency  string  `json:"frequency"`
			DayOfWeek  *int    `json:"dayOfWeek"`
			DayOfMonth *int    `json:"dayOfMonth"`
			TimeOfDay  string  `json:"timeOfDay"`
			Amount     float64 `json:"amount"`
			Status     string  `json:"status"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Frequency != "" {
			frequency := strings.ToUpper(reqData.Frequency)
			if frequency != "DAILY" && frequency != "WEEKLY" && frequency != "MONTHLY" {
				errors["frequency"] = "Frequency must be DAILY, WEEKLY or MONTHLY!"
			}
		}
		if reqData.DayOfWeek != nil && (*reqData.DayOfWeek < 0 || *reqData.DayOfWeek > 6) {
			errors["dayOfWeek"] = "Day of week must be between 0 (Sunday) and 6 (Saturday)!"
		}
		if reqData.DayOfMonth != nil && (*reqData.DayOfMonth < 1 || *reqData.DayOfMonth > 31) {
			errors["dayOfMonth"] = "Day of month must be between 1 and 31!"
		}
		if reqData.TimeOfDay != "" {
			if _, _, err := services.ParseTimeOfDay(reqData.TimeOfDay); err != nil {
				errors["timeOfDay"] = "Time of day must be in HH:MM format!"
			}
		}
		if reqData.Amount < 0 {
			errors["amount"] = "Amount cannot be negative!"
		}
		if reqData.Status != "" {
			status := strings.ToUpper(reqData.Status)
			if status != "ACTIVE" && status != "PAUSED" && status != "CANCELLED" {
				errors["status"] = "Status must be ACTIVE, PAUSED or CANCELLED!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedScheduleUpdate", reqData)
		return c.Next()
	}
}
