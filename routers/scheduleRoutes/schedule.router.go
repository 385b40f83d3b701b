package scheduleRoutes

import (
	scheduleController "vtu/controllers/schedule"
	"vtu/middleware"
	scheduleValidator "vtu/validators/schedule"

	"github.com/gofiber/fiber/v2"
)

func SetupScheduleRoutes(app *fiber.App) {
	scheduleGroup := app.Group("/schedule")

	scheduleGroup.Post("/create", scheduleValidator.Schedule(), middleware.JWTMiddleware, scheduleController.CreateScheduledPurchase)
	scheduleGroup.Get("/list", middleware.JWTMiddleware, scheduleController.ListScheduledPurchases)
	scheduleGroup.Put("/:id", scheduleValidator.ScheduleUpdate(), middleware.JWTMiddleware, scheduleController.UpdateScheduledPurchase)
	scheduleGroup.Delete("/:id", middleware.JWTMiddleware, scheduleController.DeleteScheduledPurchase)
}
