package planRoutes

import (
	planController "vtu/controllers/plan"
	"vtu/middleware"
	planValidator "vtu/validators/plan"

	"github.com/gofiber/fiber/v2"
)

func SetupPlanRoutes(app *fiber.App) {
	planGroup := app.Group("/plans")

	// Public catalogue
	planGroup.Get("/data", planController.ListDataPlans)
	planGroup.Get("/cable", planController.ListCablePlans)
	planGroup.Get("/exam-pins", planController.ListExamPins)

	// Admin routes
	adminGroup := planGroup.Group("/admin")
	adminGroup.Post("/data", planValidator.DataPlan(), middleware.JWTMiddleware, middleware.AdminOnly, planController.UpsertDataPlan)
	adminGroup.Delete("/data/:id", middleware.JWTMiddleware, middleware.AdminOnly, planController.DeleteDataPlan)
	adminGroup.Post("/cable", planValidator.CablePlan(), middleware.JWTMiddleware, middleware.AdminOnly, planController.UpsertCablePlan)
	adminGroup.Post("/exam-pins", planValidator.ExamPin(), middleware.JWTMiddleware, middleware.AdminOnly, planController.UpsertExamPin)
}
