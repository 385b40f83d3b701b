package vtuRoutes

import (
	vtuController "vtu/controllers/vtu"
	"vtu/middleware"
	vtuValidator "vtu/validators/vtu"

	"github.com/gofiber/fiber/v2"
)

func SetupVtuRoutes(app *fiber.App) {
	vtuGroup := app.Group("/vtu")

	vtuGroup.Post("/data", vtuValidator.DataPurchase(), middleware.JWTMiddleware, vtuController.PurchaseData)
	vtuGroup.Post("/airtime", vtuValidator.AirtimePurchase(), middleware.JWTMiddleware, vtuController.PurchaseAirtime)
	vtuGroup.Post("/airtime/bulk", vtuValidator.BulkAirtime(), middleware.JWTMiddleware, vtuController.BulkPurchaseAirtime)
	vtuGroup.Post("/cable", vtuValidator.CablePurchase(), middleware.JWTMiddleware, vtuController.PayCableTV)
	vtuGroup.Post("/cable/verify", vtuValidator.CustomerLookup(), middleware.JWTMiddleware, vtuController.ValidateCustomer)
	vtuGroup.Post("/electricity", vtuValidator.ElectricityPurchase(), middleware.JWTMiddleware, vtuController.PayElectricity)
	vtuGroup.Post("/electricity/verify", vtuValidator.CustomerLookup(), middleware.JWTMiddleware, vtuController.ValidateCustomer)
	vtuGroup.Post("/exam-pin", vtuValidator.ExamPinPurchase(), middleware.JWTMiddleware, vtuController.BuyExamPin)

	// Admin routes
	adminGroup := vtuGroup.Group("/admin")
	adminGroup.Post("/requery/:id", middleware.JWTMiddleware, middleware.AdminOnly, vtuController.RequeryTransaction)
}
