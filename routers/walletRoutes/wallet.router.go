package walletRoutes

import (
	walletController "vtu/controllers/wallet"
	"vtu/middleware"
	walletValidator "vtu/validators/wallet"

	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(app *fiber.App) {
	walletGroup := app.Group("/wallet")

	// User routes
	walletGroup.Get("/balance", middleware.JWTMiddleware, walletController.GetWalletBalance)
	walletGroup.Get("/history", middleware.JWTMiddleware, walletController.GetTransactionHistory)
	walletGroup.Get("/rewards", middleware.JWTMiddleware, walletController.GetRewards)

	// Admin routes
	adminGroup := walletGroup.Group("/admin")
	adminGroup.Post("/add-balance", walletValidator.AdjustBalance(), middleware.JWTMiddleware, middleware.AdminOnly, walletController.AddBalance)
	adminGroup.Post("/deduct-balance", walletValidator.AdjustBalance(), middleware.JWTMiddleware, middleware.AdminOnly, walletController.DeductBalance)
	adminGroup.Get("/user-balance", middleware.JWTMiddleware, middleware.AdminOnly, walletController.GetUserBalance)
}
