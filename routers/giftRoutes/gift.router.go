package giftRoutes

import (
	giftController "vtu/controllers/gift"
	"vtu/middleware"
	giftValidator "vtu/validators/gift"

	"github.com/gofiber/fiber/v2"
)

func SetupGiftRoutes(app *fiber.App) {
	giftGroup := app.Group("/gift")

	giftGroup.Post("/create", giftValidator.Gift(), middleware.JWTMiddleware, giftController.CreateGift)
	giftGroup.Post("/claim", giftValidator.GiftClaim(), middleware.JWTMiddleware, giftController.ClaimGift)
	giftGroup.Delete("/:id", middleware.JWTMiddleware, giftController.CancelGift)
	giftGroup.Get("/sent", middleware.JWTMiddleware, giftController.ListSentGifts)
	giftGroup.Get("/claimed", middleware.JWTMiddleware, giftController.ListClaimedGifts)
}
