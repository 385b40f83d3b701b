package giftController

import (
	"errors"

	"vtu/middleware"
	"vtu/services"

	"github.com/gofiber/fiber/v2"
)

// Service is the gift engine, wired in main
var Service *services.GiftService

// Init sets the gift service used by the handlers
func Init(service *services.GiftService) {
	Service = service
}

// CreateGift debits the sender and issues a redemption code
func CreateGift(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedGift").(*struct {
		RecipientPhone string `json:"recipientPhone"`
		PlanID         uint   `json:"planId"`
		Message        string `json:"message"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	gift, err := Service.CreateGift(userId, reqData.RecipientPhone, reqData.PlanID, reqData.Message)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return middleware.ValidationErrorResponse(c, ve.Fields)
		}
		if errors.Is(err, services.ErrInsufficientFunds) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
				"Insufficient wallet balance! You were not charged.", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create gift!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Gift created!", gift)
}

// ClaimGift redeems a gift code
func ClaimGift(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedGiftClaim").(*struct {
		GiftCode string `json:"giftCode"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := Service.ClaimGift(c.Context(), reqData.GiftCode, userId)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return middleware.ValidationErrorResponse(c, ve.Fields)
		}
		if errors.Is(err, services.ErrServiceUnavailable) {
			return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false,
				"Service temporarily unavailable! The gift is still claimable.", nil)
		}
		if errors.Is(err, services.ErrPurchaseFailed) {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false,
				"Gift delivery failed. The sender has been refunded.", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to claim gift!", nil)
	}

	if !result.Success {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, result.Message, nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, result.Message, fiber.Map{
		"providerReference": result.ProviderReference,
	})
}

// CancelGift cancels an unclaimed gift and refunds the sender
func CancelGift(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	giftId, err := c.ParamsInt("id")
	if err != nil || giftId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid gift id!", nil)
	}

	err = Service.CancelGift(userId, uint(giftId))
	if errors.Is(err, services.ErrNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Gift not found!", nil)
	}
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return middleware.ValidationErrorResponse(c, ve.Fields)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to cancel gift!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Gift cancelled and refunded to wallet!", nil)
}

// ListSentGifts returns gifts created by the user
func ListSentGifts(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	gifts, err := Service.ListSentGifts(userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch gifts!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sent gifts fetched!", gifts)
}

// ListClaimedGifts returns gifts the user has claimed
func ListClaimedGifts(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	gifts, err := Service.ListClaimedGifts(userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch gifts!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Claimed gifts fetched!", gifts)
}
