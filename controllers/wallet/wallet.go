package walletController

import (
	"time"

	"vtu/database"
	"vtu/middleware"
	"vtu/models"
	"vtu/services"

	"github.com/gofiber/fiber/v2"
)

// GetWalletBalance returns the user's current wallet balance
func GetWalletBalance(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	wallet, err := services.GetOrCreateWallet(database.Database.Db, userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch wallet!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet balance fetched!", fiber.Map{
		"balance":       wallet.Balance,
		"escrowBalance": wallet.EscrowBalance,
		"totalEarned":   wallet.TotalEarned,
		"totalSpent":    wallet.TotalSpent,
		"currency":      "NGN",
	})
}

// GetTransactionHistory returns the user's ledger entries
func GetTransactionHistory(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	filter := services.TransactionFilter{
		Type:        models.TransactionType(c.Query("type")),
		Status:      models.TransactionStatus(c.Query("status")),
		ServiceType: models.ServiceType(c.Query("service")),
		Page:        c.QueryInt("page", 1),
		Limit:       c.QueryInt("limit", 10),
	}

	transactions, total, err := services.ListTransactions(database.Database.Db, userId, filter)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	wallet, _ := services.GetOrCreateWallet(database.Database.Db, userId)
	currentBalance := 0.0
	if wallet != nil {
		currentBalance = wallet.Balance
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction history fetched!", fiber.Map{
		"transactions":   transactions,
		"currentBalance": currentBalance,
		"pagination": fiber.Map{
			"total": total,
			"page":  filter.Page,
			"limit": filter.Limit,
		},
	})
}

// GetRewards returns the user's loyalty account and recent accruals
func GetRewards(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	account, err := services.GetOrCreateRewardAccount(database.Database.Db, userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch rewards!", nil)
	}
	entries, _ := services.ListRewardEntries(database.Database.Db, userId, 20)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rewards fetched!", fiber.Map{
		"points":         account.Points,
		"lifetimePoints": account.LifetimePoints,
		"tier":           account.Tier,
		"history":        entries,
	})
}

// AddBalance credits a user's wallet (Admin only)
func AddBalance(c *fiber.Ctx) error {
	admin := c.Locals("adminUser").(*models.User)

	reqData, ok := c.Locals("validatedAdjustBalance").(*struct {
		UserID uint    `json:"userId"`
		Amount float64 `json:"amount"`
		Reason string  `json:"reason"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var targetUser models.User
	if err := db.Where("id = ? AND is_deleted = false", reqData.UserID).First(&targetUser).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	wallet, err := services.CreditWallet(db, reqData.UserID, reqData.Amount, false)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add balance!", nil)
	}

	txn := &models.Transaction{
		WalletID:        wallet.ID,
		UserID:          reqData.UserID,
		Type:            models.TransactionTypeAdminCredit,
		Amount:          reqData.Amount,
		Status:          models.TransactionStatusCompleted,
		BalanceBefore:   wallet.Balance - reqData.Amount,
		BalanceAfter:    wallet.Balance,
		Description:     "Admin credit: " + reqData.Reason,
		AdminID:         admin.ID,
		Reason:          reqData.Reason,
		TransactionDate: time.Now(),
	}
	if err := services.RecordTransaction(db, txn); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record transaction!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Balance added successfully!", fiber.Map{
		"transactionId": txn.ID,
		"userId":        reqData.UserID,
		"amountAdded":   reqData.Amount,
		"newBalance":    wallet.Balance,
		"reason":        reqData.Reason,
		"addedBy":       admin.Name,
	})
}

// DeductBalance debits a user's wallet (Admin only)
func DeductBalance(c *fiber.Ctx) error {
	admin := c.Locals("adminUser").(*models.User)

	reqData, ok := c.Locals("validatedAdjustBalance").(*struct {
		UserID uint    `json:"userId"`
		Amount float64 `json:"amount"`
		Reason string  `json:"reason"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var targetUser models.User
	if err := db.Where("id = ? AND is_deleted = false", reqData.UserID).First(&targetUser).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	wallet, err := services.DebitWallet(db, reqData.UserID, reqData.Amount)
	if err == services.ErrInsufficientFunds {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Insufficient balance to deduct!", nil)
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to deduct balance!", nil)
	}

	txn := &models.Transaction{
		WalletID:        wallet.ID,
		UserID:          reqData.UserID,
		Type:            models.TransactionTypeAdminDebit,
		Amount:          -reqData.Amount,
		Status:          models.TransactionStatusCompleted,
		BalanceBefore:   wallet.Balance + reqData.Amount,
		BalanceAfter:    wallet.Balance,
		Description:     "Admin debit: " + reqData.Reason,
		AdminID:         admin.ID,
		Reason:          reqData.Reason,
		TransactionDate: time.Now(),
	}
	if err := services.RecordTransaction(db, txn); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record transaction!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Balance deducted successfully!", fiber.Map{
		"transactionId":  txn.ID,
		"userId":         reqData.UserID,
		"amountDeducted": reqData.Amount,
		"newBalance":     wallet.Balance,
		"reason":         reqData.Reason,
		"deductedBy":     admin.Name,
	})
}

// GetUserBalance returns a specific user's balance (Admin only)
func GetUserBalance(c *fiber.Ctx) error {
	targetUserId := c.QueryInt("userId", 0)
	if targetUserId == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "userId is required!", nil)
	}

	db := database.Database.Db

	var targetUser models.User
	if err := db.Where("id = ? AND is_deleted = false", targetUserId).First(&targetUser).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	wallet, err := services.GetOrCreateWallet(db, uint(targetUserId))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch wallet!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User balance fetched!", fiber.Map{
		"userId":   targetUser.ID,
		"name":     targetUser.Name,
		"email":    targetUser.Email,
		"balance":  wallet.Balance,
		"currency": "NGN",
	})
}
