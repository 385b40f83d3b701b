package middleware

import (
	"vtu/database"
	"vtu/models"

	"github.com/gofiber/fiber/v2"
)

// AdminOnly ensures the authenticated user has an admin role before the
// handler runs. The admin user is stored in Locals for audit fields.
func AdminOnly(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
	}

	var admin models.User
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = false AND role IN ?", userID, []string{"ADMIN", "SUPER-ADMIN"}).
		First(&admin).Error; err != nil {
		return JsonResponse(c, fiber.StatusForbidden, false, "Access Denied! Admin role required.", nil)
	}

	c.Locals("adminUser", &admin)
	return c.Next()
}
