package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow-studio/internal/service"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// GetUserInfo reports the caller and what their role allows on content
// within its reach. Per-item checks still go through Classify.
func (h *UserHandler) GetUserInfo(c *fiber.Ctx) error {
	user := GetUser(c)

	return c.JSON(fiber.Map{
		"id":           user.ID,
		"role":         user.Role,
		"capabilities": service.RoleCapabilities(user.Role),
	})
}
