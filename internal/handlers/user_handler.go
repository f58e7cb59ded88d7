package handlers

import (
	"songvault/internal/models"
	"songvault/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler serves the logged-in user's profile.
type UserHandler struct {
	currentUser
	service  *services.UserService
	validate *validator.Validate
	log      *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, log *zap.Logger) *UserHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserHandler{
		currentUser: currentUser{users: service},
		service:     service,
		validate:    validator.New(),
		log:         log,
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/profile", h.HandleGetProfile)
	userRoutes.Put("/profile", h.HandleUpdateProfile)
}

// HandleGetProfile returns the public profile fields.
func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.CurrentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "success",
		"data":    user.Profile(),
	})
}

// UpdateProfileRequest represents the request body for a profile update.
type UpdateProfileRequest struct {
	Gender models.Gender `json:"gender" validate:"required,oneof=unknown male female"`
}

// HandleUpdateProfile changes the user's gender.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	user, err := h.CurrentUser(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	if err := h.service.UpdateGender(c.UserContext(), user.ID, req.Gender); err != nil {
		return err
	}
	h.log.Info("Profile updated", zap.String("user_id", user.ID), zap.String("gender", string(req.Gender)))
	return c.JSON(fiber.Map{"message": "success"})
}
