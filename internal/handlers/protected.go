package handlers

import (
	"errors"

	"songvault/internal/middleware"
	"songvault/internal/models"
	"songvault/internal/repositories"
	"songvault/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Protected is implemented by every handler that serves routes requiring a
// logged-in user. Each such route must call CurrentUser before doing any work;
// the auth middleware itself lets unauthenticated requests through.
type Protected interface {
	CurrentUser(c *fiber.Ctx) (*models.User, error)
}

var (
	errNotLoggedIn  = fiber.NewError(fiber.StatusUnauthorized, "not logged in")
	errUserNotFound = fiber.NewError(fiber.StatusNotFound, "user not found")
)

// currentUser resolves the verified subject to a stored user. It is embedded
// by protected handlers.
type currentUser struct {
	users *services.UserService
}

// CurrentUser returns the logged-in user, a 401 error when the request carries
// no verified subject, or a 404 error when the subject no longer exists.
func (u currentUser) CurrentUser(c *fiber.Ctx) (*models.User, error) {
	subject, ok := middleware.Subject(c)
	if !ok {
		return nil, errNotLoggedIn
	}

	user, err := u.users.GetUserByID(c.UserContext(), subject)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errUserNotFound
		}
		return nil, err
	}
	return user, nil
}

var (
	_ Protected = (*UserHandler)(nil)
	_ Protected = (*ResourceHandler)(nil)
)
