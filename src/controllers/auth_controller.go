package controllers

import (
	"github.com/gofiber/fiber/v2"

	"employee-feedback/src/middleware"
	"employee-feedback/src/models"
	"employee-feedback/src/services/auth"
	"employee-feedback/src/utils"
)

// AuthController serves the /auth endpoints.
type AuthController struct {
	auth *auth.Service
}

func NewAuthController(authService *auth.Service) *AuthController {
	return &AuthController{auth: authService}
}

// Login godoc
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body      models.LoginRequest  true  "Credentials"
// @Success      200  {object}  models.LoginResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      401  {object}  models.ErrorResponse
// @Failure      429  {object}  models.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.NewValidationError("Username and password are required", nil)
	}

	session, err := h.auth.Login(c.UserContext(), req)
	if err != nil {
		return err
	}

	c.Set("X-Frame-Options", "DENY")
	c.Set("X-Content-Type-Options", "nosniff")
	return c.JSON(models.LoginResponse{
		Success:   true,
		Message:   "Login successful",
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Admin:     session.Admin,
	})
}

// Logout godoc
// @Summary      Admin logout
// @Description  Revokes the bearer token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.SessionResponse
// @Failure      401  {object}  models.ErrorResponse
// @Router       /auth/logout [post]
func (h *AuthController) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return utils.NewUnauthorized("No token provided")
	}
	if err := h.auth.Logout(c.UserContext(), claims); err != nil {
		return err
	}
	return c.JSON(models.SessionResponse{Success: true, Message: "Logout successful"})
}

// Verify godoc
// @Summary      Verify admin token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.SessionResponse
// @Failure      401  {object}  models.ErrorResponse
// @Router       /auth/verify [get]
func (h *AuthController) Verify(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return utils.NewUnauthorized("No token provided")
	}
	admin := claims.Principal()
	return c.JSON(models.SessionResponse{Success: true, Message: "Token is valid", Admin: &admin})
}
