package server

import (
	"wiseadvice/internal/middleware"
	"wiseadvice/internal/models"
	"wiseadvice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Login       string `json:"login" validate:"required"`
	Password    string `json:"password" validate:"required"`
	ConfirmPass string `json:"confirmPass" validate:"required"`
	Email       string `json:"email" validate:"required"`
}

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required"`
}

type resetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type newPasswordRequest struct {
	NewPass string `json:"newPass" validate:"required"`
}

// Register handles POST /api/auth/register
// @Summary Register an account
// @Description Creates an unconfirmed account and issues an email confirmation token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "Registration"
// @Success 201 {object} object{message=string,token=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	_, token, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Login:       req.Login,
		Password:    req.Password,
		ConfirmPass: req.ConfirmPass,
		Email:       req.Email,
	})
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}

	resp := fiber.Map{"message": "Registration successful, please confirm your email"}
	if !s.config.IsProduction() {
		resp["token"] = token
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Credentials"
// @Success 200 {object} object{message=string,token=string}
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	token, _, err := s.authService.Login(c.UserContext(), service.LoginInput{
		Login:    req.Login,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(fiber.Map{"message": "Login successful", "token": token})
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}
	if err := s.authService.Logout(c.UserContext(), claims); err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return messageResponse(c, fiber.StatusOK, "Logged out")
}

// RequestPasswordReset handles POST /api/auth/password-reset
// @Summary Request a password reset token
// @Tags auth
// @Accept json
// @Param request body resetRequest true "Account email"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /auth/password-reset [post]
func (s *Server) RequestPasswordReset(c *fiber.Ctx) error {
	var req resetRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	token, err := s.authService.RequestPasswordReset(c.UserContext(), req.Email)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}

	resp := fiber.Map{"message": "Password reset link issued"}
	if !s.config.IsProduction() {
		resp["token"] = token
	}
	return c.JSON(resp)
}

// ResetPassword handles POST /api/auth/password-reset/:token
// @Summary Set a new password with a reset token
// @Tags auth
// @Accept json
// @Param token path string true "Reset token"
// @Param request body newPasswordRequest true "New password"
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/password-reset/{token} [post]
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var req newPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if err := s.authService.ResetPassword(c.UserContext(), c.Params("token"), req.NewPass); err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return messageResponse(c, fiber.StatusOK, "Password updated")
}

// ConfirmEmail handles GET /api/auth/confirm-email/:token
// @Summary Confirm an account email
// @Tags auth
// @Param token path string true "Confirmation token"
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/confirm-email/{token} [get]
func (s *Server) ConfirmEmail(c *fiber.Ctx) error {
	if _, err := s.authService.ConfirmEmail(c.UserContext(), c.Params("token")); err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return messageResponse(c, fiber.StatusOK, "Email confirmed")
}
