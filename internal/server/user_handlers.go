package server

import (
	"wiseadvice/internal/models"
	"wiseadvice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createUserRequest struct {
	Login    string `json:"login" validate:"required,login"`
	Password string `json:"password" validate:"required,password"`
	Email    string `json:"email" validate:"required,email,max=254"`
	FullName string `json:"full_name" validate:"max=128"`
	Role     string `json:"role" validate:"omitempty,role"`
}

type updateUserRequest struct {
	Login    *string `json:"login"`
	Email    *string `json:"email"`
	FullName *string `json:"full_name" validate:"omitempty,max=128"`
	Password *string `json:"password"`
	Avatar   *string `json:"avatar" validate:"omitempty,max=255"`
	Role     *string `json:"role"`
}

// ListUsers handles GET /api/users
// @Summary List users
// @Tags users
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 403 {object} models.ErrorResponse
// @Router /users [get]
func (s *Server) ListUsers(c *fiber.Ctx) error {
	users, err := s.userService.ListUsers(c.UserContext(), currentUser(c))
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(users)
}

// GetUser handles GET /api/users/:id
// @Summary Get a user
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.userService.GetUser(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(user)
}

// CreateUser handles POST /api/users
// @Summary Create a user (admin)
// @Tags users
// @Security BearerAuth
// @Accept json
// @Param request body createUserRequest true "User"
// @Success 201 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /users [post]
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	user, err := s.userService.CreateUser(c.UserContext(), currentUser(c), service.CreateUserInput{
		Login:    req.Login,
		Password: req.Password,
		Email:    req.Email,
		FullName: req.FullName,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateUser handles PATCH /api/users/:id
// @Summary Update a user
// @Description Users may edit themselves; admins may edit anyone and change roles
// @Tags users
// @Security BearerAuth
// @Accept json
// @Param id path int true "User ID"
// @Param request body updateUserRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 403 {object} models.ErrorResponse
// @Router /users/{id} [patch]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req updateUserRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	user, err := s.userService.UpdateUser(c.UserContext(), service.UpdateUserInput{
		ActorID:  currentUser(c),
		UserID:   id,
		Login:    req.Login,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		Avatar:   req.Avatar,
		Role:     req.Role,
	})
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/users/:id
// @Summary Delete a user (admin)
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object{message=string}
// @Router /users/{id} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.userService.DeleteUser(c.UserContext(), currentUser(c), id); err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return messageResponse(c, fiber.StatusOK, "User deleted")
}
