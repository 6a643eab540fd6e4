package server

import (
	"wiseadvice/internal/models"
	"wiseadvice/internal/postquery"
	"wiseadvice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type categoryRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=64"`
	Description *string `json:"description"`
}

// ListCategories handles GET /api/categories
// @Summary List categories
// @Tags categories
// @Success 200 {array} models.Category
// @Router /categories [get]
func (s *Server) ListCategories(c *fiber.Ctx) error {
	cats, err := s.categoryService.ListCategories(c.UserContext())
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(cats)
}

// GetCategory handles GET /api/categories/:id
func (s *Server) GetCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	cat, err := s.categoryService.GetCategory(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(cat)
}

// GetCategoryPosts handles GET /api/categories/:id/posts
// @Summary List the posts of a category
// @Tags categories
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} models.PostPage
// @Router /categories/{id}/posts [get]
func (s *Server) GetCategoryPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	return s.listPosts(c, func(p postquery.Params) (*models.PostPage, error) {
		return s.postService.ListByCategory(c.UserContext(), currentUser(c), id, p)
	})
}

// CreateCategory handles POST /api/categories
// @Summary Create a category (admin)
// @Tags categories
// @Security BearerAuth
// @Accept json
// @Param request body categoryRequest true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} models.ErrorResponse "Invalid or duplicate title"
// @Router /categories [post]
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	cat, err := s.categoryService.CreateCategory(c.UserContext(), currentUser(c), service.CategoryInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.Status(fiber.StatusCreated).JSON(cat)
}

// UpdateCategory handles PATCH /api/categories/:id
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req categoryRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	cat, err := s.categoryService.UpdateCategory(c.UserContext(), currentUser(c), id, service.CategoryInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(cat)
}

// DeleteCategory handles DELETE /api/categories/:id
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.categoryService.DeleteCategory(c.UserContext(), currentUser(c), id); err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return messageResponse(c, fiber.StatusOK, "Category deleted")
}
