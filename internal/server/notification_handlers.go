package server

import (
	"wiseadvice/internal/postquery"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications
// @Summary List notifications
// @Description Unread notifications and those read within the last week, 4 per page
// @Tags notifications
// @Security BearerAuth
// @Param page query int false "Page"
// @Success 200 {object} models.NotificationPage
// @Router /notifications [get]
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	page, err := s.notificationService.List(c.UserContext(), currentUser(c), postquery.ParsePage(c.Query("page")))
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(page)
}

// MarkNotificationRead handles POST /api/notifications/:id
// @Summary Mark a notification read
// @Tags notifications
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} models.Notification
// @Failure 404 {object} models.ErrorResponse
// @Router /notifications/{id} [post]
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	n, err := s.notificationService.MarkRead(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(n)
}
