package server

import (
	"wiseadvice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type updateCommentRequest struct {
	Content *string `json:"content"`
	Status  *string `json:"status" validate:"omitempty,status"`
}

// GetComment handles GET /api/comments/:id
// @Summary Get a comment
// @Tags comments
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [get]
func (s *Server) GetComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	comment, err := s.commentService.GetComment(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(comment)
}

// GetReplies handles GET /api/comments/:id/replies
// @Summary List replies to a comment
// @Tags comments
// @Param id path int true "Comment ID"
// @Success 200 {array} models.Comment
// @Router /comments/{id}/replies [get]
func (s *Server) GetReplies(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	replies, err := s.commentService.ListReplies(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(replies)
}

// ReplyToComment handles POST /api/comments/:id/reply
// @Summary Reply to a comment
// @Tags comments
// @Security BearerAuth
// @Accept json
// @Param id path int true "Comment ID"
// @Param request body commentRequest true "Reply"
// @Success 200 {object} models.Comment
// @Failure 403 {object} models.ErrorResponse "Comment or post locked"
// @Router /comments/{id}/reply [post]
func (s *Server) ReplyToComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req commentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	reply, err := s.commentService.Reply(c.UserContext(), service.ReplyInput{
		AuthorID: currentUser(c),
		ParentID: id,
		Content:  req.Content,
	})
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(reply)
}

// UpdateComment handles PATCH /api/comments/:id
// @Summary Update a comment
// @Description The owner may change content, an admin may change status
// @Tags comments
// @Security BearerAuth
// @Accept json
// @Param id path int true "Comment ID"
// @Param request body updateCommentRequest true "Fields to change"
// @Success 200 {object} models.Comment
// @Router /comments/{id} [patch]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req updateCommentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	comment, err := s.commentService.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		ActorID:   currentUser(c),
		CommentID: id,
		Content:   req.Content,
		Status:    req.Status,
	})
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(comment)
}

// LockComment handles PATCH /api/comments/:id/lock and /unlock
func (s *Server) LockComment(locked bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}
		comment, err := s.commentService.SetLocked(c.UserContext(), currentUser(c), id, locked)
		if err != nil {
			return respondServiceError(c, err, fiber.StatusBadRequest)
		}
		return c.JSON(comment)
	}
}

// DeleteComment handles DELETE /api/comments/:id
// @Summary Delete a comment and its replies
// @Tags comments
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} object{message=string}
// @Router /comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.commentService.DeleteComment(c.UserContext(), currentUser(c), id); err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return messageResponse(c, fiber.StatusOK, "Comment deleted")
}
