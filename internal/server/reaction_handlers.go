package server

import (
	"fmt"

	"wiseadvice/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Reactions share one set of handlers per target kind. A repeated reaction
// is a CONFLICT that answers 403.

func (s *Server) react(target func(uint) models.ReactionTarget, kind models.ReactionType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}
		t := target(id)
		if err := s.reactionService.Apply(c.UserContext(), currentUser(c), t, kind); err != nil {
			return respondServiceError(c, err, fiber.StatusForbidden)
		}
		return messageResponse(c, fiber.StatusOK, fmt.Sprintf("%s added to %s", kind, t.Kind))
	}
}

func (s *Server) unreact(target func(uint) models.ReactionTarget, kind models.ReactionType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}
		t := target(id)
		if err := s.reactionService.Remove(c.UserContext(), currentUser(c), t, kind); err != nil {
			return respondServiceError(c, err, fiber.StatusForbidden)
		}
		return messageResponse(c, fiber.StatusOK, fmt.Sprintf("%s removed from %s", kind, t.Kind))
	}
}

func (s *Server) listReactions(target func(uint) models.ReactionTarget, kind models.ReactionType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}
		reactions, err := s.reactionService.ListReactions(c.UserContext(), target(id), kind)
		if err != nil {
			return respondServiceError(c, err, fiber.StatusForbidden)
		}
		return c.JSON(reactions)
	}
}

// ReactToPost handles POST /api/posts/:id/like and /dislike
// @Summary Like or dislike a post
// @Tags reactions
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse "Already reacted or post locked"
// @Router /posts/{id}/like [post]
// @Router /posts/{id}/dislike [post]
func (s *Server) ReactToPost(kind models.ReactionType) fiber.Handler {
	return s.react(models.PostTarget, kind)
}

// RemovePostReaction handles DELETE /api/posts/:id/like and /dislike
// @Summary Remove a like or dislike from a post
// @Tags reactions
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Router /posts/{id}/like [delete]
// @Router /posts/{id}/dislike [delete]
func (s *Server) RemovePostReaction(kind models.ReactionType) fiber.Handler {
	return s.unreact(models.PostTarget, kind)
}

// ListPostReactions handles GET /api/posts/:id/like and /dislike
func (s *Server) ListPostReactions(kind models.ReactionType) fiber.Handler {
	return s.listReactions(models.PostTarget, kind)
}

// ReactToComment handles POST /api/comments/:id/like and /dislike
// @Summary Like or dislike a comment
// @Tags reactions
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Router /comments/{id}/like [post]
// @Router /comments/{id}/dislike [post]
func (s *Server) ReactToComment(kind models.ReactionType) fiber.Handler {
	return s.react(models.CommentTarget, kind)
}

// RemoveCommentReaction handles DELETE /api/comments/:id/like and /dislike
func (s *Server) RemoveCommentReaction(kind models.ReactionType) fiber.Handler {
	return s.unreact(models.CommentTarget, kind)
}

// ListCommentReactions handles GET /api/comments/:id/like and /dislike
func (s *Server) ListCommentReactions(kind models.ReactionType) fiber.Handler {
	return s.listReactions(models.CommentTarget, kind)
}
