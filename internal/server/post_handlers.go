package server

import (
	"wiseadvice/internal/models"
	"wiseadvice/internal/postquery"
	"wiseadvice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Title      string `json:"title" validate:"required,max=255"`
	Content    string `json:"content" validate:"required"`
	Categories string `json:"categories" validate:"required"`
}

type updatePostRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Status   *string `json:"status" validate:"omitempty,status"`
	Category *string `json:"category"`
}

type commentRequest struct {
	Content string `json:"content" validate:"required"`
}

// listPosts parses the listing query and runs fetch with it.
func (s *Server) listPosts(c *fiber.Ctx, fetch func(p postquery.Params) (*models.PostPage, error)) error {
	p, err := listingParams(c)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	page, err := fetch(p)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(page)
}

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description Anonymous callers and members see active posts plus their own; admins see all
// @Tags posts
// @Produce json
// @Param page query int false "Page (3 posts per page)"
// @Param sort query string false "likes or date"
// @Param status query string false "active or inactive"
// @Param categories query string false "Comma separated category titles"
// @Param dateInterval query string false "start,end"
// @Success 200 {object} models.PostPage
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	return s.listPosts(c, func(p postquery.Params) (*models.PostPage, error) {
		return s.postService.ListPosts(c.UserContext(), currentUser(c), p)
	})
}

// GetMyPosts handles GET /api/user/posts
// @Summary List the caller's posts
// @Tags posts
// @Security BearerAuth
// @Success 200 {object} models.PostPage
// @Router /user/posts [get]
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	return s.listPosts(c, func(p postquery.Params) (*models.PostPage, error) {
		return s.postService.ListUserPosts(c.UserContext(), currentUser(c), p)
	})
}

// GetFavoritePosts handles GET /api/posts/favorites
// @Summary List favorite posts
// @Tags posts
// @Security BearerAuth
// @Success 200 {object} models.PostPage
// @Router /posts/favorites [get]
func (s *Server) GetFavoritePosts(c *fiber.Ctx) error {
	return s.listPosts(c, func(p postquery.Params) (*models.PostPage, error) {
		return s.postService.ListFavorites(c.UserContext(), currentUser(c), p)
	})
}

// GetSubscribedPosts handles GET /api/posts/subscriptions
// @Summary List subscribed posts
// @Tags posts
// @Security BearerAuth
// @Success 200 {object} models.PostPage
// @Router /posts/subscriptions [get]
func (s *Server) GetSubscribedPosts(c *fiber.Ctx) error {
	return s.listPosts(c, func(p postquery.Params) (*models.PostPage, error) {
		return s.postService.ListSubscriptions(c.UserContext(), currentUser(c), p)
	})
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post
// @Tags posts
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.GetPost(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(post)
}

// GetPostComments handles GET /api/posts/:id/comments
// @Summary List the top-level comments of a post
// @Tags posts
// @Param id path int true "Post ID"
// @Success 200 {array} models.Comment
// @Router /posts/{id}/comments [get]
func (s *Server) GetPostComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	comments, err := s.postService.ListComments(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(comments)
}

// GetPostCategories handles GET /api/posts/:id/categories
func (s *Server) GetPostCategories(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	cats, err := s.postService.ListCategories(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(cats)
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Security BearerAuth
// @Accept json
// @Param request body createPostRequest true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID:   currentUser(c),
		Title:      req.Title,
		Content:    req.Content,
		Categories: req.Categories,
	})
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// CreateComment handles POST /api/posts/:id/comments
// @Summary Comment on a post
// @Tags posts
// @Security BearerAuth
// @Accept json
// @Param id path int true "Post ID"
// @Param request body commentRequest true "Comment"
// @Success 200 {object} models.Comment
// @Failure 403 {object} models.ErrorResponse "Post is locked"
// @Router /posts/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req commentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		AuthorID: currentUser(c),
		PostID:   id,
		Content:  req.Content,
	})
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(comment)
}

// UpdatePost handles PATCH /api/posts/:id
// @Summary Update a post
// @Description The owner may change title and content, an admin may change status
// @Tags posts
// @Security BearerAuth
// @Accept json
// @Param id path int true "Post ID"
// @Param request body updatePostRequest true "Fields to change"
// @Success 200 {object} models.Post
// @Failure 403 {object} models.ErrorResponse
// @Router /posts/{id} [patch]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req updatePostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		ActorID:    currentUser(c),
		PostID:     id,
		Title:      req.Title,
		Content:    req.Content,
		Status:     req.Status,
		Categories: req.Category,
	})
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(post)
}

// LockPost handles PATCH /api/posts/:id/lock and /unlock
// @Summary Lock or unlock a post (admin)
// @Tags posts
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 403 {object} models.ErrorResponse
// @Router /posts/{id}/lock [patch]
// @Router /posts/{id}/unlock [patch]
func (s *Server) LockPost(locked bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}
		post, err := s.postService.SetLocked(c.UserContext(), currentUser(c), id, locked)
		if err != nil {
			return respondServiceError(c, err, fiber.StatusBadRequest)
		}
		return c.JSON(post)
	}
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Tags posts
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.postService.DeletePost(c.UserContext(), currentUser(c), id); err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return messageResponse(c, fiber.StatusOK, "Post deleted")
}

// AddFavorite handles POST /api/posts/:id/favorites
func (s *Server) AddFavorite(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	created, err := s.postService.AddFavorite(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	if created {
		return messageResponse(c, fiber.StatusCreated, "Added to favorites")
	}
	return messageResponse(c, fiber.StatusOK, "Already in favorites")
}

// RemoveFavorite handles DELETE /api/posts/:id/favorites
func (s *Server) RemoveFavorite(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.postService.RemoveFavorite(c.UserContext(), currentUser(c), id); err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return messageResponse(c, fiber.StatusOK, "Removed from favorites")
}

// Subscribe handles POST /api/posts/:id/subscribe
func (s *Server) Subscribe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.postService.Subscribe(c.UserContext(), currentUser(c), id); err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return messageResponse(c, fiber.StatusOK, "Subscribed")
}

// Unsubscribe handles DELETE /api/posts/:id/unsubscribe
func (s *Server) Unsubscribe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.postService.Unsubscribe(c.UserContext(), currentUser(c), id); err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return messageResponse(c, fiber.StatusOK, "Unsubscribed")
}

// ChooseBestComment handles PATCH /api/posts/:postId/comments/:commentId
// @Summary Mark the best comment of a post
// @Tags posts
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Param commentId path int true "Comment ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Router /posts/{postId}/comments/{commentId} [patch]
func (s *Server) ChooseBestComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	if err := s.postService.ChooseBestComment(c.UserContext(), currentUser(c), postID, commentID); err != nil {
		return respondServiceError(c, err, fiber.StatusBadRequest)
	}
	return messageResponse(c, fiber.StatusOK, "Best comment chosen")
}
