package service

import (
	"context"
	"fmt"
	"strings"

	"wiseadvice/internal/models"
	"wiseadvice/internal/repository"
)

const maxCommentLen = 10000

// CommentService implements comments, reply threads and comment moderation.
type CommentService struct {
	repos         *repository.Repositories
	auth          *Authorizer
	reactions     *ReactionService
	notifications *NotificationService
}

type CreateCommentInput struct {
	AuthorID uint
	PostID   uint
	Content  string
}

type ReplyInput struct {
	AuthorID uint
	ParentID uint
	Content  string
}

type UpdateCommentInput struct {
	ActorID   uint
	CommentID uint
	Content   *string
	Status    *string
}

func NewCommentService(
	repos *repository.Repositories,
	auth *Authorizer,
	reactions *ReactionService,
	notifications *NotificationService,
) *CommentService {
	return &CommentService{
		repos:         repos,
		auth:          auth,
		reactions:     reactions,
		notifications: notifications,
	}
}

func validateComment(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return models.NewValidationError(fmt.Sprintf("Comment too long (max %d characters)", maxCommentLen))
	}
	return nil
}

// CreateComment adds a top-level comment. Locked posts accept no comments,
// not even from admins.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	post, err := s.repos.Posts.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.RequireUnlocked(post.Locked, "post"); err != nil {
		return nil, err
	}
	if err := validateComment(in.Content); err != nil {
		return nil, err
	}

	created, err := s.create(ctx, &models.Comment{
		AuthorID: in.AuthorID,
		PostID:   post.ID,
		Content:  in.Content,
		Status:   models.StatusActive,
	})
	if err != nil {
		return nil, err
	}
	if actor, err := s.repos.Users.GetByID(ctx, created.AuthorID); err == nil {
		s.notifications.NotifyCommented(ctx, post, created, actor)
	}
	return created, nil
}

// Reply answers an existing comment. The reply joins the parent's thread and
// is rejected when either the parent or its post is locked. Replies do not
// notify post subscribers.
func (s *CommentService) Reply(ctx context.Context, in ReplyInput) (*models.Comment, error) {
	parent, err := s.repos.Comments.GetByID(ctx, in.ParentID)
	if err != nil {
		return nil, err
	}
	post, err := s.repos.Posts.GetByID(ctx, parent.PostID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.RequireUnlocked(parent.Locked, "comment"); err != nil {
		return nil, err
	}
	if err := s.auth.RequireUnlocked(post.Locked, "post"); err != nil {
		return nil, err
	}
	if err := validateComment(in.Content); err != nil {
		return nil, err
	}

	parentID := parent.ID
	comment := &models.Comment{
		AuthorID: in.AuthorID,
		PostID:   post.ID,
		ParentID: &parentID,
		Content:  in.Content,
		Status:   models.StatusActive,
	}
	return s.create(ctx, comment)
}

func (s *CommentService) create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if err := s.repos.Comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.repos.Comments.GetByID(ctx, comment.ID)
}

// GetComment returns a comment. Inactive comments are only visible to their
// author and to admins; everyone else gets NOT_FOUND.
func (s *CommentService) GetComment(ctx context.Context, viewerID, id uint) (*models.Comment, error) {
	comment, err := s.repos.Comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	admin, err := s.auth.IsAdmin(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if len(visibleComments([]models.Comment{*comment}, viewerID, admin)) == 0 {
		return nil, models.NewNotFoundError("Comment", id)
	}
	return comment, nil
}

func (s *CommentService) ListReplies(ctx context.Context, viewerID, parentID uint) ([]models.Comment, error) {
	if _, err := s.repos.Comments.GetByID(ctx, parentID); err != nil {
		return nil, err
	}
	admin, err := s.auth.IsAdmin(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	replies, err := s.repos.Comments.ListReplies(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return visibleComments(replies, viewerID, admin), nil
}

// UpdateComment lets the owner change content and an admin change status.
// A locked comment can only be edited by an admin.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.repos.Comments.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.RequireOwnerOrAdmin(ctx, in.ActorID, comment.AuthorID, "edit this comment"); err != nil {
		return nil, err
	}
	if err := s.auth.RequireUnlockedOrAdmin(ctx, in.ActorID, comment.Locked, "comment"); err != nil {
		return nil, err
	}
	if in.Content == nil && in.Status == nil {
		return nil, models.NewValidationError("No data found")
	}

	admin, err := s.auth.IsAdmin(ctx, in.ActorID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID == in.ActorID && in.Content != nil {
		if err := validateComment(*in.Content); err != nil {
			return nil, err
		}
		comment.Content = *in.Content
	}
	if admin && in.Status != nil {
		status := models.Status(*in.Status)
		if !models.ValidStatus(status) {
			return nil, models.NewValidationError("Status must be active or inactive")
		}
		comment.Status = status
	}

	if err := s.repos.Comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) SetLocked(ctx context.Context, actorID, commentID uint, locked bool) (*models.Comment, error) {
	comment, err := s.repos.Comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if comment.Locked == locked {
		if locked {
			return nil, models.NewForbiddenError("Comment is already locked")
		}
		return nil, models.NewForbiddenError("Comment is already unlocked")
	}
	if err := s.repos.Comments.SetLocked(ctx, commentID, locked); err != nil {
		return nil, err
	}
	comment.Locked = locked
	return comment, nil
}

// DeleteComment removes a comment with its whole reply subtree.
func (s *CommentService) DeleteComment(ctx context.Context, actorID, commentID uint) error {
	comment, err := s.repos.Comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := s.auth.RequireOwnerOrAdmin(ctx, actorID, comment.AuthorID, "delete this comment"); err != nil {
		return err
	}
	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		return s.reactions.deleteComments(ctx, tx, []uint{comment.ID})
	})
}
