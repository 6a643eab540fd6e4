package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wiseadvice/internal/models"
	"wiseadvice/internal/observability"
	"wiseadvice/internal/postquery"
	"wiseadvice/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const (
	maxTitleLen   = 255
	maxContentLen = 50000
)

// PostService implements post authoring, moderation, listings and the
// favorite and subscription toggles.
type PostService struct {
	repos         *repository.Repositories
	auth          *Authorizer
	reactions     *ReactionService
	notifications *NotificationService
}

type CreatePostInput struct {
	AuthorID   uint
	Title      string
	Content    string
	Categories string
}

// UpdatePostInput carries the fields present in a PATCH body. Nil means
// the field was not sent.
type UpdatePostInput struct {
	ActorID    uint
	PostID     uint
	Title      *string
	Content    *string
	Status     *string
	Categories *string
}

func NewPostService(
	repos *repository.Repositories,
	auth *Authorizer,
	reactions *ReactionService,
	notifications *NotificationService,
) *PostService {
	return &PostService{
		repos:         repos,
		auth:          auth,
		reactions:     reactions,
		notifications: notifications,
	}
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError(fmt.Sprintf("Title too long (max %d characters)", maxTitleLen))
	}
	return nil
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return models.NewValidationError(fmt.Sprintf("Content too long (max %d characters)", maxContentLen))
	}
	return nil
}

// resolveCategories maps a comma separated title list onto stored
// categories. Unknown titles are a validation error.
func (s *PostService) resolveCategories(ctx context.Context, csv string) ([]models.Category, error) {
	titles := postquery.SplitList(csv)
	if len(titles) == 0 {
		return nil, models.NewValidationError("At least one category is required")
	}
	cats, err := s.repos.Categories.GetByTitles(ctx, titles)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(cats))
	for _, c := range cats {
		known[c.Title] = struct{}{}
	}
	for _, t := range titles {
		if _, ok := known[t]; !ok {
			return nil, models.NewValidationError(fmt.Sprintf("Unknown category %q", t))
		}
	}
	return cats, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateContent(in.Content); err != nil {
		return nil, err
	}
	cats, err := s.resolveCategories(ctx, in.Categories)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID:    in.AuthorID,
		Title:       strings.TrimSpace(in.Title),
		Content:     in.Content,
		Status:      models.StatusActive,
		PublishDate: time.Now().UTC(),
		Categories:  cats,
	}
	if err := s.repos.Posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.repos.Posts.GetByID(ctx, post.ID)
}

func canView(post *models.Post, viewerID uint, admin bool) bool {
	return admin || post.Status == models.StatusActive || (viewerID != 0 && post.AuthorID == viewerID)
}

// visiblePost loads a post and hides inactive posts from everyone but their
// author and admins.
func (s *PostService) visiblePost(ctx context.Context, viewerID, postID uint) (*models.Post, bool, error) {
	post, err := s.repos.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, false, err
	}
	admin, err := s.auth.IsAdmin(ctx, viewerID)
	if err != nil {
		return nil, false, err
	}
	if !canView(post, viewerID, admin) {
		return nil, false, models.NewNotFoundError("Post", postID)
	}
	return post, admin, nil
}

func (s *PostService) GetPost(ctx context.Context, viewerID, postID uint) (*models.Post, error) {
	post, _, err := s.visiblePost(ctx, viewerID, postID)
	return post, err
}

// list runs a listing with the viewer's visibility rule in front of the
// given filters.
func (s *PostService) list(ctx context.Context, viewerID uint, p postquery.Params, extra ...postquery.Filter) (*models.PostPage, error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "List",
		attribute.Int("page", p.Page),
		attribute.String("sort", string(p.Sort)),
	)
	defer span.End()

	admin, err := s.auth.IsAdmin(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	filters := make([]postquery.Filter, 0, len(extra)+len(p.Filters)+1)
	filters = append(filters, postquery.VisibilityFilter{ViewerID: viewerID, Admin: admin})
	filters = append(filters, extra...)
	filters = append(filters, p.Filters...)

	posts, total, err := s.repos.Posts.List(ctx, postquery.Build(postquery.Query{
		Filters:  filters,
		Sort:     p.Sort,
		Page:     p.Page,
		PageSize: postquery.PageSize,
	}))
	if err != nil {
		observability.FailSpan(span, err)
		return nil, err
	}
	return &models.PostPage{Posts: posts, Total: total}, nil
}

func (s *PostService) ListPosts(ctx context.Context, viewerID uint, p postquery.Params) (*models.PostPage, error) {
	return s.list(ctx, viewerID, p)
}

func (s *PostService) ListUserPosts(ctx context.Context, userID uint, p postquery.Params) (*models.PostPage, error) {
	return s.list(ctx, userID, p, postquery.AuthorFilter{AuthorID: userID})
}

func (s *PostService) ListFavorites(ctx context.Context, userID uint, p postquery.Params) (*models.PostPage, error) {
	return s.list(ctx, userID, p, postquery.FavoritesFilter{UserID: userID})
}

func (s *PostService) ListSubscriptions(ctx context.Context, userID uint, p postquery.Params) (*models.PostPage, error) {
	return s.list(ctx, userID, p, postquery.SubscriptionsFilter{UserID: userID})
}

func (s *PostService) ListByCategory(ctx context.Context, viewerID, categoryID uint, p postquery.Params) (*models.PostPage, error) {
	if _, err := s.repos.Categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.list(ctx, viewerID, p, postquery.CategoryIDFilter{CategoryID: categoryID})
}

// ListComments returns the top-level comments of a post. Inactive comments
// are shown only to their author and admins.
func (s *PostService) ListComments(ctx context.Context, viewerID, postID uint) ([]models.Comment, error) {
	_, admin, err := s.visiblePost(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.repos.Comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return visibleComments(comments, viewerID, admin), nil
}

func visibleComments(comments []models.Comment, viewerID uint, admin bool) []models.Comment {
	if admin {
		return comments
	}
	out := comments[:0]
	for _, c := range comments {
		if c.Status == models.StatusActive || (viewerID != 0 && c.AuthorID == viewerID) {
			out = append(out, c)
		}
	}
	return out
}

func (s *PostService) ListCategories(ctx context.Context, viewerID, postID uint) ([]models.Category, error) {
	if _, _, err := s.visiblePost(ctx, viewerID, postID); err != nil {
		return nil, err
	}
	return s.repos.Posts.Categories(ctx, postID)
}

// UpdatePost applies an edit. The owner may change title and content, an
// admin may change status, and either may replace the categories. Fields
// the actor may not change are ignored.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.repos.Posts.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.RequireOwnerOrAdmin(ctx, in.ActorID, post.AuthorID, "edit this post"); err != nil {
		return nil, err
	}
	if err := s.auth.RequireUnlockedOrAdmin(ctx, in.ActorID, post.Locked, "post"); err != nil {
		return nil, err
	}
	if in.Title == nil && in.Content == nil && in.Status == nil && in.Categories == nil {
		return nil, models.NewValidationError("No data found")
	}

	admin, err := s.auth.IsAdmin(ctx, in.ActorID)
	if err != nil {
		return nil, err
	}
	owner := post.AuthorID == in.ActorID

	if owner && in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return nil, err
		}
		post.Title = strings.TrimSpace(*in.Title)
	}
	if owner && in.Content != nil {
		if err := validateContent(*in.Content); err != nil {
			return nil, err
		}
		post.Content = *in.Content
	}
	if admin && in.Status != nil {
		status := models.Status(*in.Status)
		if !models.ValidStatus(status) {
			return nil, models.NewValidationError("Status must be active or inactive")
		}
		post.Status = status
	}
	var cats []models.Category
	if in.Categories != nil && strings.TrimSpace(*in.Categories) != "" {
		if cats, err = s.resolveCategories(ctx, *in.Categories); err != nil {
			return nil, err
		}
	}

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Posts.Update(ctx, post); err != nil {
			return err
		}
		if cats != nil {
			return tx.Posts.ReplaceCategories(ctx, post, cats)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if actor, err := s.repos.Users.GetByID(ctx, in.ActorID); err == nil {
		s.notifications.NotifyPostChanged(ctx, post, actor)
	}
	return s.repos.Posts.GetByID(ctx, post.ID)
}

// SetLocked locks or unlocks a post. Repeating the current state is an error.
func (s *PostService) SetLocked(ctx context.Context, actorID, postID uint, locked bool) (*models.Post, error) {
	post, err := s.repos.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if post.Locked == locked {
		if locked {
			return nil, models.NewForbiddenError("Post is already locked")
		}
		return nil, models.NewForbiddenError("Post is already unlocked")
	}
	if err := s.repos.Posts.SetLocked(ctx, postID, locked); err != nil {
		return nil, err
	}
	post.Locked = locked
	return post, nil
}

// DeletePost removes a post and everything attached to it in one
// transaction, reversing the rating effect of its reactions.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID uint) error {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "Delete",
		attribute.Int64("post_id", int64(postID)),
	)
	defer span.End()

	post, err := s.repos.Posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := s.auth.RequireOwnerOrAdmin(ctx, actorID, post.AuthorID, "delete this post"); err != nil {
		return err
	}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		return s.reactions.deletePost(ctx, tx, post)
	})
	if err != nil {
		observability.FailSpan(span, err)
	}
	return err
}

// AddFavorite is idempotent and reports whether a new favorite was stored.
func (s *PostService) AddFavorite(ctx context.Context, userID, postID uint) (bool, error) {
	if _, err := s.repos.Posts.GetByID(ctx, postID); err != nil {
		return false, err
	}
	return s.repos.Follows.AddFavorite(ctx, userID, postID)
}

func (s *PostService) RemoveFavorite(ctx context.Context, userID, postID uint) error {
	if _, err := s.repos.Posts.GetByID(ctx, postID); err != nil {
		return err
	}
	removed, err := s.repos.Follows.RemoveFavorite(ctx, userID, postID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotFoundError("Favorite", postID)
	}
	return nil
}

func (s *PostService) Subscribe(ctx context.Context, userID, postID uint) error {
	if _, err := s.repos.Posts.GetByID(ctx, postID); err != nil {
		return err
	}
	return s.repos.Follows.Subscribe(ctx, userID, postID)
}

func (s *PostService) Unsubscribe(ctx context.Context, userID, postID uint) error {
	if _, err := s.repos.Posts.GetByID(ctx, postID); err != nil {
		return err
	}
	return s.repos.Follows.Unsubscribe(ctx, userID, postID)
}

// ChooseBestComment marks a comment of the post as its best answer. Only
// the post's author may choose, and the post's lock state does not matter.
func (s *PostService) ChooseBestComment(ctx context.Context, actorID, postID, commentID uint) error {
	post, err := s.repos.Posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	comment, err := s.repos.Comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.PostID != post.ID {
		return models.NewValidationError("Comment does not belong to this post")
	}
	if post.AuthorID != actorID {
		return models.NewForbiddenError("Only the author of the post can choose the best comment")
	}
	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		return tx.Comments.SetBest(ctx, post.ID, comment.ID)
	})
}
