// Package seed fills a database with demo categories, members, questions,
// answers and reactions. Everything goes through the service layer so the
// stored ratings match what the API would have produced.
package seed

import (
	"context"
	"fmt"
	"log"

	"wiseadvice/internal/models"
	"wiseadvice/internal/repository"
	"wiseadvice/internal/service"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded member.
const DefaultPassword = "password123"

// Options configures a seeding run.
type Options struct {
	NumUsers       int
	NumPosts       int
	CategoriesFile string
	AdminLogin     string
	AdminPassword  string
	Password       string
	// Seed makes fake data reproducible; zero means random.
	Seed int64
}

func (o Options) withDefaults() Options {
	if o.AdminLogin == "" {
		o.AdminLogin = "admin"
	}
	if o.AdminPassword == "" {
		o.AdminPassword = "admin12345"
	}
	if o.Password == "" {
		o.Password = DefaultPassword
	}
	return o
}

// Summary counts what a run created.
type Summary struct {
	Categories int
	Users      int
	Posts      int
	Comments   int
	Reactions  int
}

// Seeder wires the services a seeding run needs.
type Seeder struct {
	repos      *repository.Repositories
	users      *service.UserService
	posts      *service.PostService
	comments   *service.CommentService
	categories *service.CategoryService
	reactions  *service.ReactionService
}

// NewSeeder builds services over db. Notifications are stored but never
// pushed and the category cache is not used.
func NewSeeder(db *gorm.DB) *Seeder {
	repos := repository.New(db)
	auth := service.NewAuthorizer(repos.Users)
	reactions := service.NewReactionService(repos, auth)
	notes := service.NewNotificationService(repos, nil, nil)
	return &Seeder{
		repos:      repos,
		users:      service.NewUserService(repos, auth, reactions),
		posts:      service.NewPostService(repos, auth, reactions, notes),
		comments:   service.NewCommentService(repos, auth, reactions, notes),
		categories: service.NewCategoryService(repos, auth, nil, nil),
		reactions:  reactions,
	}
}

// Run seeds according to opts. Existing categories and the admin account
// are reused, so running twice only adds members and posts.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Summary, error) {
	opts = opts.withDefaults()
	sum := &Summary{}
	f := NewFactory(opts.Seed)

	admin, err := s.ensureAdmin(ctx, opts.AdminLogin, opts.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("admin account: %w", err)
	}

	fixtures, err := LoadCategories(opts.CategoriesFile)
	if err != nil {
		return nil, err
	}
	for _, c := range fixtures {
		title, desc := c.Title, c.Description
		_, err := s.categories.CreateCategory(ctx, admin.ID, service.CategoryInput{Title: &title, Description: &desc})
		switch {
		case err == nil:
			sum.Categories++
		case models.HasCode(err, models.CodeConflict):
		default:
			return nil, fmt.Errorf("category %q: %w", title, err)
		}
	}
	log.Printf("🌱 %d categories created (%d in fixtures)", sum.Categories, len(fixtures))

	members := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := s.users.CreateUser(ctx, admin.ID, f.User(opts.Password))
		if err != nil {
			return nil, fmt.Errorf("user %d: %w", i, err)
		}
		members = append(members, u)
	}
	sum.Users = len(members)
	log.Printf("🌱 %d members created", sum.Users)

	if len(members) == 0 {
		return sum, nil
	}

	for i := 0; i < opts.NumPosts; i++ {
		author := members[f.Intn(len(members))]
		post, err := s.posts.CreatePost(ctx, f.Post(author.ID, fixtures))
		if err != nil {
			return nil, fmt.Errorf("post %d: %w", i, err)
		}
		sum.Posts++

		for j, n := 0, f.Intn(4); j < n; j++ {
			commenter := members[f.Intn(len(members))]
			comment, err := s.comments.CreateComment(ctx, f.Comment(commenter.ID, post.ID))
			if err != nil {
				return nil, fmt.Errorf("comment on post %d: %w", post.ID, err)
			}
			sum.Comments++
			if s.react(ctx, f, members, models.CommentTarget(comment.ID)) {
				sum.Reactions++
			}
		}

		for j, n := 0, f.Intn(len(members)+1); j < n; j++ {
			if s.react(ctx, f, members[j:j+1], models.PostTarget(post.ID)) {
				sum.Reactions++
			}
		}
	}
	log.Printf("🌱 %d posts, %d comments and %d reactions created", sum.Posts, sum.Comments, sum.Reactions)
	return sum, nil
}

// react applies a random reaction from one of voters. Duplicates are
// reported as not created.
func (s *Seeder) react(ctx context.Context, f *Factory, voters []*models.User, target models.ReactionTarget) bool {
	voter := voters[f.Intn(len(voters))]
	return s.reactions.Apply(ctx, voter.ID, target, f.Reaction()) == nil
}

func (s *Seeder) ensureAdmin(ctx context.Context, login, password string) (*models.User, error) {
	existing, err := s.repos.Users.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Role != models.RoleAdmin {
			return s.users.Promote(ctx, login)
		}
		return existing, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := &models.User{
		Login:       login,
		Email:       login + "@wiseadvice.local",
		Password:    string(hash),
		FullName:    "Administrator",
		Role:        models.RoleAdmin,
		IsConfirmed: true,
		Avatar:      models.DefaultAvatar,
	}
	if err := s.repos.Users.Create(ctx, admin); err != nil {
		return nil, err
	}
	log.Printf("🌱 admin account %q created", login)
	return admin, nil
}
