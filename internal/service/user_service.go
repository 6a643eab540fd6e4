package service

import (
	"context"
	"strings"

	"wiseadvice/internal/models"
	"wiseadvice/internal/repository"
	"wiseadvice/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService implements account administration.
type UserService struct {
	repos     *repository.Repositories
	auth      *Authorizer
	reactions *ReactionService
}

type CreateUserInput struct {
	Login    string
	Password string
	Email    string
	FullName string
	Role     models.Role
}

// UpdateUserInput carries the fields present in a PATCH body.
type UpdateUserInput struct {
	ActorID  uint
	UserID   uint
	Login    *string
	Email    *string
	FullName *string
	Password *string
	Avatar   *string
	Role     *string
}

func NewUserService(repos *repository.Repositories, auth *Authorizer, reactions *ReactionService) *UserService {
	return &UserService{repos: repos, auth: auth, reactions: reactions}
}

func hashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return string(h), nil
}

func (s *UserService) ListUsers(ctx context.Context, actorID uint) ([]models.User, error) {
	if err := s.auth.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.repos.Users.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.repos.Users.GetByID(ctx, id)
}

// CreateUser adds an account on behalf of an admin. Such accounts skip
// email confirmation.
func (s *UserService) CreateUser(ctx context.Context, actorID uint, in CreateUserInput) (*models.User, error) {
	if err := s.auth.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !models.ValidRole(in.Role) {
		return nil, models.NewValidationError("Role must be user or admin")
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Login:       in.Login,
		Email:       strings.ToLower(in.Email),
		Password:    hash,
		FullName:    in.FullName,
		Role:        in.Role,
		IsConfirmed: true,
		Avatar:      models.DefaultAvatar,
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser edits a profile. Users may edit themselves and admins anyone;
// only admins may change a role.
func (s *UserService) UpdateUser(ctx context.Context, in UpdateUserInput) (*models.User, error) {
	user, err := s.repos.Users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.RequireOwnerOrAdmin(ctx, in.ActorID, user.ID, "edit this user"); err != nil {
		return nil, err
	}

	if in.Role != nil {
		if err := s.auth.RequireAdmin(ctx, in.ActorID); err != nil {
			return nil, models.NewForbiddenError("Only admins can change roles")
		}
		role := models.Role(*in.Role)
		if !models.ValidRole(role) {
			return nil, models.NewValidationError("Role must be user or admin")
		}
		user.Role = role
	}
	if in.Login != nil {
		if err := validation.ValidateLogin(*in.Login); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Login = *in.Login
	}
	if in.Email != nil {
		if err := validation.ValidateEmail(*in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = strings.ToLower(*in.Email)
	}
	if in.FullName != nil {
		user.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Avatar != nil && strings.TrimSpace(*in.Avatar) != "" {
		user.Avatar = strings.TrimSpace(*in.Avatar)
	}
	if in.Password != nil {
		if err := validation.ValidatePassword(*in.Password); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if user.Password, err = hashPassword(*in.Password); err != nil {
			return nil, err
		}
	}

	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account with its posts, comments, reactions,
// follows and notifications.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id uint) error {
	if err := s.auth.RequireAdmin(ctx, actorID); err != nil {
		return err
	}
	if _, err := s.repos.Users.GetByID(ctx, id); err != nil {
		return err
	}

	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		postIDs, err := tx.Posts.IDsByAuthor(ctx, id)
		if err != nil {
			return err
		}
		for _, pid := range postIDs {
			post, err := tx.Posts.GetByID(ctx, pid)
			if err != nil {
				return err
			}
			if err := s.reactions.deletePost(ctx, tx, post); err != nil {
				return err
			}
		}

		commentIDs, err := tx.Comments.IDsByAuthor(ctx, id)
		if err != nil {
			return err
		}
		if err := s.reactions.deleteComments(ctx, tx, commentIDs); err != nil {
			return err
		}

		if err := tx.Reactions.DeleteByAuthor(ctx, id); err != nil {
			return err
		}
		if err := tx.Follows.DeleteByUser(ctx, id); err != nil {
			return err
		}
		if err := tx.Notifications.DeleteByUser(ctx, id); err != nil {
			return err
		}
		return tx.Users.Delete(ctx, id)
	})
}

// Promote grants the admin role to the user with the given login. It backs
// the operator CLI, which has no acting user.
func (s *UserService) Promote(ctx context.Context, login string) (*models.User, error) {
	user, err := s.repos.Users.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &models.AppError{Code: models.CodeNotFound, Message: "User not found"}
	}
	if user.IsAdmin() {
		return user, nil
	}
	user.Role = models.RoleAdmin
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
