package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"wiseadvice/internal/models"
	"wiseadvice/internal/repository"
	"wiseadvice/internal/tokens"
	"wiseadvice/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AuthService implements registration, login and the token-based email
// confirmation and password reset flows. Mail delivery is not implemented;
// issued links are logged instead.
type AuthService struct {
	repos  *repository.Repositories
	tokens *tokens.Manager
}

type RegisterInput struct {
	Login       string
	Password    string
	ConfirmPass string
	Email       string
}

type LoginInput struct {
	Login    string
	Password string
	Email    string
}

func NewAuthService(repos *repository.Repositories, tm *tokens.Manager) *AuthService {
	return &AuthService{repos: repos, tokens: tm}
}

var errUserNotFound = &models.AppError{Code: models.CodeNotFound, Message: "User not found"}

// Register creates an unconfirmed account and returns it with its email
// confirmation token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	if in.Login == "" || in.Password == "" || in.ConfirmPass == "" || in.Email == "" {
		return nil, "", models.NewValidationError("Fields are required")
	}
	if in.Password != in.ConfirmPass {
		return nil, "", models.NewValidationError("Passwords must match")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	for _, check := range []error{
		validation.ValidateLogin(in.Login),
		validation.ValidateEmail(email),
		validation.ValidatePassword(in.Password),
	} {
		if check != nil {
			return nil, "", models.NewValidationError(check.Error())
		}
	}

	existing, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", models.NewConflictError("This email already exists")
	}
	if existing, err = s.repos.Users.GetByLogin(ctx, in.Login); err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", models.NewConflictError("This login already exists")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	user := &models.User{
		Login:    in.Login,
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
		Avatar:   models.DefaultAvatar,
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, _, err := s.tokens.Issue(tokens.PurposeEmailConfirm, user)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	slog.InfoContext(ctx, "email confirmation issued",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("path", "/api/auth/confirm-email/"+token),
	)
	return user, token, nil
}

// Login checks credentials and issues a 24h session token. The login and
// email must name the same account.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, *models.User, error) {
	if in.Login == "" || in.Password == "" || in.Email == "" {
		return "", nil, models.NewValidationError("Fields are required")
	}
	user, err := s.repos.Users.GetByLogin(ctx, in.Login)
	if err != nil {
		return "", nil, err
	}
	if user == nil || !strings.EqualFold(user.Email, strings.TrimSpace(in.Email)) {
		return "", nil, errUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return "", nil, models.NewUnauthorizedError("Invalid password")
	}
	if !user.IsConfirmed {
		return "", nil, models.NewForbiddenError("Please confirm your email")
	}

	token, _, err := s.tokens.Issue(tokens.PurposeAccess, user)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return token, user, nil
}

// Logout revokes the session token until it expires.
func (s *AuthService) Logout(ctx context.Context, claims *tokens.Claims) error {
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// RequestPasswordReset issues a one hour reset token for the account.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", models.NewValidationError("Email is required")
	}
	user, err := s.repos.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", errUserNotFound
	}
	token, _, err := s.tokens.Issue(tokens.PurposePasswordReset, user)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	slog.InfoContext(ctx, "password reset issued",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("path", "/api/auth/password-reset/"+token),
	)
	return token, nil
}

func tokenError(err error) error {
	if errors.Is(err, tokens.ErrExpired) || errors.Is(err, tokens.ErrInvalid) || errors.Is(err, tokens.ErrRevoked) {
		return models.NewUnauthorizedError("Invalid or expired token")
	}
	return models.NewInternalError(err)
}

// ResetPassword sets a new password using a reset token. The token is
// revoked once used.
func (s *AuthService) ResetPassword(ctx context.Context, raw, newPass string) error {
	if newPass == "" {
		return models.NewValidationError("New password is required")
	}
	claims, err := s.tokens.VerifyPurpose(ctx, raw, tokens.PurposePasswordReset)
	if err != nil {
		return tokenError(err)
	}
	if err := validation.ValidatePassword(newPass); err != nil {
		return models.NewValidationError(err.Error())
	}
	user, err := s.repos.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return err
	}
	if user.Password, err = hashPassword(newPass); err != nil {
		return err
	}
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return err
	}
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		slog.WarnContext(ctx, "reset token revoke failed", slog.String("error", err.Error()))
	}
	return nil
}

// ConfirmEmail marks the account named by a confirmation token as confirmed.
func (s *AuthService) ConfirmEmail(ctx context.Context, raw string) (*models.User, error) {
	claims, err := s.tokens.VerifyPurpose(ctx, raw, tokens.PurposeEmailConfirm)
	if err != nil {
		return nil, tokenError(err)
	}
	user, err := s.repos.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(user.Email, claims.Email) {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}
	if user.IsConfirmed {
		return user, nil
	}
	user.IsConfirmed = true
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
