package services

import (
	"context"
	"errors"
	"strings"

	"github.com/confreview/backend/internal/models"
	"github.com/confreview/backend/internal/repository"
	"github.com/confreview/backend/internal/roles"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

type AuthService struct {
	store  *repository.Store
	tokens *TokenManager
	cost   int
}

func NewAuthService(store *repository.Store, tokens *TokenManager) *AuthService {
	return &AuthService{store: store, tokens: tokens, cost: bcrypt.DefaultCost}
}

type RegisterInput struct {
	Name          string
	Email         string
	Password      string
	Role          string
	Roles         []string
	ContactNumber string
}

type AuthResult struct {
	User   *models.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

// Register creates a user. Legacy role names are normalized before storage.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, validationError("Missing name/email/password")
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, validationError("Invalid email")
	}
	if len(in.Password) < 6 {
		return nil, validationError("Password must be at least 6 characters")
	}

	requested := in.Roles
	if in.Role != "" {
		requested = append([]string{in.Role}, requested...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:          name,
		Email:         email,
		Password:      string(hash),
		Roles:         roles.Strings(roles.Normalize(requested)),
		ContactNumber: strings.TrimSpace(in.ContactNumber),
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictError("Email already registered")
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.store.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unauthorizedError("Invalid email or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, unauthorizedError("Invalid email or password")
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: pair}, nil
}

// Refresh exchanges a valid refresh token for a new pair. Roles are read
// from the store again rather than copied from the old token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, unauthorizedError("Invalid refresh token")
	}
	user, err := s.store.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unauthorizedError("Invalid refresh token")
		}
		return nil, err
	}
	pair, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: pair}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
