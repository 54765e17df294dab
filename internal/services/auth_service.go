package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/daily-planner-api/internal/models"
	"github.com/yukikurage/daily-planner-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrLoginKeyRequired     = errors.New("login key is required")
	ErrPasswordRequired     = errors.New("password is required")
	ErrPasswordTooLong      = errors.New("password must be at most 72 bytes")
	ErrLoginKeyTaken        = errors.New("login key already registered")
	ErrInvalidCredentials   = errors.New("invalid login key or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// PasswordCost is the bcrypt work factor for stored credentials.
const PasswordCost = bcrypt.DefaultCost

// AuthService handles registration, credential checks and token issuance.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	LoginKey string
	Password string
	Name     string
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	LoginKey string
	Password string
}

// Session is an authenticated user together with a fresh access token.
type Session struct {
	Token     string
	ExpiresIn time.Duration
	User      *models.User
}

// NormalizeLoginKey returns the canonical form used for storage and lookup.
func NormalizeLoginKey(loginKey string) string {
	return strings.ToLower(strings.TrimSpace(loginKey))
}

// Register stores a new user with a bcrypt hash of the password.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	loginKey := NormalizeLoginKey(input.LoginKey)
	if loginKey == "" {
		return nil, ErrLoginKeyRequired
	}
	if input.Password == "" {
		return nil, ErrPasswordRequired
	}

	if _, err := s.userRepo.FindByLoginKey(ctx, loginKey); err == nil {
		return nil, ErrLoginKeyTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check login key: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), PasswordCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		LoginKey:     loginKey,
		PasswordHash: string(hashedPassword),
		Name:         strings.TrimSpace(input.Name),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration can win the race past the lookup above.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrLoginKeyTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// FindByLoginKey looks a user up by (non-canonical) login key.
func (s *AuthService) FindByLoginKey(ctx context.Context, loginKey string) (*models.User, error) {
	user, err := s.userRepo.FindByLoginKey(ctx, NormalizeLoginKey(loginKey))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// VerifyPassword reports whether password matches the user's stored hash.
func (s *AuthService) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// Login verifies credentials and returns the authenticated user.
// Unknown login keys and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.FindByLoginKey(ctx, input.LoginKey)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.VerifyPassword(user, input.Password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// IssueSession signs an access token for the user.
func (s *AuthService) IssueSession(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID, user.LoginKey)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresIn: s.tokens.TTL(), User: user}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
