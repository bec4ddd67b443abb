package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/aradhya-7-7/XC/internal/domain"
	"github.com/aradhya-7-7/XC/internal/util"
	"github.com/aradhya-7-7/XC/pkg/jwt"
)

// emailRegex accepts the basic local@domain.tld shape.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 6

// authService implements domain.AuthService.
type authService struct {
	repo   domain.UserRepository
	tokens jwt.TokenManager

	// placeholderHash is compared against when the login username is
	// unknown, so the bcrypt work happens on both login outcomes.
	placeholderHash string
}

// NewAuthService creates an AuthService using the given repository and
// token manager.
func NewAuthService(repo domain.UserRepository, tokens jwt.TokenManager) (domain.AuthService, error) {
	placeholder, err := util.HashPassword("")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare placeholder digest: %w", err)
	}
	return &authService{repo: repo, tokens: tokens, placeholderHash: placeholder}, nil
}

// Signup validates the request, persists the new user and issues a session
// token. The token is only created after the insert succeeds, so a failed
// signup never leaves the client holding a valid session.
func (s *authService) Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, string, error) {
	if !emailRegex.MatchString(req.Email) {
		return nil, "", domain.ErrInvalidEmail
	}

	// Advisory pre-checks; the unique indexes are the real guarantee and
	// Create reports the same errors if a concurrent signup wins the race.
	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, "", domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, "", domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}

	if len(req.Password) < minPasswordLength {
		return nil, "", domain.ErrPasswordTooShort
	}

	hashed, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.NewUser(req.Username, req.FullName, req.Email, hashed)
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(user.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return user, token, nil
}

// Login authenticates a user by username and password. Unknown usernames
// and wrong passwords produce the same error, and the password comparison
// runs in both cases.
func (s *authService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}

	digest := s.placeholderHash
	if user != nil {
		digest = user.Password
	}
	if verifyErr := util.CheckPassword(digest, password); verifyErr != nil || user == nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return user, token, nil
}

// GetUserByID retrieves a user by ID, password excluded.
func (s *authService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}
