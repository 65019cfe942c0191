package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo     Repository
	sessions *Sessions
}

func NewService(repo Repository, sessions *Sessions) *Service {
	return &Service{repo: repo, sessions: sessions}
}

// Login checks the credentials and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, Claims, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", Claims{}, err
	}
	return s.sessions.Issue(*user)
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) ParseToken(token string) (Claims, error) {
	return s.sessions.Parse(token)
}

func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// EnsureOwner creates the owner account on first start. An existing account
// with the same username is left untouched.
func (s *Service) EnsureOwner(ctx context.Context, seed OwnerSeed) (bool, error) {
	username := strings.TrimSpace(seed.Username)
	if username == "" {
		return false, fmt.Errorf("owner username is required")
	}

	hash := strings.TrimSpace(seed.PasswordHash)
	if hash == "" {
		if seed.Password == "" {
			if _, err := s.repo.GetByUsername(ctx, username); err == nil {
				return false, nil
			}
			return false, ErrOwnerNotConfigured
		}
		hashed, err := HashPassword(seed.Password)
		if err != nil {
			return false, err
		}
		hash = hashed
	}

	return s.repo.CreateIfAbsent(ctx, &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         RoleOwner,
	})
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}
