package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"antecipa/internal/model"
	"antecipa/internal/repository"
	"antecipa/pkg/apperror"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DTOs for Request validation
type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	Role      string `json:"role"`
	UserID    string `json:"user_id"`
	ClientID  string `json:"client_id,omitempty"`
}

// DTO for returning User without exposing the password hash
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	ClientID   string    `json:"client_id,omitempty"`
	ClientName string    `json:"client_name,omitempty"`
	CreatedAt  string    `json:"created_at"`
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *model.User) (string, time.Time, error)
}

// UserService covers login and the current-user profile.
type UserService interface {
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	Me(ctx context.Context, identity model.Identity) (*UserResponse, error)
}

type userService struct {
	repo    repository.UserRepository
	clients repository.ClientRepository
	tokens  TokenIssuer
}

func NewUserService(repo repository.UserRepository, clients repository.ClientRepository, tokens TokenIssuer) UserService {
	return &userService{repo: repo, clients: clients, tokens: tokens}
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	token, expires, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	resp := &TokenResponse{
		Token:     token,
		ExpiresAt: expires.UTC().Format(time.RFC3339),
		Role:      string(user.Role),
		UserID:    user.ID.String(),
	}
	if user.ClientID != nil {
		resp.ClientID = user.ClientID.String()
	}
	return resp, nil
}

func (s *userService) Me(ctx context.Context, identity model.Identity) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, identity.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Unauthorized("user no longer exists")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	resp := &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
	if user.ClientID != nil {
		resp.ClientID = user.ClientID.String()
		if client, err := s.clients.GetByID(ctx, *user.ClientID); err == nil {
			resp.ClientName = client.Name
		}
	}
	return resp, nil
}
