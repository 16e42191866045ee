package service

import (
	"context"
	"errors"
	"fmt"

	"catalog_portal/internal/common"
	"catalog_portal/internal/common/security"
	"catalog_portal/internal/domain/model"
	"catalog_portal/internal/domain/repository"
	"catalog_portal/internal/platform/logger"
	"catalog_portal/internal/platform/metrics"
)

type AuthService struct {
	userRepo repository.UserRepository
	issuer   *security.TokenIssuer
}

func NewAuthService(userRepo repository.UserRepository, issuer *security.TokenIssuer) *AuthService {
	return &AuthService{userRepo: userRepo, issuer: issuer}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string             `json:"token"`
	User  model.UserSnapshot `json:"user"`
}

// Login verifies credentials and issues a session token. Unknown users and
// wrong passwords both fail with common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	if username == "" || password == "" {
		metrics.RecordLogin("failure")
		return nil, common.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		metrics.RecordLogin("failure")
		if errors.Is(err, common.ErrNotFound) {
			logger.Log.WithField("reason", "unknown_user").Debug("login rejected")
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidCredentials, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(password, user.PasswordHash) {
		metrics.RecordLogin("failure")
		logger.Log.WithField("reason", "password_mismatch").Debug("login rejected")
		return nil, common.ErrInvalidCredentials
	}

	snapshot := user.Snapshot()
	token, _, err := s.issuer.Issue(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	metrics.RecordLogin("success")
	return &AuthResponse{Token: token, User: snapshot}, nil
}
