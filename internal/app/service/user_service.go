package service

import (
	"context"
	"fmt"

	"catalog_portal/internal/common"
	"catalog_portal/internal/common/security"
	"catalog_portal/internal/domain/model"
	"catalog_portal/internal/domain/repository"

	"github.com/google/uuid"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
	Password string `json:"password"`
}

func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*model.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, common.Errorf("username and password are required: %w", common.ErrValidation)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Name:         req.Name,
		LastName:     req.LastName,
		Email:        req.Email,
		UserType:     req.UserType,
		PasswordHash: hashedPassword,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo might return common.ErrConflict
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// UpdateUser applies the fields present in patch. A present username or
// password must be non-empty; every other present field is stored as given.
func (s *UserService) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Username.Set && patch.Username.Value == "" {
		return nil, common.Errorf("username cannot be cleared: %w", common.ErrValidation)
	}
	if patch.Password.Set && patch.Password.Value == "" {
		return nil, common.Errorf("password cannot be cleared: %w", common.ErrValidation)
	}

	patch.ApplyProfile(user)
	if patch.Password.Set {
		hashedPassword, err := security.HashPassword(patch.Password.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hashedPassword
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) (bool, error) {
	removed, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return removed, nil
}
