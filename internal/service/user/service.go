package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/user"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	userRepo user.UserRepository
	now      func() time.Time
}

func NewUserService(userRepo user.UserRepository) user.UserService {
	return &UserServiceImpl{userRepo: userRepo, now: time.Now}
}

func requireAdmin(ctx context.Context) (jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return jwt.Claims{}, err
	}
	if !claims.IsAdmin() {
		return jwt.Claims{}, user.ErrAdminPrivilegeRequired
	}
	return claims, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Me implements user.UserService.
func (s *UserServiceImpl) Me(ctx context.Context) (user.UserResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(u, s.now()), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context) ([]user.UserResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	resp := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, user.NewUserResponse(u, now))
	}
	return resp, nil
}

// GetByID implements user.UserService.
func (s *UserServiceImpl) GetByID(ctx context.Context, id string) (user.UserResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return user.UserResponse{}, err
	}
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(u, s.now()), nil
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, err
	}

	newUser := user.User{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
		IsActive:     true,
	}
	if req.ExpiresAt != nil && *req.ExpiresAt != "" {
		exp, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			return user.UserResponse{}, err
		}
		newUser.ExpiresAt = &exp
	}

	created, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(created, s.now()), nil
}

// Update implements user.UserService. Admins cannot remove their own admin
// role or deactivate themselves.
func (s *UserServiceImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	claims, err := requireAdmin(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if req.ID == claims.UserID {
		if req.Role != nil && *req.Role != user.RoleAdmin {
			return user.UserResponse{}, user.ErrCannotDemoteSelf
		}
		if req.IsActive != nil && !*req.IsActive {
			return user.UserResponse{}, user.ErrCannotDemoteSelf
		}
	}

	if err := s.userRepo.Update(ctx, req); err != nil {
		return user.UserResponse{}, err
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return user.UserResponse{}, err
		}
		if err := s.userRepo.UpdatePassword(ctx, req.ID, hash); err != nil {
			return user.UserResponse{}, err
		}
	}

	u, err := s.userRepo.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(u, s.now()), nil
}

// Delete implements user.UserService.
func (s *UserServiceImpl) Delete(ctx context.Context, id string) error {
	claims, err := requireAdmin(ctx)
	if err != nil {
		return err
	}
	if id == claims.UserID {
		return user.ErrCannotDeleteSelf
	}
	return s.userRepo.Delete(ctx, id)
}
