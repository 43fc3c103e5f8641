package usecase

import (
	"context"
	"fmt"
	"strings"

	"token-auth/internal/data/entity"
	"token-auth/internal/data/repository"
	"token-auth/internal/dto/request"
	"token-auth/internal/dto/response"
	"token-auth/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	ListUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	SeedAdministrator(ctx context.Context, email, password string) error
}

type userService struct {
	userRepo repository.UserRepository
	clock    utils.Clock
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, clock utils.Clock, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		clock:    clock,
		log:      log.With(zap.String("service", "user")),
	}
}

// ListUsers returns one page of users. Callers gate it with ActionListUsers.
func (us *userService) ListUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		us.log.Warn("List users validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, ErrInvalidRequest
	}

	users, err := us.userRepo.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	total, err := us.userRepo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	userResponses := make([]response.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = response.UserToResponse(user)
	}

	us.log.Debug("Users retrieved",
		zap.Int("count", len(users)),
		zap.Int64("total", total),
		zap.Int("page", req.Page),
		zap.Int("per_page", req.Limit()),
	)

	return response.NewPaginatedResponse(userResponses, req.Page, req.Limit(), total), nil
}

// SeedAdministrator creates the configured administrator when no user has
// that email yet. An empty email disables seeding.
func (us *userService) SeedAdministrator(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if password == "" {
		return fmt.Errorf("seed administrator %s: password is empty", email)
	}

	existing, err := us.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("seed administrator: %w", err)
	}
	if existing != nil {
		return nil
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("seed administrator: hash password: %w", err)
	}

	now := us.clock.Now()
	username, _, _ := strings.Cut(email, "@")
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         entity.RoleAdmin,
		IsActive:     true,
	}
	if err := us.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("seed administrator: %w", err)
	}

	us.log.Info("Administrator seeded", zap.String("user_id", user.ID.String()), zap.String("email", email))
	return nil
}
