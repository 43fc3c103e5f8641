package usecase

import (
	"context"
	"fmt"

	"token-auth/internal/data/entity"
	"token-auth/internal/data/repository"
	"token-auth/internal/dto/request"
	"token-auth/internal/dto/response"
	"token-auth/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SessionService interface {
	ListSessions(ctx context.Context, principal *Principal, req *request.PaginatedRequest) (*response.PaginatedResponse[response.SessionResponse], error)
	RevokeUserSessions(ctx context.Context, principal *Principal, userID string) (*response.RevokeResponse, error)
}

type sessionService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	clock    utils.Clock
	log      *zap.Logger
}

func NewSessionService(users repository.UserRepository, sessions repository.SessionRepository, clock utils.Clock, log *zap.Logger) SessionService {
	return &sessionService{
		users:    users,
		sessions: sessions,
		clock:    clock,
		log:      log.With(zap.String("service", "session")),
	}
}

// ListSessions shows administrators every session and everyone else their own.
func (s *sessionService) ListSessions(ctx context.Context, principal *Principal, req *request.PaginatedRequest) (*response.PaginatedResponse[response.SessionResponse], error) {
	if principal == nil {
		return nil, ErrTokenMissing
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("List sessions validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, ErrInvalidRequest
	}

	var (
		sessions []*entity.Session
		total    int64
		err      error
	)
	if Authorize(principal.User, ActionListAllSessions) == nil {
		sessions, err = s.sessions.ListAll(ctx, req.Limit(), req.Offset())
		if err == nil {
			total, err = s.sessions.CountAll(ctx)
		}
	} else {
		if err := Authorize(principal.User, ActionListOwnSessions); err != nil {
			return nil, err
		}
		sessions, err = s.sessions.ListByUser(ctx, principal.User.ID, req.Limit(), req.Offset())
		if err == nil {
			total, err = s.sessions.CountByUser(ctx, principal.User.ID)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	data := make([]response.SessionResponse, len(sessions))
	for i, session := range sessions {
		data[i] = response.SessionToResponse(session)
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

// RevokeUserSessions invalidates every live session of userID on behalf of
// an administrator. Already invalidated sessions keep their original actor.
func (s *sessionService) RevokeUserSessions(ctx context.Context, principal *Principal, userID string) (*response.RevokeResponse, error) {
	if principal == nil {
		return nil, ErrTokenMissing
	}
	if err := Authorize(principal.User, ActionRevokeUserSessions); err != nil {
		s.log.Warn("Session revocation forbidden", zap.String("user_id", principal.User.ID.String()))
		return nil, err
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidRequest
	}

	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("revoke sessions: %w", err)
	}
	if target == nil {
		return nil, ErrNotFound
	}

	n, err := s.sessions.InvalidateAllForUser(ctx, id, entity.AdministratorActor(principal.User.ID), s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("revoke sessions: %w", err)
	}

	s.log.Info("User sessions revoked",
		zap.String("user_id", id.String()),
		zap.String("by", principal.User.ID.String()),
		zap.Int64("count", n))

	return &response.RevokeResponse{UserID: id.String(), Invalidated: n}, nil
}
