// Package repotest provides in-memory repositories for tests. They keep the
// same guarantees as the Postgres implementations, including compare-and-set
// invalidation.
package repotest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"token-auth/internal/data/entity"
	"token-auth/internal/data/repository"

	"github.com/google/uuid"
)

// ErrUnavailable can be injected to simulate a persistence failure.
var ErrUnavailable = errors.New("store unavailable")

type UserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*entity.User
	Err   error
}

func NewUserStore(users ...*entity.User) *UserStore {
	s := &UserStore{users: make(map[uuid.UUID]*entity.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

var _ repository.UserRepository = (*UserStore)(nil)

func (s *UserStore) Create(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *UserStore) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) && u.DeletedAt == nil {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *UserStore) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var all []*entity.User
	for _, u := range s.users {
		if u.DeletedAt == nil {
			copied := *u
			all = append(all, &copied)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, limit, offset), nil
}

func (s *UserStore) CountAll(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return 0, s.Err
	}
	var n int64
	for _, u := range s.users {
		if u.DeletedAt == nil {
			n++
		}
	}
	return n, nil
}

// SetActive flips a user's active flag in place.
func (s *UserStore) SetActive(id uuid.UUID, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.IsActive = active
	}
}

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entity.Session
	Err      error
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[uuid.UUID]*entity.Session)}
}

var _ repository.SessionRepository = (*SessionStore)(nil)

func (s *SessionStore) Create(_ context.Context, session *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *SessionStore) FindByID(_ context.Context, id uuid.UUID) (*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	session, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (s *SessionStore) Invalidate(_ context.Context, id uuid.UUID, actor entity.Actor, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	session, ok := s.sessions[id]
	if !ok {
		return false, repository.ErrSessionNotFound
	}
	return session.Invalidate(actor, at), nil
}

func (s *SessionStore) InvalidateAllForUser(_ context.Context, userID uuid.UUID, actor entity.Actor, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	var n int64
	for _, session := range s.sessions {
		if session.UserID == userID && session.Invalidate(actor, at) {
			n++
		}
	}
	return n, nil
}

func (s *SessionStore) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Session, error) {
	return s.list(func(session *entity.Session) bool { return session.UserID == userID }, limit, offset)
}

func (s *SessionStore) ListAll(_ context.Context, limit, offset int) ([]*entity.Session, error) {
	return s.list(func(*entity.Session) bool { return true }, limit, offset)
}

func (s *SessionStore) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	all, err := s.ListByUser(ctx, userID, -1, 0)
	return int64(len(all)), err
}

func (s *SessionStore) CountAll(ctx context.Context) (int64, error) {
	all, err := s.ListAll(ctx, -1, 0)
	return int64(len(all)), err
}

// Len is the number of session rows ever created.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ForUser returns every session of userID, oldest first.
func (s *SessionStore) ForUser(userID uuid.UUID) []*entity.Session {
	all, _ := s.ListByUser(context.Background(), userID, -1, 0)
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return all
}

func (s *SessionStore) list(keep func(*entity.Session) bool, limit, offset int) ([]*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []*entity.Session
	for _, session := range s.sessions {
		if keep(session) {
			copied := *session
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

// page applies LIMIT/OFFSET; a negative limit means no limit.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit >= 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
