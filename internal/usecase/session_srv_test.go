package usecase

import (
	"context"
	"testing"
	"time"

	"token-auth/internal/data/entity"
	"token-auth/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func (f *fixture) sessionService() SessionService {
	return NewSessionService(f.users, f.sessions, f.clock, zap.NewNop())
}

func TestSessionService_ListSessions(t *testing.T) {
	ctx := context.Background()
	page := &request.PaginatedRequest{Page: 1, PerPage: 10}

	f := newFixture(t)
	f.liveSession(t, f.member)
	f.clock.Advance(time.Second)
	f.liveSession(t, f.member)
	f.liveSession(t, f.admin)

	t.Run("member sees own sessions", func(t *testing.T) {
		resp, err := f.sessionService().ListSessions(ctx, &Principal{User: f.member}, page)
		require.NoError(t, err)
		assert.Len(t, resp.Data, 2)
		assert.EqualValues(t, 2, resp.Pagination.Total)
		for _, s := range resp.Data {
			assert.Equal(t, f.member.ID.String(), s.UserID)
		}
	})

	t.Run("admin sees everything", func(t *testing.T) {
		resp, err := f.sessionService().ListSessions(ctx, &Principal{User: f.admin}, page)
		require.NoError(t, err)
		assert.Len(t, resp.Data, 3)
		assert.EqualValues(t, 3, resp.Pagination.Total)
	})

	t.Run("paginates", func(t *testing.T) {
		resp, err := f.sessionService().ListSessions(ctx, &Principal{User: f.admin}, &request.PaginatedRequest{Page: 2, PerPage: 2})
		require.NoError(t, err)
		assert.Len(t, resp.Data, 1)
		assert.Equal(t, 2, resp.Pagination.TotalPages)
	})

	t.Run("invalid page", func(t *testing.T) {
		_, err := f.sessionService().ListSessions(ctx, &Principal{User: f.admin}, &request.PaginatedRequest{Page: 0, PerPage: 10})
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestSessionService_RevokeUserSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("admin revokes every live session", func(t *testing.T) {
		f := newFixture(t)
		first := f.liveSession(t, f.member)
		f.liveSession(t, f.member)
		other := f.liveSession(t, f.admin)
		_, err := f.sessions.Invalidate(ctx, first.ID, entity.OwnerActor(f.member.ID), f.clock.Now())
		require.NoError(t, err)

		f.clock.Advance(time.Minute)
		resp, err := f.sessionService().RevokeUserSessions(ctx, &Principal{User: f.admin}, f.member.ID.String())
		require.NoError(t, err)
		assert.EqualValues(t, 1, resp.Invalidated)

		for _, s := range f.sessions.ForUser(f.member.ID) {
			require.True(t, s.IsInvalidated())
			actor, _ := s.InvalidatedBy()
			if s.ID == first.ID {
				assert.Equal(t, entity.OwnerActor(f.member.ID), actor)
				assert.Equal(t, testEpoch, *s.InvalidatedAt)
				continue
			}
			assert.Equal(t, entity.AdministratorActor(f.admin.ID), actor)
			assert.Equal(t, testEpoch.Add(time.Minute), *s.InvalidatedAt)
		}

		stored, err := f.sessions.FindByID(ctx, other.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsLive())
	})

	t.Run("member is forbidden", func(t *testing.T) {
		f := newFixture(t)
		f.liveSession(t, f.admin)

		_, err := f.sessionService().RevokeUserSessions(ctx, &Principal{User: f.member}, f.admin.ID.String())
		assert.ErrorIs(t, err, ErrForbidden)
		for _, s := range f.sessions.ForUser(f.admin.ID) {
			assert.True(t, s.IsLive())
		}
	})

	t.Run("bad id", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.sessionService().RevokeUserSessions(ctx, &Principal{User: f.admin}, "42")
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.sessionService().RevokeUserSessions(ctx, &Principal{User: f.admin}, uuid.NewString())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
