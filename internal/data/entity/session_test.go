package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSession_InvalidateIsTerminal(t *testing.T) {
	owner := uuid.New()
	admin := uuid.New()
	first := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	s := &Session{UserID: owner}
	assert.True(t, s.IsLive())

	assert.True(t, s.Invalidate(OwnerActor(owner), first))
	assert.False(t, s.Invalidate(AdministratorActor(admin), first.Add(time.Minute)))

	assert.False(t, s.IsLive())
	assert.Equal(t, first, *s.InvalidatedAt)
	actor, ok := s.InvalidatedBy()
	assert.True(t, ok)
	assert.Equal(t, OwnerActor(owner), actor)
}

func TestSession_InvalidatedByWhileLive(t *testing.T) {
	s := &Session{}
	_, ok := s.InvalidatedBy()
	assert.False(t, ok)
}

func TestUser_IsAdministrator(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdministrator())
	assert.False(t, (&User{Role: RoleMember}).IsAdministrator())
	assert.False(t, (*User)(nil).IsAdministrator())
}
