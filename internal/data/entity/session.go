package entity

import (
	"time"

	"github.com/google/uuid"
)

type ActorKind string

const (
	ActorOwner         ActorKind = "owner"
	ActorAdministrator ActorKind = "administrator"
	ActorSystem        ActorKind = "system"
)

// SystemActorID identifies invalidations not triggered by a user.
var SystemActorID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Actor is whoever ended a session.
type Actor struct {
	Kind ActorKind
	ID   uuid.UUID
}

func OwnerActor(userID uuid.UUID) Actor {
	return Actor{Kind: ActorOwner, ID: userID}
}

func AdministratorActor(userID uuid.UUID) Actor {
	return Actor{Kind: ActorAdministrator, ID: userID}
}

func SystemActor() Actor {
	return Actor{Kind: ActorSystem, ID: SystemActorID}
}

// Session is one successful login. It is live until invalidated; the three
// invalidation fields are either all nil or all set.
type Session struct {
	BaseSimple
	UserID            uuid.UUID  `db:"user_id"`
	UserAgent         *string    `db:"user_agent"`
	IPAddress         *string    `db:"ip_address"`
	InvalidatedAt     *time.Time `db:"invalidated_at"`
	InvalidatedByID   *uuid.UUID `db:"invalidated_by_id"`
	InvalidatedByKind *ActorKind `db:"invalidated_by_kind"`
}

func (s *Session) IsLive() bool {
	return s.InvalidatedAt == nil
}

func (s *Session) IsInvalidated() bool {
	return !s.IsLive()
}

// InvalidatedBy returns the recorded actor, if any.
func (s *Session) InvalidatedBy() (Actor, bool) {
	if s.InvalidatedByID == nil || s.InvalidatedByKind == nil {
		return Actor{}, false
	}
	return Actor{Kind: *s.InvalidatedByKind, ID: *s.InvalidatedByID}, true
}

// Invalidate moves a live session to its terminal state. It reports false
// and leaves the session untouched when it was already invalidated.
func (s *Session) Invalidate(actor Actor, at time.Time) bool {
	if s.IsInvalidated() {
		return false
	}
	id, kind := actor.ID, actor.Kind
	s.InvalidatedAt = &at
	s.InvalidatedByID = &id
	s.InvalidatedByKind = &kind
	return true
}
