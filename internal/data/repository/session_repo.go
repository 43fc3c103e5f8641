package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"token-auth/internal/data/entity"
	"token-auth/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SessionRepository is the authoritative store for session state. Sessions
// are never deleted; they only move from live to invalidated.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	// Invalidate applies live -> invalidated only if the session is still
	// live. changed is false when another actor got there first.
	Invalidate(ctx context.Context, id uuid.UUID, actor entity.Actor, at time.Time) (changed bool, err error)
	InvalidateAllForUser(ctx context.Context, userID uuid.UUID, actor entity.Actor, at time.Time) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Session, error)
	ListAll(ctx context.Context, limit, offset int) ([]*entity.Session, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountAll(ctx context.Context) (int64, error)
}

type sessionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSessionRepository(db database.PgxIface, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "session")),
	}
}

const sessionColumns = `id, user_id, created_at, user_agent, ip_address,
		       invalidated_at, invalidated_by_id, invalidated_by_kind`

func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, created_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.CreatedAt,
		session.UserAgent,
		session.IPAddress,
	)
	if err != nil {
		r.log.Error("Failed to create session",
			zap.Error(err),
			zap.String("user_id", session.UserID.String()),
		)
		return fmt.Errorf("create session for user %s: %w", session.UserID, err)
	}

	return nil
}

func (r *sessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE id = $1
	`

	session, err := scanSession(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find session",
			zap.Error(err),
			zap.String("session_id", id.String()),
		)
		return nil, fmt.Errorf("find session %s: %w", id, err)
	}

	return session, nil
}

func (r *sessionRepository) Invalidate(ctx context.Context, id uuid.UUID, actor entity.Actor, at time.Time) (bool, error) {
	query := `
		UPDATE sessions
		SET invalidated_at = $2, invalidated_by_id = $3, invalidated_by_kind = $4
		WHERE id = $1 AND invalidated_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, at, actor.ID, string(actor.Kind))
	if err != nil {
		r.log.Error("Failed to invalidate session",
			zap.Error(err),
			zap.String("session_id", id.String()),
		)
		return false, fmt.Errorf("invalidate session %s: %w", id, err)
	}

	if result.RowsAffected() == 1 {
		return true, nil
	}

	// Nothing updated: either already invalidated or unknown.
	var exists bool
	err = r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check session existence",
			zap.Error(err),
			zap.String("session_id", id.String()),
		)
		return false, fmt.Errorf("check session %s: %w", id, err)
	}
	if !exists {
		return false, ErrSessionNotFound
	}

	return false, nil
}

func (r *sessionRepository) InvalidateAllForUser(ctx context.Context, userID uuid.UUID, actor entity.Actor, at time.Time) (int64, error) {
	query := `
		UPDATE sessions
		SET invalidated_at = $2, invalidated_by_id = $3, invalidated_by_kind = $4
		WHERE user_id = $1 AND invalidated_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, userID, at, actor.ID, string(actor.Kind))
	if err != nil {
		r.log.Error("Failed to invalidate user sessions",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("invalidate sessions of user %s: %w", userID, err)
	}

	return result.RowsAffected(), nil
}

func (r *sessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list user sessions",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list sessions of user %s: %w", userID, err)
	}

	return r.collect(rows)
}

func (r *sessionRepository) ListAll(ctx context.Context, limit, offset int) ([]*entity.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list sessions",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("list sessions limit %d offset %d: %w", limit, offset, err)
	}

	return r.collect(rows)
}

func (r *sessionRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sessions WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count user sessions", zap.Error(err), zap.String("user_id", userID.String()))
		return 0, fmt.Errorf("count sessions of user %s: %w", userID, err)
	}
	return count, nil
}

func (r *sessionRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count sessions", zap.Error(err))
		return 0, fmt.Errorf("count all sessions: %w", err)
	}
	return count, nil
}

func (r *sessionRepository) collect(rows pgx.Rows) ([]*entity.Session, error) {
	defer rows.Close()

	var sessions []*entity.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			r.log.Error("Failed to scan session row", zap.Error(err))
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate session rows: %w", err)
	}

	return sessions, nil
}

func scanSession(row pgx.Row) (*entity.Session, error) {
	var (
		session entity.Session
		kind    *string
	)
	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.CreatedAt,
		&session.UserAgent,
		&session.IPAddress,
		&session.InvalidatedAt,
		&session.InvalidatedByID,
		&kind,
	)
	if err != nil {
		return nil, err
	}
	if kind != nil {
		k := entity.ActorKind(*kind)
		session.InvalidatedByKind = &k
	}
	return &session, nil
}
