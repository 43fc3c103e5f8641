package response

import (
	"time"

	"token-auth/internal/data/entity"
)

type ActorResponse struct {
	Kind entity.ActorKind `json:"kind"`
	ID   string           `json:"id"`
}

type SessionResponse struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UserAgent     *string        `json:"user_agent,omitempty"`
	IPAddress     *string        `json:"ip_address,omitempty"`
	Live          bool           `json:"live"`
	InvalidatedAt *time.Time     `json:"invalidated_at,omitempty"`
	InvalidatedBy *ActorResponse `json:"invalidated_by,omitempty"`
}

type RevokeResponse struct {
	UserID      string `json:"user_id"`
	Invalidated int64  `json:"invalidated"`
}

func SessionToResponse(session *entity.Session) SessionResponse {
	resp := SessionResponse{
		ID:            session.ID.String(),
		UserID:        session.UserID.String(),
		CreatedAt:     session.CreatedAt,
		UserAgent:     session.UserAgent,
		IPAddress:     session.IPAddress,
		Live:          session.IsLive(),
		InvalidatedAt: session.InvalidatedAt,
	}
	if actor, ok := session.InvalidatedBy(); ok {
		resp.InvalidatedBy = &ActorResponse{Kind: actor.Kind, ID: actor.ID.String()}
	}
	return resp
}
