package usecase

import "net/http"

// Error is a failure the caller is allowed to see. Detail strings are part
// of the public contract and must not change.
type Error struct {
	status int
	code   string
	title  string
	detail string
}

func newError(status int, code, detail string) *Error {
	return &Error{status: status, code: code, title: http.StatusText(status), detail: detail}
}

func (e *Error) Error() string     { return e.detail }
func (e *Error) StatusCode() int   { return e.status }
func (e *Error) ErrorCode() string { return e.code }
func (e *Error) Title() string     { return e.title }
func (e *Error) Detail() string    { return e.detail }

// Input validation.
var (
	ErrMissingEmail    = newError(http.StatusNotFound, "missing_email", "Email is not found")
	ErrMissingPassword = newError(http.StatusUnauthorized, "missing_password", "Password is not found")
	ErrInvalidRequest  = newError(http.StatusBadRequest, "invalid_request", "Request is invalid")
	ErrNotFound        = newError(http.StatusNotFound, "not_found", "Resource is not found")
)

// Authentication.
var (
	ErrInvalidCredentials = newError(http.StatusUnauthorized, "invalid_credentials", "Email or password is invalid")
	ErrTooManyAttempts    = newError(http.StatusTooManyRequests, "too_many_attempts", "Too many failed login attempts, try again later")
)

// Token resolution.
var (
	ErrTokenMissing       = newError(http.StatusUnauthorized, "token_missing", "Token is not found")
	ErrTokenMalformed     = newError(http.StatusUnauthorized, "token_malformed", "Token is malformed")
	ErrTokenExpired       = newError(http.StatusUnauthorized, "token_expired", "Token has expired")
	ErrSessionNotFound    = newError(http.StatusUnauthorized, "session_not_found", "Session is not found")
	ErrSessionInvalidated = newError(http.StatusUnauthorized, "session_invalidated", "Session has been invalidated")
)

// Authorization.
var ErrForbidden = newError(http.StatusForbidden, "forbidden", "You are forbidden from performing this action")
