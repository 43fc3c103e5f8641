package request

// LoginRequest carries the submitted credentials plus the client metadata
// captured on the session.
type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required,jwt"`
}
