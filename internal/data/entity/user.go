package entity

type UserRole string

const (
	RoleMember UserRole = "member"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	Base
	Username     string   `db:"username"`
	Email        string   `db:"email"`
	PasswordHash string   `db:"password"`
	Role         UserRole `db:"role"`
	IsActive     bool     `db:"is_active"`
}

// IsAdministrator is the only role question the auth core asks.
func (u *User) IsAdministrator() bool {
	return u != nil && u.Role == RoleAdmin
}
