package usecase

import "token-auth/internal/data/entity"

type Action string

const (
	ActionLogout             Action = "logout"
	ActionListOwnSessions    Action = "sessions:list-own"
	ActionListAllSessions    Action = "sessions:list-all"
	ActionRevokeUserSessions Action = "sessions:revoke-user"
	ActionListUsers          Action = "users:list"
)

// adminOnly[action] is false for actions any authenticated user may take.
var adminOnly = map[Action]bool{
	ActionLogout:             false,
	ActionListOwnSessions:    false,
	ActionListAllSessions:    true,
	ActionRevokeUserSessions: true,
	ActionListUsers:          true,
}

// Authorize decides whether user may perform action. Role determination is
// left to the user model; unknown actions are denied.
func Authorize(user *entity.User, action Action) error {
	if user == nil {
		return ErrForbidden
	}
	restricted, known := adminOnly[action]
	if !known {
		return ErrForbidden
	}
	if restricted && !user.IsAdministrator() {
		return ErrForbidden
	}
	return nil
}
