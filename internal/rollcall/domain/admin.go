package domain

// AdminAction enumerates the privileged operations an administrator can
// perform. Handlers dispatch on this tag through a typed table rather than
// branching on free-form action strings.
type AdminAction string

const (
	AdminResetPassword AdminAction = "reset_password"
	AdminChangeRole    AdminAction = "change_role"
	AdminDeleteUser    AdminAction = "delete_user"
	AdminListUsers     AdminAction = "list_users"
)
