package model

import "github.com/google/uuid"

type Role struct {
	Base
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

type Permission struct {
	Base
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// UserRole links a user to a role.
type UserRole struct {
	UserID uuid.UUID `db:"user_id" json:"user_id"`
	RoleID uuid.UUID `db:"role_id" json:"role_id"`
}

// Permission names checked by the access layer.
const (
	PermAddRecipient    = "add_recipient"
	PermViewRecipient   = "view_recipient"
	PermChangeRecipient = "change_recipient"
	PermDeleteRecipient = "delete_recipient"

	PermAddMessage    = "add_message"
	PermViewMessage   = "view_message"
	PermChangeMessage = "change_message"
	PermDeleteMessage = "delete_message"

	PermAddMailing     = "add_mailing"
	PermViewMailing    = "view_mailing"
	PermChangeMailing  = "change_mailing"
	PermDeleteMailing  = "delete_mailing"
	PermSendMailing    = "send_mailing"
	PermDisableMailing = "disable_mailing"

	PermViewSendingAttempt = "view_sendingattempt"

	PermListUsers      = "can_list_users"
	PermActivateUser   = "can_activate_user"
	PermDeactivateUser = "can_deactivate_user"
)

// RoleManager is the seeded moderation role.
const RoleManager = "manager"

// ManagerPermissions is the permission set granted to RoleManager by seed-roles.
var ManagerPermissions = []string{
	PermViewRecipient,
	PermViewMessage,
	PermViewMailing,
	PermViewSendingAttempt,
	PermDisableMailing,
	PermListUsers,
	PermDeactivateUser,
}

// AllPermissions lists every permission known to the service.
var AllPermissions = []string{
	PermAddRecipient, PermViewRecipient, PermChangeRecipient, PermDeleteRecipient,
	PermAddMessage, PermViewMessage, PermChangeMessage, PermDeleteMessage,
	PermAddMailing, PermViewMailing, PermChangeMailing, PermDeleteMailing, PermSendMailing, PermDisableMailing,
	PermViewSendingAttempt,
	PermListUsers, PermActivateUser, PermDeactivateUser,
}
