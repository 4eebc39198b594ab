package ports

import (
	"context"

	"github.com/staffdesk/identity-api/internal/core/domain"
)

// UserService covers the monitoring and administration surface over accounts.
// Role gating (adm / Sa) happens in the transport middleware; the service
// enforces the invariants that depend on caller identity.
type UserService interface {
	// ListPublicStatus returns active, non-super-admin users with their
	// online flag.
	ListPublicStatus(ctx context.Context) ([]domain.UserStatus, error)

	// ListAdminUsers returns the full roster with roles, group and online
	// flag. Super-admin accounts are never included.
	ListAdminUsers(ctx context.Context) ([]domain.UserDetail, error)

	// ToggleRole adds or removes a named role on the target. A caller cannot
	// strip its own admin role.
	ToggleRole(ctx context.Context, callerID, targetID int64, roleName string) (bool, error)

	// ToggleActive bans or unbans the target. Self-ban is rejected; a
	// deactivated target is forced offline.
	ToggleActive(ctx context.Context, callerID, targetID int64) (bool, error)

	UpdateUserGroup(ctx context.Context, targetID int64, groupID *int64) error

	// DeleteUser permanently removes the target and its role assignments.
	// Self-delete is rejected.
	DeleteUser(ctx context.Context, callerID, targetID int64) error

	// SystemReset irreversibly clears all users, role assignments and
	// presence. Roles and groups survive; nothing is reseeded.
	SystemReset(ctx context.Context, callerID int64) error
}

type GroupService interface {
	List(ctx context.Context) ([]domain.GroupWithParent, error)
	Create(ctx context.Context, name, description string, parentID *int64) (*domain.Group, error)
	Delete(ctx context.Context, id int64) error
}
