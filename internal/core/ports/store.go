package ports

import (
	"context"

	"github.com/staffdesk/identity-api/internal/core/domain"
)

// UserStore is the durable side of the user/role model. Every mutating method
// is one critical section: the decision, the in-memory change and the flush to
// the snapshot file commit (or fail) together.
type UserStore interface {
	// RegisterUser creates a user and assigns its initial roles. The very
	// first user in an empty dataset is granted usr, adm and Sa; everyone
	// after that gets usr only. The count check and the insert happen inside
	// the same critical section.
	RegisterUser(ctx context.Context, username, passwordHash string) (*domain.User, []string, error)

	UserByUsername(ctx context.Context, username string) (*domain.User, error)
	UserByID(ctx context.Context, id int64) (*domain.User, error)
	Users(ctx context.Context) ([]domain.User, error)

	// RolesOf returns the names of all roles held by the user, sorted.
	RolesOf(ctx context.Context, userID int64) ([]string, error)

	// ToggleRole adds the named role if the user lacks it, removes it
	// otherwise, and reports whether the user holds it afterwards.
	ToggleRole(ctx context.Context, userID int64, roleName string) (bool, error)

	// ToggleActive flips the account's active flag and returns the new state.
	ToggleActive(ctx context.Context, userID int64) (bool, error)

	// SetUserGroup assigns the user to a group, or detaches it when groupID
	// is nil. A non-nil groupID must reference an existing group.
	SetUserGroup(ctx context.Context, userID int64, groupID *int64) error

	// DeleteUser removes the user and all of its role assignments.
	DeleteUser(ctx context.Context, userID int64) error

	// Reset deletes all users and role assignments and restarts the user id
	// counter. Roles and groups survive.
	Reset(ctx context.Context) error
}

// GroupStore is the durable side of the group hierarchy.
type GroupStore interface {
	Groups(ctx context.Context) ([]domain.GroupWithParent, error)
	GroupByID(ctx context.Context, id int64) (*domain.Group, error)

	// DepthOf reports the group's depth (root = 1). The walk is bounded at
	// domain.MaxGroupDepth so cyclic parent data cannot loop forever.
	DepthOf(ctx context.Context, id int64) (int, error)

	// CreateGroup inserts a group under parentID (nil = root). Creation is
	// rejected with domain.ErrGroupDepth when the new group's depth would
	// reach domain.MaxGroupDepth.
	CreateGroup(ctx context.Context, name, description string, parentID *int64) (*domain.Group, error)

	// DeleteGroup promotes the group's direct children to root, detaches its
	// member users and removes the record, all as one unit.
	DeleteGroup(ctx context.Context, id int64) error
}
