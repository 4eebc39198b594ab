package snapshot

import (
	"context"

	"github.com/staffdesk/identity-api/internal/core/domain"
)

// RegisterUser inserts a new account and its initial role assignments. The
// "is this the first user" decision and the insert run under the same lock, so
// two concurrent registrations can never both claim the founding
// super-administrator grant.
func (s *Store) RegisterUser(_ context.Context, username, passwordHash string) (*domain.User, []string, error) {
	var (
		user  domain.User
		roles []string
	)
	err := s.update(func(d *dataset) error {
		for i := range d.Users {
			if d.Users[i].Username == username {
				return domain.ErrUserExists
			}
		}

		founding := len(d.Users) == 0

		user = domain.User{
			ID:           d.NextUserID,
			Username:     username,
			PasswordHash: passwordHash,
			IsActive:     true,
		}
		d.NextUserID++
		d.Users = append(d.Users, user)

		grant := []string{domain.RoleUser}
		if founding {
			grant = append(grant, domain.RoleAdmin, domain.RoleSuperAdmin)
		}
		for _, name := range grant {
			role, ok := d.roleByName(name)
			if !ok {
				return domain.ErrRoleNotFound
			}
			d.UserRoles = append(d.UserRoles, domain.UserRole{UserID: user.ID, RoleID: role.ID})
		}
		roles = grant
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &user, roles, nil
}

func (s *Store) UserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.data.Users {
		if u.Username == username {
			out := u
			out.GroupID = cloneID(u.GroupID)
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) UserByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.data.userIndex(id); i >= 0 {
		out := s.data.Users[i]
		out.GroupID = cloneID(out.GroupID)
		return &out, nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) Users(_ context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.User, len(s.data.Users))
	for i, u := range s.data.Users {
		out[i] = u
		out[i].GroupID = cloneID(u.GroupID)
	}
	return out, nil
}

func (s *Store) RolesOf(_ context.Context, userID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.rolesOf(userID), nil
}

// ToggleRole adds the named role when absent, removes it when held. Applying
// it twice returns the user to its original assignment.
func (s *Store) ToggleRole(_ context.Context, userID int64, roleName string) (bool, error) {
	var nowHeld bool
	err := s.update(func(d *dataset) error {
		role, ok := d.roleByName(roleName)
		if !ok {
			return domain.ErrRoleNotFound
		}
		if d.userIndex(userID) < 0 {
			return domain.ErrUserNotFound
		}

		for i, ur := range d.UserRoles {
			if ur.UserID == userID && ur.RoleID == role.ID {
				d.UserRoles = append(d.UserRoles[:i], d.UserRoles[i+1:]...)
				nowHeld = false
				return nil
			}
		}
		d.UserRoles = append(d.UserRoles, domain.UserRole{UserID: userID, RoleID: role.ID})
		nowHeld = true
		return nil
	})
	return nowHeld, err
}

// ToggleActive flips the account's active flag and returns the new state.
func (s *Store) ToggleActive(_ context.Context, userID int64) (bool, error) {
	var nowActive bool
	err := s.update(func(d *dataset) error {
		i := d.userIndex(userID)
		if i < 0 {
			return domain.ErrUserNotFound
		}
		d.Users[i].IsActive = !d.Users[i].IsActive
		nowActive = d.Users[i].IsActive
		return nil
	})
	return nowActive, err
}

func (s *Store) SetUserGroup(_ context.Context, userID int64, groupID *int64) error {
	return s.update(func(d *dataset) error {
		i := d.userIndex(userID)
		if i < 0 {
			return domain.ErrUserNotFound
		}
		if groupID != nil {
			if _, ok := d.groupByID(*groupID); !ok {
				return domain.ErrGroupNotFound
			}
		}
		d.Users[i].GroupID = cloneID(groupID)
		return nil
	})
}

// DeleteUser removes the account and cascades removal of its role
// assignments.
func (s *Store) DeleteUser(_ context.Context, userID int64) error {
	return s.update(func(d *dataset) error {
		i := d.userIndex(userID)
		if i < 0 {
			return domain.ErrUserNotFound
		}
		d.Users = append(d.Users[:i], d.Users[i+1:]...)

		kept := d.UserRoles[:0]
		for _, ur := range d.UserRoles {
			if ur.UserID != userID {
				kept = append(kept, ur)
			}
		}
		d.UserRoles = kept
		return nil
	})
}

// Reset clears all users and role assignments and restarts the user id
// counter. Roles and groups survive; the next registration founds the system
// again.
func (s *Store) Reset(_ context.Context) error {
	return s.update(func(d *dataset) error {
		d.Users = nil
		d.UserRoles = nil
		d.NextUserID = 1
		return nil
	})
}
