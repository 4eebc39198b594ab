package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/staffdesk/identity-api/internal/api/metrics"
	"github.com/staffdesk/identity-api/internal/core/domain"
	"github.com/staffdesk/identity-api/internal/core/ports"
)

type userService struct {
	users    ports.UserStore
	groups   ports.GroupStore
	presence ports.Presence
	log      zerolog.Logger
}

// NewUserService returns the service behind the monitoring and admin user
// surfaces.
func NewUserService(users ports.UserStore, groups ports.GroupStore, presence ports.Presence, log zerolog.Logger) ports.UserService {
	return &userService{users: users, groups: groups, presence: presence, log: log}
}

// ListPublicStatus returns active accounts with their online flag.
// Super-administrators are invisible on this surface.
func (s *userService) ListPublicStatus(ctx context.Context) ([]domain.UserStatus, error) {
	users, err := s.users.Users(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.UserStatus, 0, len(users))
	for _, u := range users {
		if !u.IsActive {
			continue
		}
		roles, err := s.users.RolesOf(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if domain.HasRole(roles, domain.RoleSuperAdmin) {
			continue
		}
		out = append(out, domain.UserStatus{
			ID:       u.ID,
			Username: u.Username,
			Online:   s.presence.IsOnline(u.Username),
		})
	}
	return out, nil
}

// ListAdminUsers returns the full roster with roles, group name and online
// flag. Super-administrators are excluded regardless of caller identity.
func (s *userService) ListAdminUsers(ctx context.Context) ([]domain.UserDetail, error) {
	users, err := s.users.Users(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.groups.Groups(ctx)
	if err != nil {
		return nil, err
	}
	groupNames := make(map[int64]string, len(groups))
	for _, g := range groups {
		groupNames[g.ID] = g.Name
	}

	out := make([]domain.UserDetail, 0, len(users))
	for _, u := range users {
		roles, err := s.users.RolesOf(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if domain.HasRole(roles, domain.RoleSuperAdmin) {
			continue
		}

		detail := domain.UserDetail{
			ID:       u.ID,
			Username: u.Username,
			IsActive: u.IsActive,
			GroupID:  u.GroupID,
			Roles:    roles,
			Online:   s.presence.IsOnline(u.Username),
			IsAdmin:  domain.HasRole(roles, domain.RoleAdmin),
		}
		if u.GroupID != nil {
			detail.GroupName = groupNames[*u.GroupID]
		}
		out = append(out, detail)
	}
	return out, nil
}

// ToggleRole adds or removes a named role on the target. Stripping one's own
// admin role is refused so an administrator cannot lock themselves out
// mid-session.
func (s *userService) ToggleRole(ctx context.Context, callerID, targetID int64, roleName string) (bool, error) {
	if callerID == targetID && roleName == domain.RoleAdmin {
		return false, domain.ErrSelfAction
	}

	nowHeld, err := s.users.ToggleRole(ctx, targetID, roleName)
	if err != nil {
		return false, err
	}

	metrics.AdminActionsTotal.WithLabelValues("toggle_role").Inc()
	s.log.Info().
		Int64("caller_id", callerID).
		Int64("target_id", targetID).
		Str("role", roleName).
		Bool("now_held", nowHeld).
		Msg("role toggled")
	return nowHeld, nil
}

// ToggleActive bans or unbans the target. A caller can never deactivate its
// own account; a freshly deactivated target is forced offline. Reactivation
// does not restore presence; that takes a fresh login.
func (s *userService) ToggleActive(ctx context.Context, callerID, targetID int64) (bool, error) {
	if callerID == targetID {
		return false, domain.ErrSelfAction
	}

	target, err := s.users.UserByID(ctx, targetID)
	if err != nil {
		return false, err
	}

	nowActive, err := s.users.ToggleActive(ctx, targetID)
	if err != nil {
		return false, err
	}
	if !nowActive {
		s.presence.MarkOffline(target.Username)
	}

	metrics.AdminActionsTotal.WithLabelValues("toggle_active").Inc()
	s.log.Info().
		Int64("caller_id", callerID).
		Int64("target_id", targetID).
		Bool("now_active", nowActive).
		Msg("account status toggled")
	return nowActive, nil
}

func (s *userService) UpdateUserGroup(ctx context.Context, targetID int64, groupID *int64) error {
	if err := s.users.SetUserGroup(ctx, targetID, groupID); err != nil {
		return err
	}
	metrics.AdminActionsTotal.WithLabelValues("update_group").Inc()
	return nil
}

// DeleteUser permanently removes the target and its role assignments.
// Self-delete is refused even for super-administrators.
func (s *userService) DeleteUser(ctx context.Context, callerID, targetID int64) error {
	if callerID == targetID {
		return domain.ErrSelfAction
	}

	if err := s.users.DeleteUser(ctx, targetID); err != nil {
		return err
	}

	metrics.AdminActionsTotal.WithLabelValues("delete_user").Inc()
	s.log.Warn().Int64("caller_id", callerID).Int64("target_id", targetID).Msg("user deleted")
	return nil
}

// SystemReset wipes users, role assignments and presence, and restarts the
// user id counter. Roles and groups survive; nothing is reseeded, so the next
// registration founds the system again.
func (s *userService) SystemReset(ctx context.Context, callerID int64) error {
	s.log.Warn().Int64("caller_id", callerID).Msg("system reset initiated")

	if err := s.users.Reset(ctx); err != nil {
		return err
	}
	s.presence.Clear()

	metrics.AdminActionsTotal.WithLabelValues("system_reset").Inc()
	s.log.Warn().Msg("system reset to factory state")
	return nil
}
