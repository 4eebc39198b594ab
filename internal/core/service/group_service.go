package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/staffdesk/identity-api/internal/api/metrics"
	"github.com/staffdesk/identity-api/internal/core/domain"
	"github.com/staffdesk/identity-api/internal/core/ports"
)

type groupService struct {
	groups ports.GroupStore
	log    zerolog.Logger
}

// NewGroupService returns the service behind the group hierarchy surface.
func NewGroupService(groups ports.GroupStore, log zerolog.Logger) ports.GroupService {
	return &groupService{groups: groups, log: log}
}

func (s *groupService) List(ctx context.Context) ([]domain.GroupWithParent, error) {
	return s.groups.Groups(ctx)
}

// Create validates the name and delegates to the store, which enforces the
// depth limit inside its critical section.
func (s *groupService) Create(ctx context.Context, name, description string, parentID *int64) (*domain.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: group name is required", domain.ErrValidation)
	}

	group, err := s.groups.CreateGroup(ctx, name, description, parentID)
	if err != nil {
		return nil, err
	}

	metrics.AdminActionsTotal.WithLabelValues("create_group").Inc()
	s.log.Info().Int64("group_id", group.ID).Str("name", group.Name).Msg("group created")
	return group, nil
}

func (s *groupService) Delete(ctx context.Context, id int64) error {
	if err := s.groups.DeleteGroup(ctx, id); err != nil {
		return err
	}

	metrics.AdminActionsTotal.WithLabelValues("delete_group").Inc()
	s.log.Info().Int64("group_id", id).Msg("group deleted, children promoted to root")
	return nil
}
