package snapshot

import (
	"context"

	"github.com/staffdesk/identity-api/internal/core/domain"
)

func (s *Store) Groups(_ context.Context) ([]domain.GroupWithParent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.GroupWithParent, 0, len(s.data.Groups))
	for _, g := range s.data.Groups {
		view := domain.GroupWithParent{Group: g}
		view.ParentID = cloneID(g.ParentID)
		view.LeaderID = cloneID(g.LeaderID)
		if g.ParentID != nil {
			if parent, ok := s.data.groupByID(*g.ParentID); ok {
				view.ParentName = parent.Name
			}
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *Store) GroupByID(_ context.Context, id int64) (*domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.data.groupByID(id)
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	g.ParentID = cloneID(g.ParentID)
	g.LeaderID = cloneID(g.LeaderID)
	return &g, nil
}

func (s *Store) DepthOf(_ context.Context, id int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.groupByID(id); !ok {
		return 0, domain.ErrGroupNotFound
	}
	return s.data.depthOf(id), nil
}

// CreateGroup inserts a group under parentID (nil = root). The depth check and
// the insert share one critical section so concurrent creations cannot stack
// past the limit.
func (s *Store) CreateGroup(_ context.Context, name, description string, parentID *int64) (*domain.Group, error) {
	var group domain.Group
	err := s.update(func(d *dataset) error {
		if parentID != nil {
			if _, ok := d.groupByID(*parentID); !ok {
				return domain.ErrGroupNotFound
			}
			if d.depthOf(*parentID)+1 >= domain.MaxGroupDepth {
				return domain.ErrGroupDepth
			}
		}
		group = domain.Group{
			ID:          d.NextGroupID,
			Name:        name,
			Description: description,
			ParentID:    cloneID(parentID),
		}
		d.NextGroupID++
		d.Groups = append(d.Groups, group)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// DeleteGroup applies the three-step teardown as one unit: direct children are
// promoted to root, member users are detached, then the record goes away. It
// does not recurse into grandchildren.
func (s *Store) DeleteGroup(_ context.Context, id int64) error {
	return s.update(func(d *dataset) error {
		idx := -1
		for i := range d.Groups {
			if d.Groups[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domain.ErrGroupNotFound
		}

		for i := range d.Groups {
			if d.Groups[i].ParentID != nil && *d.Groups[i].ParentID == id {
				d.Groups[i].ParentID = nil
			}
		}
		for i := range d.Users {
			if d.Users[i].GroupID != nil && *d.Users[i].GroupID == id {
				d.Users[i].GroupID = nil
			}
		}
		d.Groups = append(d.Groups[:idx], d.Groups[idx+1:]...)
		return nil
	})
}
