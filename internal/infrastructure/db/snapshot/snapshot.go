// Package snapshot implements the durable store for the identity dataset.
//
// The canonical dataset lives in memory. Every mutating operation runs as one
// critical section that applies the change to a copy of the dataset, rewrites
// the whole snapshot file, and only then swaps the copy in, so durable state
// never lags behind what callers were told succeeded, and a failed flush
// leaves the previous state intact. There is no write-ahead log and no
// incremental persistence.
package snapshot

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/staffdesk/identity-api/internal/core/domain"
)

// dataset is the in-memory representation of everything the service persists.
// Slices model the original tables; id counters survive row deletion so ids
// are never reused within a dataset generation.
type dataset struct {
	Users       []domain.User
	Roles       []domain.Role
	UserRoles   []domain.UserRole
	Groups      []domain.Group
	NextUserID  int64
	NextRoleID  int64
	NextGroupID int64
}

// fileUser is the on-disk shape of a user row. IsActive is a pointer so that
// rows written before the column existed can be detected and migrated.
type fileUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	IsActive *bool  `json:"is_active,omitempty"`
	GroupID  *int64 `json:"group_id,omitempty"`
}

type fileSnapshot struct {
	Users       []fileUser        `json:"users"`
	Roles       []domain.Role     `json:"roles"`
	UserRoles   []domain.UserRole `json:"user_roles"`
	Groups      []domain.Group    `json:"groups"`
	NextUserID  int64             `json:"next_user_id,omitempty"`
	NextRoleID  int64             `json:"next_role_id,omitempty"`
	NextGroupID int64             `json:"next_group_id,omitempty"`
}

// seedDataset builds the fresh dataset written on first startup: the three
// fixed roles, no users, no groups.
func seedDataset() dataset {
	d := dataset{NextUserID: 1, NextRoleID: 1, NextGroupID: 1}
	for _, name := range domain.SeedRoles {
		d.Roles = append(d.Roles, domain.Role{ID: d.NextRoleID, Name: name})
		d.NextRoleID++
	}
	return d
}

// encode serializes the full dataset. Collections keep insertion order so
// consecutive snapshots of the same state are byte-identical.
func encode(d dataset) ([]byte, error) {
	f := fileSnapshot{
		Roles:       d.Roles,
		UserRoles:   d.UserRoles,
		Groups:      d.Groups,
		NextUserID:  d.NextUserID,
		NextRoleID:  d.NextRoleID,
		NextGroupID: d.NextGroupID,
	}
	for _, u := range d.Users {
		active := u.IsActive
		f.Users = append(f.Users, fileUser{
			ID:       u.ID,
			Username: u.Username,
			Password: u.PasswordHash,
			IsActive: &active,
			GroupID:  u.GroupID,
		})
	}
	return json.MarshalIndent(f, "", "  ")
}

// decode parses a snapshot file and applies the additive schema migrations.
// The second return reports whether anything was migrated and the file should
// be rewritten. Running decode over an already-migrated snapshot changes
// nothing.
func decode(b []byte) (dataset, bool, error) {
	var f fileSnapshot
	if err := json.Unmarshal(b, &f); err != nil {
		return dataset{}, false, fmt.Errorf("parse snapshot: %w", err)
	}

	d := dataset{
		Roles:       f.Roles,
		UserRoles:   f.UserRoles,
		Groups:      f.Groups,
		NextUserID:  f.NextUserID,
		NextRoleID:  f.NextRoleID,
		NextGroupID: f.NextGroupID,
	}

	migrated := false
	for _, fu := range f.Users {
		u := domain.User{
			ID:           fu.ID,
			Username:     fu.Username,
			PasswordHash: fu.Password,
			IsActive:     true,
			GroupID:      fu.GroupID,
		}
		// Pre-migration rows have no is_active attribute; they default to
		// active rather than locking everyone out.
		if fu.IsActive == nil {
			migrated = true
		} else {
			u.IsActive = *fu.IsActive
		}
		d.Users = append(d.Users, u)
	}

	// Datasets written before the group feature have no groups collection;
	// nil is already "no groups", nothing to do beyond counter derivation.

	// Seed roles that a legacy dataset may be missing.
	for _, name := range domain.SeedRoles {
		if _, ok := d.roleByName(name); !ok {
			d.Roles = append(d.Roles, domain.Role{ID: maxRoleID(d.Roles) + 1, Name: name})
			migrated = true
		}
	}

	// Legacy snapshots carry no id counters; derive them from the data.
	if d.NextUserID <= 0 {
		d.NextUserID = maxUserID(d.Users) + 1
		migrated = true
	}
	if d.NextRoleID <= 0 {
		d.NextRoleID = maxRoleID(d.Roles) + 1
		migrated = true
	}
	if d.NextGroupID <= 0 {
		d.NextGroupID = maxGroupID(d.Groups) + 1
		migrated = true
	}

	return d, migrated, nil
}

func maxUserID(users []domain.User) int64 {
	var max int64
	for _, u := range users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max
}

func maxRoleID(roles []domain.Role) int64 {
	var max int64
	for _, r := range roles {
		if r.ID > max {
			max = r.ID
		}
	}
	return max
}

func maxGroupID(groups []domain.Group) int64 {
	var max int64
	for _, g := range groups {
		if g.ID > max {
			max = g.ID
		}
	}
	return max
}

// clone deep-copies the dataset, including the pointed-to optional fields, so
// a mutation staged on the copy can never alias the committed state.
func (d dataset) clone() dataset {
	out := dataset{
		Users:       make([]domain.User, len(d.Users)),
		Roles:       append([]domain.Role(nil), d.Roles...),
		UserRoles:   append([]domain.UserRole(nil), d.UserRoles...),
		Groups:      make([]domain.Group, len(d.Groups)),
		NextUserID:  d.NextUserID,
		NextRoleID:  d.NextRoleID,
		NextGroupID: d.NextGroupID,
	}
	for i, u := range d.Users {
		out.Users[i] = u
		out.Users[i].GroupID = cloneID(u.GroupID)
	}
	for i, g := range d.Groups {
		out.Groups[i] = g
		out.Groups[i].ParentID = cloneID(g.ParentID)
		out.Groups[i].LeaderID = cloneID(g.LeaderID)
	}
	return out
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func (d *dataset) roleByName(name string) (domain.Role, bool) {
	for _, r := range d.Roles {
		if r.Name == name {
			return r, true
		}
	}
	return domain.Role{}, false
}

func (d *dataset) userIndex(id int64) int {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *dataset) groupByID(id int64) (domain.Group, bool) {
	for _, g := range d.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return domain.Group{}, false
}

// rolesOf returns the sorted role names held by the user.
func (d *dataset) rolesOf(userID int64) []string {
	roleNames := make(map[int64]string, len(d.Roles))
	for _, r := range d.Roles {
		roleNames[r.ID] = r.Name
	}
	var out []string
	for _, ur := range d.UserRoles {
		if ur.UserID != userID {
			continue
		}
		if name, ok := roleNames[ur.RoleID]; ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// depthOf walks the parent chain with an explicit counter, root counting as 1.
// The walk is capped at domain.MaxGroupDepth: cyclic parent data (possible
// only through corruption) reads as "at limit" instead of looping forever, and
// a dangling parent reference simply ends the walk.
func (d *dataset) depthOf(id int64) int {
	depth := 1
	cur, ok := d.groupByID(id)
	for ok && cur.ParentID != nil {
		if depth >= domain.MaxGroupDepth {
			return domain.MaxGroupDepth
		}
		depth++
		cur, ok = d.groupByID(*cur.ParentID)
	}
	return depth
}
