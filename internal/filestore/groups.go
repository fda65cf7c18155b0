package filestore

import (
	"context"
	"fmt"
	"strings"

	"github.com/PaulBabatuyi/msgboard-gRPC/internal/board"
	"github.com/PaulBabatuyi/msgboard-gRPC/internal/logstore"
)

// memberSep joins member emails in the members column. Validated emails
// never contain it.
const memberSep = ","

var groupsSchema = logstore.Schema{
	Columns: []string{"group_id", "group_name", "creator", "members", "created_at"},
}

// GroupsStore is the groups log.
type GroupsStore struct {
	log *logstore.Log
}

// OpenGroups opens the groups log at path.
func OpenGroups(path string) (*GroupsStore, error) {
	l, err := openLog(path, groupsSchema)
	if err != nil {
		return nil, err
	}
	return &GroupsStore{log: l}, nil
}

// Create appends g. An existing group with the same id is a conflict.
func (s *GroupsStore) Create(ctx context.Context, g board.Group) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, m := range g.Members {
		if strings.Contains(m, memberSep) {
			return fmt.Errorf("%w: member %q contains %q", board.ErrValidation, m, memberSep)
		}
	}

	err := s.log.Update(func(rows [][]string) ([][]string, error) {
		for _, row := range rows {
			if row[0] == g.ID {
				return nil, fmt.Errorf("%w: group id %s already used by %q", board.ErrConflict, g.ID, row[1])
			}
		}
		return append(rows, encodeGroup(g)), nil
	})
	return updateErr("create group", err)
}

// GroupsFor scans every group for email.
func (s *GroupsStore) GroupsFor(ctx context.Context, email string) ([]board.Group, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var groups []board.Group
	for _, g := range all {
		if g.HasMember(email) {
			groups = append(groups, g)
		}
	}
	return groups, nil
}

// Resolve returns the group with the given id.
func (s *GroupsStore) Resolve(ctx context.Context, groupID string) (board.Group, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return board.Group{}, err
	}
	for _, g := range all {
		if g.ID == groupID {
			return g, nil
		}
	}
	return board.Group{}, fmt.Errorf("%w: group %s", board.ErrNotFound, groupID)
}

// ListAll returns every group in creation order.
func (s *GroupsStore) ListAll(ctx context.Context) ([]board.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.log.Rows()
	if err != nil {
		return nil, storageErr("read groups", err)
	}

	groups := make([]board.Group, 0, len(rows))
	for _, row := range rows {
		g, err := decodeGroup(row)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func encodeGroup(g board.Group) []string {
	return []string{g.ID, g.Name, g.Creator, strings.Join(g.Members, memberSep), formatTime(g.CreatedAt)}
}

func decodeGroup(row []string) (board.Group, error) {
	at, err := parseTime(row[4])
	if err != nil {
		return board.Group{}, storageErr("decode group "+row[0], err)
	}
	var members []string
	if row[3] != "" {
		members = strings.Split(row[3], memberSep)
	}
	return board.Group{ID: row[0], Name: row[1], Creator: row[2], Members: members, CreatedAt: at}, nil
}
