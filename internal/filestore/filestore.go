// Package filestore implements the board stores on three flat CSV logs in a
// data directory: chat_log.csv, registered_users.csv and groups.csv. Logs
// written by earlier releases are upgraded in place when opened.
package filestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/PaulBabatuyi/msgboard-gRPC/internal/board"
	"github.com/PaulBabatuyi/msgboard-gRPC/internal/logstore"
)

// File names inside the data directory.
const (
	UsersFile    = "registered_users.csv"
	GroupsFile   = "groups.csv"
	MessagesFile = "chat_log.csv"
)

// Stores bundles the three file-backed stores of a data directory.
type Stores struct {
	Users    *UsersStore
	Groups   *GroupsStore
	Messages *MessagesStore
}

// Open creates dir if needed and opens (and upgrades) the three logs.
func Open(dir string) (*Stores, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", board.ErrStorage, err)
	}

	users, err := OpenUsers(filepath.Join(dir, UsersFile))
	if err != nil {
		return nil, err
	}
	groups, err := OpenGroups(filepath.Join(dir, GroupsFile))
	if err != nil {
		return nil, err
	}
	messages, err := OpenMessages(filepath.Join(dir, MessagesFile))
	if err != nil {
		return nil, err
	}
	return &Stores{Users: users, Groups: groups, Messages: messages}, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", board.ErrStorage, op, err)
}

func formatTime(t time.Time) string {
	return t.Format(board.TimeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(board.TimeLayout, s, time.Local)
}

var (
	_ board.UserStore    = (*UsersStore)(nil)
	_ board.GroupStore   = (*GroupsStore)(nil)
	_ board.MessageStore = (*MessagesStore)(nil)
)

func openLog(path string, schema logstore.Schema) (*logstore.Log, error) {
	l, err := logstore.Open(path, schema)
	if err != nil {
		return nil, storageErr("open "+filepath.Base(path), err)
	}
	return l, nil
}

// updateErr classifies an error from logstore.Log.Update: domain errors
// raised inside the update function pass through, anything else is storage.
func updateErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, board.ErrConflict), errors.Is(err, board.ErrNotFound), errors.Is(err, board.ErrStale),
		errors.Is(err, board.ErrStorage):
		return err
	default:
		return storageErr(op, err)
	}
}
