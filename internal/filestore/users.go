package filestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/PaulBabatuyi/msgboard-gRPC/internal/board"
	"github.com/PaulBabatuyi/msgboard-gRPC/internal/logstore"
)

var usersSchema = logstore.Schema{
	Columns: []string{"email", "user_id", "first_login"},
	Upgrade: func(column string, get func(string) string) string {
		if column == "user_id" {
			return board.UserID(get("email"))
		}
		return ""
	},
}

// errUnchanged aborts an update that has nothing to write.
var errUnchanged = errors.New("unchanged")

// UsersStore is the users log.
type UsersStore struct {
	log *logstore.Log
}

// OpenUsers opens the users log at path.
func OpenUsers(path string) (*UsersStore, error) {
	l, err := openLog(path, usersSchema)
	if err != nil {
		return nil, err
	}
	return &UsersStore{log: l}, nil
}

// Register appends u unless its email is already present.
func (s *UsersStore) Register(ctx context.Context, u board.User) (board.User, bool, error) {
	if err := ctx.Err(); err != nil {
		return board.User{}, false, err
	}

	stored := u
	err := s.log.Update(func(rows [][]string) ([][]string, error) {
		for _, row := range rows {
			if row[0] == u.Email {
				existing, err := decodeUser(row)
				if err != nil {
					return nil, err
				}
				stored = existing
				return nil, errUnchanged
			}
			if row[1] == u.UserID {
				return nil, fmt.Errorf("%w: user id %s already belongs to %s", board.ErrConflict, u.UserID, row[0])
			}
		}
		return append(rows, encodeUser(u)), nil
	})
	if errors.Is(err, errUnchanged) {
		return stored, false, nil
	}
	if err != nil {
		return board.User{}, false, updateErr("register user", err)
	}
	return stored, true, nil
}

// ListAll returns every user in registration order.
func (s *UsersStore) ListAll(ctx context.Context) ([]board.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.log.Rows()
	if err != nil {
		return nil, storageErr("read users", err)
	}

	users := make([]board.User, 0, len(rows))
	for _, row := range rows {
		u, err := decodeUser(row)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func encodeUser(u board.User) []string {
	return []string{u.Email, u.UserID, formatTime(u.FirstLogin)}
}

func decodeUser(row []string) (board.User, error) {
	at, err := parseTime(row[2])
	if err != nil {
		return board.User{}, storageErr("decode user "+row[0], err)
	}
	return board.User{Email: row[0], UserID: row[1], FirstLogin: at}, nil
}
