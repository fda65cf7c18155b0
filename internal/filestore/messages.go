package filestore

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/PaulBabatuyi/msgboard-gRPC/internal/board"
	"github.com/PaulBabatuyi/msgboard-gRPC/internal/logstore"
)

const (
	colID = iota
	colTimestamp
	colEmail
	colUserID
	colMessage
	colRecipientKind
	colRecipient
)

var messagesSchema = logstore.Schema{
	Columns: []string{"id", "timestamp", "email", "user_id", "message", "recipient_kind", "recipient"},
	Upgrade: upgradeMessage,
}

// upgradeMessage fills the columns older chat logs lack. Logs without a
// recipient column predate private messages, so every row is broadcast.
// Logs with a recipient but no kind are tagged once here: emails are direct,
// anything else that is not the sentinel is a group id.
func upgradeMessage(column string, get func(string) string) string {
	switch column {
	case "id":
		return board.NewMessageID()
	case "user_id":
		return board.UserID(get("email"))
	case "recipient":
		return board.BroadcastAddress
	case "recipient_kind":
		r := get("recipient")
		switch {
		case r == "" || r == board.BroadcastAddress:
			return string(board.KindBroadcast)
		case strings.Contains(r, "@"):
			return string(board.KindDirect)
		default:
			return string(board.KindGroup)
		}
	}
	return ""
}

// MessagesStore is the message log.
type MessagesStore struct {
	log *logstore.Log
}

// OpenMessages opens the message log at path, upgrading a legacy layout.
func OpenMessages(path string) (*MessagesStore, error) {
	l, err := openLog(path, messagesSchema)
	if err != nil {
		return nil, err
	}
	return &MessagesStore{log: l}, nil
}

// Append adds m at the end of the log; it is on disk when Append returns.
func (s *MessagesStore) Append(ctx context.Context, m board.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.log.Append(encodeMessage(m)); err != nil {
		return storageErr("append message", err)
	}
	return nil
}

// LoadAll returns the full log in insertion order.
func (s *MessagesStore) LoadAll(ctx context.Context) ([]board.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.log.Rows()
	if err != nil {
		return nil, storageErr("read messages", err)
	}

	msgs := make([]board.Message, 0, len(rows))
	for i, row := range rows {
		m, err := decodeMessage(row)
		if err != nil {
			return nil, err
		}
		m.Position = i
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// DeleteAt removes the row at position of the current log if it still
// carries fingerprint.
func (s *MessagesStore) DeleteAt(ctx context.Context, position int, fingerprint string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.log.Update(func(rows [][]string) ([][]string, error) {
		if position < 0 || position >= len(rows) {
			return nil, fmt.Errorf("%w: position %d out of range (%d messages)", board.ErrNotFound, position, len(rows))
		}
		row := rows[position]
		if rowFingerprint(row) != fingerprint {
			return nil, fmt.Errorf("%w: position %d holds message %s", board.ErrStale, position, row[colID])
		}
		return slices.Delete(rows, position, position+1), nil
	})
	return updateErr("delete message", err)
}

// Delete removes the message with the given id.
func (s *MessagesStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.log.Update(func(rows [][]string) ([][]string, error) {
		i := slices.IndexFunc(rows, func(row []string) bool { return row[colID] == id })
		if i < 0 {
			return nil, fmt.Errorf("%w: message %s", board.ErrNotFound, id)
		}
		return slices.Delete(rows, i, i+1), nil
	})
	return updateErr("delete message", err)
}

func rowFingerprint(row []string) string {
	to := board.Recipient{Kind: board.RecipientKind(row[colRecipientKind]), Address: row[colRecipient]}
	return board.Fingerprint(row[colID], row[colTimestamp], row[colEmail], to.String(), row[colMessage])
}

func encodeMessage(m board.Message) []string {
	row := make([]string, len(messagesSchema.Columns))
	row[colID] = m.ID
	row[colTimestamp] = formatTime(m.Timestamp)
	row[colEmail] = m.SenderEmail
	row[colUserID] = m.SenderID
	row[colMessage] = m.Text
	row[colRecipientKind] = string(m.Recipient.Kind)
	row[colRecipient] = m.Recipient.Address
	return row
}

func decodeMessage(row []string) (board.Message, error) {
	at, err := parseTime(row[colTimestamp])
	if err != nil {
		return board.Message{}, storageErr("decode message "+row[colID], err)
	}
	to, err := board.ParseRecipient(row[colRecipientKind], row[colRecipient])
	if err != nil {
		return board.Message{}, storageErr("decode message "+row[colID], err)
	}
	return board.Message{
		ID:          row[colID],
		Timestamp:   at,
		SenderEmail: row[colEmail],
		SenderID:    row[colUserID],
		Text:        row[colMessage],
		Recipient:   to,
	}, nil
}
