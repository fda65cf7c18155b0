package board

import (
	"crypto/md5"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

const idLength = 8

// UserID derives the stable user identifier from an email address.
func UserID(email string) string {
	return shortHash(email)
}

// GroupID derives a group identifier from its name and creation second.
func GroupID(name string, at time.Time) string {
	return shortHash(name + "_" + at.Format("20060102150405"))
}

// NewMessageID returns a fresh identifier for an appended message.
func NewMessageID() string {
	return uuid.NewString()
}

func shortHash(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:idLength]
}
