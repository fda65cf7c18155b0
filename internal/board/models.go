// Package board holds the message board core: identities, groups, messages,
// the recipient address space and the per-viewer visibility rules.
package board

import (
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// TimeLayout is the second-resolution timestamp format used in every log.
const TimeLayout = "2006-01-02 15:04:05"

// BroadcastAddress is the persisted address of the broadcast recipient.
const BroadcastAddress = "everyone"

// RecipientKind tags a recipient address explicitly.
type RecipientKind string

const (
	KindBroadcast RecipientKind = "broadcast"
	KindDirect    RecipientKind = "direct"
	KindGroup     RecipientKind = "group"
)

// Recipient is one of Broadcast, Direct(email) or ToGroup(groupID).
type Recipient struct {
	Kind    RecipientKind
	Address string
}

// Broadcast addresses every registered viewer.
func Broadcast() Recipient {
	return Recipient{Kind: KindBroadcast, Address: BroadcastAddress}
}

// Direct addresses a single user by email.
func Direct(email string) Recipient {
	return Recipient{Kind: KindDirect, Address: email}
}

// ToGroup addresses the members of a group.
func ToGroup(groupID string) Recipient {
	return Recipient{Kind: KindGroup, Address: groupID}
}

// ParseRecipient rebuilds a recipient from its persisted kind and address.
func ParseRecipient(kind, address string) (Recipient, error) {
	switch RecipientKind(kind) {
	case KindBroadcast:
		return Broadcast(), nil
	case KindDirect, KindGroup:
		if address == "" {
			return Recipient{}, fmt.Errorf("%w: %s recipient without address", ErrValidation, kind)
		}
		return Recipient{Kind: RecipientKind(kind), Address: address}, nil
	default:
		return Recipient{}, fmt.Errorf("%w: unknown recipient kind %q", ErrValidation, kind)
	}
}

func (r Recipient) String() string {
	if r.Kind == KindBroadcast {
		return string(r.Kind)
	}
	return string(r.Kind) + ":" + r.Address
}

// User is a registered identity. Records are never mutated once written.
type User struct {
	Email      string
	UserID     string
	FirstLogin time.Time
}

// Group has a membership set fixed at creation.
type Group struct {
	ID        string
	Name      string
	Creator   string
	Members   []string
	CreatedAt time.Time
}

// HasMember reports whether email is in the group's member list.
func (g Group) HasMember(email string) bool {
	return slices.Contains(g.Members, email)
}

// Message is a single entry of the message log.
type Message struct {
	// ID is assigned at append time and survives deletions of other messages.
	ID string
	// Position is the offset in the snapshot the message was loaded from.
	// It is not persisted and goes stale as soon as the log changes.
	Position    int
	Timestamp   time.Time
	SenderEmail string
	SenderID    string
	Text        string
	Recipient   Recipient
}

// Fingerprint digests the id, timestamp, sender, recipient and text of the
// message so a position-indexed delete can check it still targets the same
// record. Two messages with equal text sent in the same second still differ
// by id.
func (m Message) Fingerprint() string {
	return Fingerprint(m.ID, m.Timestamp.Format(TimeLayout), m.SenderEmail, m.Recipient.String(), m.Text)
}

// Fingerprint is the digest behind Message.Fingerprint, usable on raw log
// fields without building a Message. recipient is Recipient.String().
func Fingerprint(id, timestamp, sender, recipient, text string) string {
	sum := blake2b.Sum256([]byte(strings.Join([]string{id, timestamp, sender, recipient, text}, "\x00")))
	return hex.EncodeToString(sum[:8])
}
