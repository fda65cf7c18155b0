package board

import "context"

// UserStore persists registered identities.
type UserStore interface {
	// Register stores u unless its email is already known, in which case the
	// stored record is returned with isNew=false and nothing is written.
	Register(ctx context.Context, u User) (stored User, isNew bool, err error)
	ListAll(ctx context.Context) ([]User, error)
}

// GroupStore persists groups. Membership never changes after Create.
type GroupStore interface {
	Create(ctx context.Context, g Group) error
	GroupsFor(ctx context.Context, email string) ([]Group, error)
	Resolve(ctx context.Context, groupID string) (Group, error)
	ListAll(ctx context.Context) ([]Group, error)
}

// MessageStore is the append-only message log.
type MessageStore interface {
	Append(ctx context.Context, m Message) error
	// LoadAll returns the full log in insertion order with Position set.
	LoadAll(ctx context.Context) ([]Message, error)
	// DeleteAt removes the record at position if its fingerprint still
	// matches, re-checking both under the log lock.
	DeleteAt(ctx context.Context, position int, fingerprint string) error
	Delete(ctx context.Context, id string) error
}
