// Package data implements the board stores on MongoDB collections.
package data

import (
	"context" // Used for cancellation and timeouts
	"errors"  // Error handling
	"fmt"     // Error wrapping

	"github.com/PaulBabatuyi/msgboard-gRPC/internal/board"
	"go.mongodb.org/mongo-driver/v2/bson"  // MongoDB document queries
	"go.mongodb.org/mongo-driver/v2/mongo" // MongoDB driver
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UsersStore performs user DB operations.
type UsersStore struct {
	// coll is reference to "users" collection in MongoDB
	// Set via NewUsersStore() and used in all methods below
	coll *mongo.Collection
}

// NewUsersStore returns a UsersStore using the provided collection.
func NewUsersStore(coll *mongo.Collection) *UsersStore {
	return &UsersStore{coll: coll}
}

// Register inserts u unless its email already exists, relying on the unique
// email index (see db.CreateIndexes) to make concurrent registrations safe.
func (u *UsersStore) Register(ctx context.Context, user board.User) (board.User, bool, error) {
	_, err := u.coll.InsertOne(ctx, userFromBoard(user))
	if err == nil {
		return user, true, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return board.User{}, false, storageErr("insert user", err)
	}

	// Duplicate key: either the email is already registered (idempotent
	// path) or another email already owns this truncated user id.
	var existing User
	err = u.coll.FindOne(ctx, bson.M{"email": user.Email}).Decode(&existing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return board.User{}, false, fmt.Errorf("%w: user id %s already taken", board.ErrConflict, user.UserID)
	}
	if err != nil {
		return board.User{}, false, storageErr("find user", err)
	}
	return existing.toBoard(), false, nil
}

// ListAll returns every user in registration order.
func (u *UsersStore) ListAll(ctx context.Context) ([]board.User, error) {
	// _id ascending follows insertion order
	cursor, err := u.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, storageErr("find users", err)
	}
	defer cursor.Close(ctx)

	var docs []*User
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storageErr("decode users", err)
	}

	users := make([]board.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toBoard())
	}
	return users, nil
}

// storageErr tags driver failures so callers can tell them from "no data"
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", board.ErrStorage, op, err)
}
