package data

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/PaulBabatuyi/msgboard-gRPC/internal/board"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MessagesStore provides message database operations.
type MessagesStore struct {
	// coll is reference to "messages" collection in MongoDB
	coll *mongo.Collection

	// mu serializes deletes and the upgrade so a position is checked and
	// removed without another in-process writer in between
	mu sync.Mutex
}

// NewMessagesStore returns a MessagesStore using given collection.
func NewMessagesStore(coll *mongo.Collection) *MessagesStore {
	return &MessagesStore{coll: coll}
}

// logOrder sorts by _id: ObjectIDs grow with insertion time
var logOrder = bson.D{{Key: "_id", Value: 1}}

// Append inserts the message document; the write is acknowledged before
// Append returns.
func (s *MessagesStore) Append(ctx context.Context, m board.Message) error {
	if _, err := s.coll.InsertOne(ctx, messageFromBoard(m)); err != nil {
		return storageErr("insert message", err)
	}
	return nil
}

// LoadAll returns every message, oldest first, with positions filled in.
func (s *MessagesStore) LoadAll(ctx context.Context) ([]board.Message, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(logOrder))
	if err != nil {
		return nil, storageErr("find messages", err)
	}
	defer cursor.Close(ctx)

	var docs []*Message
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storageErr("decode messages", err)
	}

	msgs := make([]board.Message, 0, len(docs))
	for i, d := range docs {
		m, err := d.toBoard()
		if err != nil {
			return nil, storageErr("decode message "+d.ID.Hex(), err)
		}
		m.Position = i
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// DeleteAt removes the document at offset position of the log if its
// fingerprint still matches. The delete filter repeats the fingerprinted
// fields, so a document replaced in between is never removed.
func (s *MessagesStore) DeleteAt(ctx context.Context, position int, fingerprint string) error {
	if position < 0 {
		return fmt.Errorf("%w: position %d out of range", board.ErrNotFound, position)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var doc Message
	opts := options.FindOne().SetSort(logOrder).SetSkip(int64(position))
	err := s.coll.FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: position %d out of range", board.ErrNotFound, position)
	}
	if err != nil {
		return storageErr("find message", err)
	}
	if doc.fingerprint() != fingerprint {
		return fmt.Errorf("%w: position %d holds message %s", board.ErrStale, position, doc.MessageID)
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{
		"_id":            doc.ID,
		"id":             doc.MessageID,
		"timestamp":      doc.Timestamp,
		"email":          doc.Email,
		"message":        doc.Text,
		"recipient_kind": doc.RecipientKind,
		"recipient":      doc.Recipient,
	})
	if err != nil {
		return storageErr("delete message", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: message at position %d changed", board.ErrStale, position)
	}
	return nil
}

// Delete removes the message with the given stable id.
func (s *MessagesStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return storageErr("delete message", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: message %s", board.ErrNotFound, id)
	}
	return nil
}

// Upgrade brings documents written by older versions to the current shape.
// It is run once at startup, is idempotent, and returns how many documents
// it changed.
func (s *MessagesStore) Upgrade(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	missingKind := bson.M{"$exists": false}
	steps := []struct {
		filter bson.M
		update any
	}{
		// Documents from before private messages: everything was public
		{
			filter: bson.M{"recipient": bson.M{"$exists": false}},
			update: bson.M{"$set": bson.M{"recipient": board.BroadcastAddress, "recipient_kind": string(board.KindBroadcast)}},
		},
		// Recipient present but untagged: sentinel, then emails, then group ids
		{
			filter: bson.M{"recipient_kind": missingKind, "recipient": bson.M{"$in": bson.A{board.BroadcastAddress, ""}}},
			update: bson.M{"$set": bson.M{"recipient": board.BroadcastAddress, "recipient_kind": string(board.KindBroadcast)}},
		},
		{
			filter: bson.M{"recipient_kind": missingKind, "recipient": bson.M{"$regex": "@"}},
			update: bson.M{"$set": bson.M{"recipient_kind": string(board.KindDirect)}},
		},
		{
			filter: bson.M{"recipient_kind": missingKind},
			update: bson.M{"$set": bson.M{"recipient_kind": string(board.KindGroup)}},
		},
		// Backfill stable ids from the ObjectID (pipeline update)
		{
			filter: bson.M{"id": bson.M{"$exists": false}},
			update: mongo.Pipeline{
				{{Key: "$set", Value: bson.D{{Key: "id", Value: bson.D{{Key: "$toString", Value: "$_id"}}}}}},
			},
		},
	}

	var modified int64
	for _, step := range steps {
		res, err := s.coll.UpdateMany(ctx, step.filter, step.update)
		if err != nil {
			return modified, storageErr("upgrade messages", err)
		}
		modified += res.ModifiedCount
	}
	return modified, nil
}
