package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/PaulBabatuyi/msgboard-gRPC/internal/board"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// GroupsStore provides group database operations.
type GroupsStore struct {
	coll *mongo.Collection
}

// NewGroupsStore returns a GroupsStore using given collection.
func NewGroupsStore(coll *mongo.Collection) *GroupsStore {
	return &GroupsStore{coll: coll}
}

// Create inserts the group document; a taken group_id is a conflict.
func (s *GroupsStore) Create(ctx context.Context, g board.Group) error {
	if _, err := s.coll.InsertOne(ctx, groupFromBoard(g)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: group id %s already used", board.ErrConflict, g.ID)
		}
		return storageErr("insert group", err)
	}
	return nil
}

// GroupsFor returns the groups whose members array contains email.
func (s *GroupsStore) GroupsFor(ctx context.Context, email string) ([]board.Group, error) {
	// {members: email} matches any array element (multikey index)
	return s.find(ctx, bson.M{"members": email})
}

// Resolve finds a group by its derived id.
func (s *GroupsStore) Resolve(ctx context.Context, groupID string) (board.Group, error) {
	var g Group
	err := s.coll.FindOne(ctx, bson.M{"group_id": groupID}).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return board.Group{}, fmt.Errorf("%w: group %s", board.ErrNotFound, groupID)
	}
	if err != nil {
		return board.Group{}, storageErr("find group", err)
	}
	return g.toBoard(), nil
}

// ListAll returns every group in creation order.
func (s *GroupsStore) ListAll(ctx context.Context) ([]board.Group, error) {
	return s.find(ctx, bson.M{})
}

func (s *GroupsStore) find(ctx context.Context, filter bson.M) ([]board.Group, error) {
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, storageErr("find groups", err)
	}
	defer cursor.Close(ctx)

	var docs []*Group
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storageErr("decode groups", err)
	}

	groups := make([]board.Group, 0, len(docs))
	for _, d := range docs {
		groups = append(groups, d.toBoard())
	}
	return groups, nil
}
