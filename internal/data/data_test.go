package data

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/PaulBabatuyi/msgboard-gRPC/internal/board"
	"github.com/PaulBabatuyi/msgboard-gRPC/internal/db"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func setupDB(t *testing.T) *db.Client {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set; skipping integration test")
	}

	ctx := context.Background()
	c, err := db.New(ctx, uri, "board_db_test")
	if err != nil {
		t.Fatalf("db.New failed: %v", err)
	}

	// ensure clean collections in case previous runs left data
	_ = c.UsersCollection().Drop(ctx)
	_ = c.GroupsCollection().Drop(ctx)
	_ = c.MessagesCollection().Drop(ctx)

	if err := c.CreateIndexes(ctx); err != nil {
		t.Fatalf("CreateIndexes failed: %v", err)
	}

	t.Cleanup(func() { _ = c.Close(context.Background()) })
	return c
}

func TestUsersRegisterIsIdempotent(t *testing.T) {
	c := setupDB(t)
	users := NewUsersStore(c.UsersCollection())
	ctx := context.Background()

	email := "alice@x.com"
	u := board.User{Email: email, UserID: board.UserID(email), FirstLogin: time.Now().Truncate(time.Second)}

	first, isNew, err := users.Register(ctx, u)
	if err != nil || !isNew {
		t.Fatalf("first Register: isNew=%v err=%v", isNew, err)
	}
	second, isNew, err := users.Register(ctx, u)
	if err != nil || isNew {
		t.Fatalf("second Register: isNew=%v err=%v", isNew, err)
	}
	if first.UserID != second.UserID {
		t.Fatalf("user id changed: %s != %s", first.UserID, second.UserID)
	}

	all, err := users.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly 1 user, got %d", len(all))
	}

	// same truncated id, different email
	_, _, err = users.Register(ctx, board.User{Email: "mallory@x.com", UserID: u.UserID, FirstLogin: u.FirstLogin})
	if !errors.Is(err, board.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestGroupsCreateAndMembership(t *testing.T) {
	c := setupDB(t)
	groups := NewGroupsStore(c.GroupsCollection())
	ctx := context.Background()

	now := time.Now().Truncate(time.Second)
	g := board.Group{ID: board.GroupID("team", now), Name: "team", Creator: "alice@x.com", Members: []string{"bob@y.com", "alice@x.com"}, CreatedAt: now}
	if err := groups.Create(ctx, g); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := groups.Create(ctx, g); !errors.Is(err, board.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate id, got %v", err)
	}

	forBob, err := groups.GroupsFor(ctx, "bob@y.com")
	if err != nil || len(forBob) != 1 {
		t.Fatalf("GroupsFor(bob): %v groups, err=%v", len(forBob), err)
	}
	forCarol, err := groups.GroupsFor(ctx, "carol@z.com")
	if err != nil || len(forCarol) != 0 {
		t.Fatalf("GroupsFor(carol): %v groups, err=%v", len(forCarol), err)
	}

	if _, err := groups.Resolve(ctx, "nope0000"); !errors.Is(err, board.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMessagesDeleteAtChecksFingerprint(t *testing.T) {
	c := setupDB(t)
	msgs := NewMessagesStore(c.MessagesCollection())
	ctx := context.Background()

	now := time.Now().Truncate(time.Second)
	for i, text := range []string{"one", "two", "three"} {
		m := board.Message{ID: board.NewMessageID(), Timestamp: now.Add(time.Duration(i) * time.Second), SenderEmail: "alice@x.com", SenderID: "aaaa1111", Text: text, Recipient: board.Broadcast()}
		if err := msgs.Append(ctx, m); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	snap, err := msgs.LoadAll(ctx)
	if err != nil || len(snap) != 3 {
		t.Fatalf("LoadAll: %d messages, err=%v", len(snap), err)
	}

	// shift the log under the snapshot
	if err := msgs.Delete(ctx, snap[0].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := msgs.DeleteAt(ctx, 1, snap[1].Fingerprint()); !errors.Is(err, board.ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if err := msgs.DeleteAt(ctx, 0, snap[1].Fingerprint()); err != nil {
		t.Fatalf("DeleteAt with fresh position failed: %v", err)
	}

	left, err := msgs.LoadAll(ctx)
	if err != nil || len(left) != 1 || left[0].Text != "three" {
		t.Fatalf("unexpected log after deletes: %+v err=%v", left, err)
	}
}

func TestMessagesDeleteAtTellsTwinsApart(t *testing.T) {
	c := setupDB(t)
	msgs := NewMessagesStore(c.MessagesCollection())
	ctx := context.Background()

	at := time.Now().Truncate(time.Second)
	for _, m := range []board.Message{
		{ID: board.NewMessageID(), Timestamp: at, SenderEmail: "bob@y.com", Text: "first", Recipient: board.Broadcast()},
		{ID: board.NewMessageID(), Timestamp: at, SenderEmail: "alice@x.com", Text: "ok", Recipient: board.Direct("bob@y.com")},
		{ID: board.NewMessageID(), Timestamp: at, SenderEmail: "alice@x.com", Text: "ok", Recipient: board.Broadcast()},
	} {
		if err := msgs.Append(ctx, m); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	snap, err := msgs.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	target := snap[1]

	if err := msgs.Delete(ctx, snap[0].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := msgs.DeleteAt(ctx, target.Position, target.Fingerprint()); !errors.Is(err, board.ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	left, err := msgs.LoadAll(ctx)
	if err != nil || len(left) != 2 || left[0].ID != target.ID || left[1].ID != snap[2].ID {
		t.Fatalf("unrelated message was removed: %+v err=%v", left, err)
	}
}

func TestMessagesUpgradeLegacyDocuments(t *testing.T) {
	c := setupDB(t)
	msgs := NewMessagesStore(c.MessagesCollection())
	ctx := context.Background()

	legacy := []any{
		bson.M{"timestamp": time.Now(), "email": "alice@x.com", "user_id": "aaaa1111", "message": "old"},
		bson.M{"timestamp": time.Now(), "email": "bob@y.com", "user_id": "bbbb2222", "message": "dm", "recipient": "alice@x.com"},
		bson.M{"timestamp": time.Now(), "email": "carol@z.com", "user_id": "cccc3333", "message": "blank", "recipient": ""},
	}
	if _, err := c.MessagesCollection().InsertMany(ctx, legacy); err != nil {
		t.Fatalf("InsertMany failed: %v", err)
	}

	if _, err := msgs.Upgrade(ctx); err != nil {
		t.Fatalf("Upgrade failed: %v", err)
	}
	first, err := msgs.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if first[0].Recipient != board.Broadcast() || first[1].Recipient != board.Direct("alice@x.com") {
		t.Fatalf("unexpected recipients: %+v / %+v", first[0].Recipient, first[1].Recipient)
	}
	if len(first) != 3 || first[2].Recipient != board.Broadcast() {
		t.Fatalf("blank recipient should upgrade to broadcast: %+v", first)
	}
	if first[0].ID == "" || first[1].ID == "" {
		t.Fatalf("expected backfilled ids")
	}

	// second run changes nothing
	n, err := msgs.Upgrade(ctx)
	if err != nil || n != 0 {
		t.Fatalf("second Upgrade modified %d docs, err=%v", n, err)
	}
}
