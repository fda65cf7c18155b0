package board_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PaulBabatuyi/msgboard-gRPC/internal/board"
	"github.com/PaulBabatuyi/msgboard-gRPC/internal/filestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "alice@x.com"
	bob   = "bob@y.com"
	carol = "carol@z.com"
)

// tick returns a clock that advances one second per call.
func tick() func() time.Time {
	at := time.Date(2025, 3, 14, 9, 0, 0, 0, time.Local)
	return func() time.Time {
		at = at.Add(time.Second)
		return at
	}
}

func newService(t *testing.T) (*board.Service, string) {
	t.Helper()
	dir := t.TempDir()
	stores, err := filestore.Open(dir)
	require.NoError(t, err)
	return board.NewService(stores.Users, stores.Groups, stores.Messages, board.WithClock(tick())), dir
}

func register(t *testing.T, svc *board.Service, emails ...string) {
	t.Helper()
	for _, e := range emails {
		_, _, err := svc.Register(context.Background(), e)
		require.NoError(t, err)
	}
}

func viewTexts(t *testing.T, svc *board.Service, viewer string) []string {
	t.Helper()
	msgs, err := svc.MessagesFor(context.Background(), viewer)
	require.NoError(t, err)
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Text)
	}
	return out
}

func TestService_ExampleScenario(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	a, isNew, err := svc.Register(ctx, alice)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, board.UserID(alice), a.UserID)
	register(t, svc, bob, carol)

	_, err = svc.Send(ctx, alice, board.Broadcast(), "hi")
	require.NoError(t, err)
	_, err = svc.Send(ctx, bob, board.Direct(alice), "secret")
	require.NoError(t, err)

	assert.Equal(t, []string{"hi", "secret"}, viewTexts(t, svc, alice))
	assert.Equal(t, []string{"hi", "secret"}, viewTexts(t, svc, bob))
	assert.Equal(t, []string{"hi"}, viewTexts(t, svc, carol))
}

func TestService_RegisterIdempotentAndValidated(t *testing.T) {
	ctx := context.Background()
	svc, dir := newService(t)

	first, isNew, err := svc.Register(ctx, "  "+alice+" ")
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, alice, first.Email)

	second, isNew, err := svc.Register(ctx, alice)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, first.UserID, second.UserID)

	users, err := svc.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	for _, bad := range []string{"", "nope", "a,b@x.com", "x@y.z"} {
		_, _, err := svc.Register(ctx, bad)
		require.ErrorIs(t, err, board.ErrValidation, bad)
	}

	raw, err := os.ReadFile(filepath.Join(dir, filestore.UsersFile))
	require.NoError(t, err)
	assert.Equal(t, 2, countLines(raw), "header plus exactly one user row")
}

func TestService_CreateGroup(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	register(t, svc, alice, bob, carol)

	g, err := svc.CreateGroup(ctx, "  team  ", alice, []string{bob, bob, carol})
	require.NoError(t, err)
	assert.Equal(t, "team", g.Name)
	assert.Equal(t, []string{bob, carol, alice}, g.Members)
	assert.Len(t, g.ID, 8)

	resolved, err := svc.ResolveGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.Members, resolved.Members)

	groups, err := svc.GroupsFor(ctx, carol)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, g.ID, groups[0].ID)

	_, err = svc.CreateGroup(ctx, "   ", alice, []string{bob})
	require.ErrorIs(t, err, board.ErrValidation)
	_, err = svc.CreateGroup(ctx, "solo", alice, nil)
	require.ErrorIs(t, err, board.ErrValidation)
	_, err = svc.CreateGroup(ctx, "solo", alice, []string{alice})
	require.ErrorIs(t, err, board.ErrValidation)
	_, err = svc.CreateGroup(ctx, "ghosts", alice, []string{"ghost@nowhere.com"})
	require.ErrorIs(t, err, board.ErrNotFound)
	_, err = svc.ResolveGroup(ctx, "00000000")
	require.ErrorIs(t, err, board.ErrNotFound)
}

func TestService_GroupVisibility(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	register(t, svc, alice, bob, carol, "dave@w.com")

	g, err := svc.CreateGroup(ctx, "pair", alice, []string{bob})
	require.NoError(t, err)

	_, err = svc.Send(ctx, "dave@w.com", board.ToGroup(g.ID), "knock knock")
	require.NoError(t, err)

	for _, member := range []string{alice, bob, "dave@w.com"} {
		assert.Equal(t, []string{"knock knock"}, viewTexts(t, svc, member), member)
	}
	assert.Empty(t, viewTexts(t, svc, carol))
}

func TestService_SendRejectsUnknownAddresses(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	register(t, svc, alice)

	_, err := svc.Send(ctx, alice, board.Direct("ghost@nowhere.com"), "hello?")
	require.ErrorIs(t, err, board.ErrNotFound)
	_, err = svc.Send(ctx, alice, board.ToGroup("deadbeef"), "hello?")
	require.ErrorIs(t, err, board.ErrNotFound)
	_, err = svc.Send(ctx, "ghost@nowhere.com", board.Broadcast(), "boo")
	require.ErrorIs(t, err, board.ErrNotFound)
	_, err = svc.Send(ctx, alice, board.Broadcast(), "   ")
	require.ErrorIs(t, err, board.ErrValidation)
	_, err = svc.Send(ctx, alice, board.Recipient{Kind: "carrier-pigeon"}, "coo")
	require.ErrorIs(t, err, board.ErrValidation)

	msgs, err := svc.MessagesFor(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestService_DeleteMessage(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	register(t, svc, alice, bob)

	m, err := svc.Send(ctx, alice, board.Broadcast(), "oops")
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteMessage(ctx, bob, m.ID), board.ErrPermission)
	require.NoError(t, svc.DeleteMessage(ctx, alice, m.ID))
	require.ErrorIs(t, svc.DeleteMessage(ctx, alice, m.ID), board.ErrNotFound)
	assert.Empty(t, viewTexts(t, svc, bob))
}

func TestService_DeleteMessageAtNeverHitsUnrelatedRecord(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	register(t, svc, alice, bob)

	_, err := svc.Send(ctx, bob, board.Broadcast(), "first")
	require.NoError(t, err)
	_, err = svc.Send(ctx, alice, board.Broadcast(), "mine")
	require.NoError(t, err)
	_, err = svc.Send(ctx, bob, board.Broadcast(), "bob again")
	require.NoError(t, err)

	snap, err := svc.MessagesFor(ctx, alice)
	require.NoError(t, err)
	target := snap[1]
	require.Equal(t, "mine", target.Text)

	// Bob deletes his first message; alice's snapshot positions are now off by one.
	require.NoError(t, svc.DeleteMessage(ctx, bob, snap[0].ID))

	err = svc.DeleteMessageAt(ctx, alice, target.Position, target.Fingerprint())
	require.ErrorIs(t, err, board.ErrStale)
	assert.Equal(t, []string{"mine", "bob again"}, viewTexts(t, svc, alice))

	// Refreshed snapshot works.
	snap, err = svc.MessagesFor(ctx, alice)
	require.NoError(t, err)
	require.ErrorIs(t, svc.DeleteMessageAt(ctx, alice, snap[1].Position, snap[1].Fingerprint()), board.ErrPermission)
	require.NoError(t, svc.DeleteMessageAt(ctx, alice, snap[0].Position, snap[0].Fingerprint()))
	assert.Equal(t, []string{"bob again"}, viewTexts(t, svc, alice))

	require.ErrorIs(t, svc.DeleteMessageAt(ctx, alice, 42, "x"), board.ErrNotFound)
}

func TestService_DeleteMessageAtSameSecondSameText(t *testing.T) {
	ctx := context.Background()
	stores, err := filestore.Open(t.TempDir())
	require.NoError(t, err)
	at := time.Date(2025, 3, 14, 9, 0, 0, 0, time.Local)
	svc := board.NewService(stores.Users, stores.Groups, stores.Messages, board.WithClock(func() time.Time { return at }))
	register(t, svc, alice, bob)

	_, err = svc.Send(ctx, bob, board.Broadcast(), "first")
	require.NoError(t, err)
	dm, err := svc.Send(ctx, alice, board.Direct(bob), "ok")
	require.NoError(t, err)
	public, err := svc.Send(ctx, alice, board.Broadcast(), "ok")
	require.NoError(t, err)

	snap, err := svc.MessagesFor(ctx, alice)
	require.NoError(t, err)
	require.Len(t, snap, 3)
	target := snap[1]
	require.Equal(t, dm.ID, target.ID)

	require.NoError(t, svc.DeleteMessage(ctx, bob, snap[0].ID))

	err = svc.DeleteMessageAt(ctx, alice, target.Position, target.Fingerprint())
	require.ErrorIs(t, err, board.ErrStale)

	left, err := svc.MessagesFor(ctx, alice)
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.Equal(t, dm.ID, left[0].ID)
	assert.Equal(t, public.ID, left[1].ID)
}

func TestService_CorruptLogIsNotEmpty(t *testing.T) {
	ctx := context.Background()
	svc, dir := newService(t)
	register(t, svc, alice)

	path := filepath.Join(dir, filestore.MessagesFile)
	require.NoError(t, os.WriteFile(path, []byte("garbage\n\"broken"), 0o644))

	msgs, err := svc.MessagesFor(ctx, alice)
	require.ErrorIs(t, err, board.ErrStorage)
	assert.Nil(t, msgs)
}

func countLines(b []byte) int {
	n := 0
	for _, c := range b {
		if c == '\n' {
			n++
		}
	}
	return n
}
