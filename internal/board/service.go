package board

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PaulBabatuyi/msgboard-gRPC/internal/normalize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service is the entry point the request layer calls. Every operation takes
// the viewer's identity as a parameter; nothing is read from session state.
type Service struct {
	users    UserStore
	groups   GroupStore
	messages MessageStore
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires the three stores into a Service.
func NewService(users UserStore, groups GroupStore, messages MessageStore, opts ...Option) *Service {
	s := &Service{
		users:    users,
		groups:   groups,
		messages: messages,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().Truncate(time.Second)
}

// Register issues (or returns the existing) identity for email.
func (s *Service) Register(ctx context.Context, email string) (User, bool, error) {
	email, err := validEmail(email)
	if err != nil {
		return User{}, false, err
	}

	u, isNew, err := s.users.Register(ctx, User{Email: email, UserID: UserID(email), FirstLogin: s.clock()})
	if err != nil {
		return User{}, false, fmt.Errorf("register %s: %w", email, err)
	}
	if isNew {
		s.logger.Info("user registered", zap.String("email", u.Email), zap.String("user_id", u.UserID))
	}
	return u, isNew, nil
}

// Users lists every registered identity in registration order.
func (s *Service) Users(ctx context.Context) ([]User, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateGroup creates a group owned by creator. Members are deduplicated in
// first-seen order and the creator is appended when absent.
func (s *Service) CreateGroup(ctx context.Context, name, creator string, members []string) (Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Group{}, fmt.Errorf("%w: group name is required", ErrValidation)
	}
	creator, err := validEmail(creator)
	if err != nil {
		return Group{}, err
	}

	seen := map[string]bool{}
	list := make([]string, 0, len(members)+1)
	others := 0
	for _, m := range members {
		m, err := validEmail(m)
		if err != nil {
			return Group{}, err
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		list = append(list, m)
		if m != creator {
			others++
		}
	}
	if others == 0 {
		return Group{}, fmt.Errorf("%w: at least one member besides the creator is required", ErrValidation)
	}
	if !seen[creator] {
		list = append(list, creator)
	}

	registered, err := s.registered(ctx)
	if err != nil {
		return Group{}, err
	}
	for _, m := range list {
		if _, ok := registered[m]; !ok {
			return Group{}, fmt.Errorf("%w: %s is not registered", ErrNotFound, m)
		}
	}

	at := s.clock()
	g := Group{ID: GroupID(name, at), Name: name, Creator: creator, Members: list, CreatedAt: at}
	if err := s.groups.Create(ctx, g); err != nil {
		return Group{}, fmt.Errorf("create group %q: %w", name, err)
	}

	s.logger.Info("group created", zap.String("group_id", g.ID), zap.String("creator", creator), zap.Int("members", len(list)))
	return g, nil
}

// GroupsFor returns the groups email belongs to.
func (s *Service) GroupsFor(ctx context.Context, email string) ([]Group, error) {
	groups, err := s.groups.GroupsFor(ctx, normalize.Email(email))
	if err != nil {
		return nil, fmt.Errorf("groups for %s: %w", email, err)
	}
	return groups, nil
}

// ResolveGroup looks a group up by id.
func (s *Service) ResolveGroup(ctx context.Context, groupID string) (Group, error) {
	return s.groups.Resolve(ctx, strings.TrimSpace(groupID))
}

// Send appends a message from sender to the given recipient. The sender must
// be registered and the recipient must exist.
func (s *Service) Send(ctx context.Context, sender string, to Recipient, text string) (Message, error) {
	sender = normalize.Email(sender)
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, fmt.Errorf("%w: message text is required", ErrValidation)
	}

	registered, err := s.registered(ctx)
	if err != nil {
		return Message{}, err
	}
	u, ok := registered[sender]
	if !ok {
		return Message{}, fmt.Errorf("%w: sender %s is not registered", ErrNotFound, sender)
	}

	switch to.Kind {
	case KindBroadcast:
		to = Broadcast()
	case KindDirect:
		to = Direct(normalize.Email(to.Address))
		if _, ok := registered[to.Address]; !ok {
			return Message{}, fmt.Errorf("%w: recipient %s is not registered", ErrNotFound, to.Address)
		}
	case KindGroup:
		if _, err := s.groups.Resolve(ctx, to.Address); err != nil {
			return Message{}, fmt.Errorf("resolve recipient: %w", err)
		}
	default:
		return Message{}, fmt.Errorf("%w: unknown recipient kind %q", ErrValidation, to.Kind)
	}

	m := Message{
		ID:          NewMessageID(),
		Timestamp:   s.clock(),
		SenderEmail: u.Email,
		SenderID:    u.UserID,
		Text:        text,
		Recipient:   to,
	}
	if err := s.messages.Append(ctx, m); err != nil {
		return Message{}, fmt.Errorf("append message: %w", err)
	}
	return m, nil
}

// MessagesFor returns the messages viewer may see, oldest first. Position
// on each message refers to the full log snapshot read by this call.
func (s *Service) MessagesFor(ctx context.Context, viewer string) ([]Message, error) {
	viewer = normalize.Email(viewer)

	var (
		all    []Message
		groups []Group
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = s.messages.LoadAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = s.groups.GroupsFor(gctx, viewer)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("messages for %s: %w", viewer, err)
	}

	ids := make([]string, len(groups))
	for i, grp := range groups {
		ids[i] = grp.ID
	}
	return FilterForViewer(all, viewer, ids), nil
}

// DeleteMessage removes a message by id. Only its sender may delete it.
func (s *Service) DeleteMessage(ctx context.Context, viewer, id string) error {
	viewer = normalize.Email(viewer)
	all, err := s.messages.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	for _, m := range all {
		if m.ID != id {
			continue
		}
		if m.SenderEmail != viewer {
			return fmt.Errorf("%w: %s did not send message %s", ErrPermission, viewer, id)
		}
		if err := s.messages.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete message %s: %w", id, err)
		}
		return nil
	}
	return fmt.Errorf("%w: message %s", ErrNotFound, id)
}

// DeleteMessageAt removes the message at position of the full log, provided
// it still carries fingerprint and was sent by viewer.
func (s *Service) DeleteMessageAt(ctx context.Context, viewer string, position int, fingerprint string) error {
	viewer = normalize.Email(viewer)
	all, err := s.messages.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if position < 0 || position >= len(all) {
		return fmt.Errorf("%w: position %d out of range", ErrNotFound, position)
	}
	m := all[position]
	if m.Fingerprint() != fingerprint {
		return fmt.Errorf("%w: position %d now holds another message", ErrStale, position)
	}
	if m.SenderEmail != viewer {
		return fmt.Errorf("%w: %s did not send the message at %d", ErrPermission, viewer, position)
	}
	if err := s.messages.DeleteAt(ctx, position, fingerprint); err != nil {
		return fmt.Errorf("delete message at %d: %w", position, err)
	}
	return nil
}

func (s *Service) registered(ctx context.Context) (map[string]User, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	byEmail := make(map[string]User, len(users))
	for _, u := range users {
		byEmail[u.Email] = u
	}
	return byEmail, nil
}

func validEmail(email string) (string, error) {
	email = normalize.Email(email)
	if err := normalize.ValidateEmail(email); err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return email, nil
}
