package data

import (
	"time"

	"github.com/PaulBabatuyi/msgboard-gRPC/internal/board"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// User maps to users collection (email, derived user id, first login)
type User struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	Email      string        `bson:"email"`
	UserID     string        `bson:"user_id"`
	FirstLogin time.Time     `bson:"first_login"`
}

// Group maps to groups collection; members is stored as an array
type Group struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	GroupID   string        `bson:"group_id"`
	Name      string        `bson:"group_name"`
	Creator   string        `bson:"creator"`
	Members   []string      `bson:"members"`
	CreatedAt time.Time     `bson:"created_at"`
}

// Message maps to messages collection. Field names follow the CSV log so a
// legacy import keeps its shape; _id order is the log order.
type Message struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	MessageID     string        `bson:"id"`
	Timestamp     time.Time     `bson:"timestamp"`
	Email         string        `bson:"email"`
	UserID        string        `bson:"user_id"`
	Text          string        `bson:"message"`
	RecipientKind string        `bson:"recipient_kind"`
	Recipient     string        `bson:"recipient"`
}

func userFromBoard(u board.User) *User {
	return &User{Email: u.Email, UserID: u.UserID, FirstLogin: u.FirstLogin}
}

func (u *User) toBoard() board.User {
	// Mongo hands dates back in UTC; the logs work in local time
	return board.User{Email: u.Email, UserID: u.UserID, FirstLogin: u.FirstLogin.Local()}
}

func groupFromBoard(g board.Group) *Group {
	return &Group{GroupID: g.ID, Name: g.Name, Creator: g.Creator, Members: g.Members, CreatedAt: g.CreatedAt}
}

func (g *Group) toBoard() board.Group {
	return board.Group{ID: g.GroupID, Name: g.Name, Creator: g.Creator, Members: g.Members, CreatedAt: g.CreatedAt.Local()}
}

func messageFromBoard(m board.Message) *Message {
	return &Message{
		MessageID:     m.ID,
		Timestamp:     m.Timestamp,
		Email:         m.SenderEmail,
		UserID:        m.SenderID,
		Text:          m.Text,
		RecipientKind: string(m.Recipient.Kind),
		Recipient:     m.Recipient.Address,
	}
}

func (m *Message) toBoard() (board.Message, error) {
	to, err := board.ParseRecipient(m.RecipientKind, m.Recipient)
	if err != nil {
		return board.Message{}, err
	}
	return board.Message{
		ID:          m.MessageID,
		Timestamp:   m.Timestamp.Local(),
		SenderEmail: m.Email,
		SenderID:    m.UserID,
		Text:        m.Text,
		Recipient:   to,
	}, nil
}

// fingerprint matches board.Message.Fingerprint for the stored document
func (m *Message) fingerprint() string {
	to := board.Recipient{Kind: board.RecipientKind(m.RecipientKind), Address: m.Recipient}
	return board.Fingerprint(m.MessageID, m.Timestamp.Local().Format(board.TimeLayout), m.Email, to.String(), m.Text)
}
