// Package v1 holds the wire types, codec and service descriptor of
// board.v1.BoardService.
package v1

import "google.golang.org/protobuf/types/known/timestamppb"

// Recipient kinds on the wire.
const (
	KindBroadcast = "broadcast"
	KindDirect    = "direct"
	KindGroup     = "group"
)

type Recipient struct {
	Kind    string `json:"kind"`
	Address string `json:"address,omitempty"`
}

func (x *Recipient) GetKind() string {
	if x != nil {
		return x.Kind
	}
	return ""
}

func (x *Recipient) GetAddress() string {
	if x != nil {
		return x.Address
	}
	return ""
}

type User struct {
	Email      string                 `json:"email"`
	UserId     string                 `json:"user_id"`
	FirstLogin *timestamppb.Timestamp `json:"first_login,omitempty"`
}

type Group struct {
	GroupId   string                 `json:"group_id"`
	Name      string                 `json:"name"`
	Creator   string                 `json:"creator"`
	Members   []string               `json:"members"`
	CreatedAt *timestamppb.Timestamp `json:"created_at,omitempty"`
}

// Message is one visible entry of the board. Position and Fingerprint
// identify it for DeleteMessageAt.
type Message struct {
	MsgId       string                 `json:"msg_id"`
	Position    int32                  `json:"position"`
	Fingerprint string                 `json:"fingerprint"`
	SenderEmail string                 `json:"sender_email"`
	SenderId    string                 `json:"sender_id"`
	Text        string                 `json:"text"`
	Recipient   *Recipient             `json:"recipient"`
	SentAt      *timestamppb.Timestamp `json:"sent_at,omitempty"`
}

type RegisterRequest struct {
	Email string `json:"email"`
}

func (x *RegisterRequest) GetEmail() string {
	if x != nil {
		return x.Email
	}
	return ""
}

type RegisterResponse struct {
	Token      string                 `json:"token"`
	UserId     string                 `json:"user_id"`
	IsNew      bool                   `json:"is_new"`
	FirstLogin *timestamppb.Timestamp `json:"first_login,omitempty"`
	ExpiresAt  *timestamppb.Timestamp `json:"expires_at,omitempty"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

func (x *CreateGroupRequest) GetName() string {
	if x != nil {
		return x.Name
	}
	return ""
}

func (x *CreateGroupRequest) GetMembers() []string {
	if x != nil {
		return x.Members
	}
	return nil
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type SendMessageRequest struct {
	Recipient *Recipient `json:"recipient"`
	Text      string     `json:"text"`
}

func (x *SendMessageRequest) GetRecipient() *Recipient {
	if x != nil {
		return x.Recipient
	}
	return nil
}

func (x *SendMessageRequest) GetText() string {
	if x != nil {
		return x.Text
	}
	return ""
}

type SendMessageResponse struct {
	Message *Message `json:"message"`
}

type ListMessagesRequest struct{}

type DeleteMessageRequest struct {
	MsgId string `json:"msg_id"`
}

func (x *DeleteMessageRequest) GetMsgId() string {
	if x != nil {
		return x.MsgId
	}
	return ""
}

type DeleteMessageResponse struct{}

type DeleteMessageAtRequest struct {
	Position    int32  `json:"position"`
	Fingerprint string `json:"fingerprint"`
}

func (x *DeleteMessageAtRequest) GetPosition() int32 {
	if x != nil {
		return x.Position
	}
	return 0
}

func (x *DeleteMessageAtRequest) GetFingerprint() string {
	if x != nil {
		return x.Fingerprint
	}
	return ""
}

type DeleteMessageAtResponse struct{}
