package notification

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/olahol/melody"
)

// Khóa lưu trong melody.Session khi client kết nối /ws
const (
	KeyUserID  = "userID"
	KeyIsAdmin = "isAdmin"
)

// Message là payload gửi qua websocket
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type Service interface {
	SendToUser(userID string, msg Message) error
	SendToAdmins(msg Message) error
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) SendToUser(userID string, msg Message) error {
	return s.broadcast(msg, func(q *melody.Session) bool {
		v, ok := q.Get(KeyUserID)
		return ok && v == userID
	})
}

func (s *MelodyService) SendToAdmins(msg Message) error {
	return s.broadcast(msg, func(q *melody.Session) bool {
		v, ok := q.Get(KeyIsAdmin)
		admin, _ := v.(bool)
		return ok && admin
	})
}

func (s *MelodyService) broadcast(msg Message, filter func(*melody.Session) bool) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.m.BroadcastFilter(b, filter)
}

// Nop bỏ qua mọi thông báo
type Nop struct{}

func (Nop) SendToUser(string, Message) error { return nil }
func (Nop) SendToAdmins(Message) error       { return nil }

type MessageBuilder struct {
	kind string
	data interface{}
}

func NewMessageBuilder(kind string) *MessageBuilder {
	return &MessageBuilder{kind: kind}
}

func (b *MessageBuilder) WithData(data interface{}) *MessageBuilder {
	b.data = data
	return b
}

func (b *MessageBuilder) Build() Message {
	return Message{Type: b.kind, Data: b.data}
}
