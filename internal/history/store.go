// Package history provides the in-memory conversation set of a chat session.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/diogo/tutorchat/internal/models"
)

// Message represents a single message in a conversation
type Message struct {
	ID        int64       `json:"id"`
	Role      models.Role `json:"role"` // "user" or "assistant"
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
	Image     string      `json:"image,omitempty"` // data URL of an attached image
	Final     bool        `json:"final"`
}

// Conversation represents a complete chat conversation
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`

	nextMsgID int64
}

// clone returns a deep copy safe to hand out of the store
func (c *Conversation) clone() *Conversation {
	cp := *c
	cp.Messages = make([]Message, len(c.Messages))
	copy(cp.Messages, c.Messages)
	return &cp
}

// LastMessage returns the last message of the conversation
func (c *Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// DisplayTitle returns the title, or the untitled label when empty
func (c *Conversation) DisplayTitle() string {
	if c.Title == "" {
		return models.UntitledLabel
	}
	return c.Title
}

// Store holds the set of conversations and the active pointer.
// The active id always references a member of the set.
type Store struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
	order         []string // newest first
	activeID      string

	now      func() time.Time
	newID    func() string
	greeting string
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithClock sets the time source used for timestamps
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator sets the conversation id generator
func WithIDGenerator(newID func() string) StoreOption {
	return func(s *Store) {
		s.newID = newID
	}
}

// WithGreeting sets the seeded assistant greeting
func WithGreeting(greeting string) StoreOption {
	return func(s *Store) {
		s.greeting = greeting
	}
}

// NewStore creates a store seeded with one active conversation
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		conversations: make(map[string]*Conversation),
		now:           time.Now,
		newID:         uuid.NewString,
		greeting:      models.Greeting,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.CreateConversation()
	return s
}

// CreateConversation inserts a new conversation with a seeded greeting,
// places it first and makes it active
func (s *Store) CreateConversation() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	conv := &Conversation{
		ID:        s.newID(),
		Title:     models.DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
		nextMsgID: 1,
	}
	conv.Messages = []Message{{
		ID:        conv.nextMsgID,
		Role:      models.RoleAssistant,
		Content:   s.greeting,
		Timestamp: now,
		Final:     true,
	}}
	conv.nextMsgID++

	s.conversations[conv.ID] = conv
	s.order = append([]string{conv.ID}, s.order...)
	s.activeID = conv.ID

	return conv.ID
}

// SetActive switches the active conversation. Unknown ids are ignored.
func (s *Store) SetActive(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; ok {
		s.activeID = id
	}
}

// ActiveID returns the id of the active conversation
func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Active returns a snapshot of the active conversation
func (s *Store) Active() (*Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[s.activeID]
	if !ok {
		return nil, false
	}
	return conv.clone(), true
}

// Get returns a snapshot of the conversation with the given id
func (s *Store) Get(id string) (*Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, false
	}
	return conv.clone(), true
}

// List returns snapshots of all conversations, newest first
func (s *Store) List() []*Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*Conversation, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.conversations[id].clone())
	}
	return list
}

// Len returns the number of conversations
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

// ReplaceMessages atomically replaces the message sequence of a conversation.
// Unknown conversations and empty replacements are ignored.
func (s *Store) ReplaceMessages(id string, messages []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok || len(messages) == 0 {
		return
	}

	conv.Messages = make([]Message, len(messages))
	copy(conv.Messages, messages)
	for _, m := range messages {
		if m.ID >= conv.nextMsgID {
			conv.nextMsgID = m.ID + 1
		}
	}
	conv.UpdatedAt = s.now()
}

// AppendMessage appends a new message and returns it. User messages are
// final on creation; assistant messages stay open until FinalizeMessage.
func (s *Store) AppendMessage(id string, role models.Role, content, image string) (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return Message{}, false
	}

	now := s.now()
	msg := Message{
		ID:        conv.nextMsgID,
		Role:      role,
		Content:   content,
		Timestamp: now,
		Image:     image,
		Final:     role == models.RoleUser,
	}
	conv.nextMsgID++
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = now

	return msg, true
}

// UpdateMessageText sets the text of an in-flight assistant message.
// Returns false when the conversation or message is gone or already final.
func (s *Store) UpdateMessageText(convID string, msgID int64, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.findMessageLocked(convID, msgID)
	if msg == nil || msg.Final {
		return false
	}

	msg.Content = text
	s.conversations[convID].UpdatedAt = s.now()
	return true
}

// FinalizeMessage freezes a message so its text can no longer change
func (s *Store) FinalizeMessage(convID string, msgID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.findMessageLocked(convID, msgID)
	if msg == nil {
		return false
	}
	msg.Final = true
	return true
}

// MessageText returns the current text of a message
func (s *Store) MessageText(convID string, msgID int64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg := s.findMessageLocked(convID, msgID)
	if msg == nil {
		return "", false
	}
	return msg.Content, true
}

// SetTitle sets the title of a conversation
func (s *Store) SetTitle(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv, ok := s.conversations[id]; ok {
		conv.Title = title
	}
}

// findMessageLocked returns a pointer into the store.
// MUST be called with s.mu held
func (s *Store) findMessageLocked(convID string, msgID int64) *Message {
	conv, ok := s.conversations[convID]
	if !ok {
		return nil
	}
	for i := range conv.Messages {
		if conv.Messages[i].ID == msgID {
			return &conv.Messages[i]
		}
	}
	return nil
}
