// Package chatstate keeps a client's local view of a conversation in sync with
// relay pushes and optimistic sends.
package chatstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Kariqs/lawlaw-api/relay"
	"github.com/google/uuid"
)

var ErrNoPlaceholder = errors.New("no pending message at index")

type Message struct {
	ID             uint      `json:"id"`
	ConversationID uint      `json:"conversationId"`
	SenderID       uint      `json:"senderId"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
	TempID         string    `json:"tempId,omitempty"`
	Pending        bool      `json:"pending,omitempty"`
}

// SendFunc delivers content to the server and returns the stored message.
type SendFunc func(ctx context.Context, content string) (Message, error)

type Conversation struct {
	ID uint

	mu       sync.Mutex
	messages []Message
}

func New(id uint, history []Message) *Conversation {
	c := &Conversation{ID: id}
	for _, m := range history {
		c.applyLocked(m)
	}
	return c
}

// Messages returns a copy of the current view.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) indexOf(id uint) int {
	for i, m := range c.messages {
		if !m.Pending && m.ID == id {
			return i
		}
	}
	return -1
}

// Apply merges a server-side message. Messages already present (by id) and
// messages of other conversations are ignored.
func (c *Conversation) Apply(m Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applyLocked(m)
}

func (c *Conversation) applyLocked(m Message) bool {
	if m.ConversationID != c.ID || m.ID == 0 || c.indexOf(m.ID) >= 0 {
		return false
	}
	m.Pending = false
	m.TempID = ""
	c.messages = append(c.messages, m)
	return true
}

// Remove drops a message deleted on the server.
func (c *Conversation) Remove(id uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.messages = append(c.messages[:i], c.messages[i+1:]...)
	return true
}

// AddPending appends a temporary message and returns its index.
func (c *Conversation) AddPending(senderID uint, content string, now time.Time) (int, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tempID := uuid.NewString()
	c.messages = append(c.messages, Message{
		ConversationID: c.ID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      now,
		TempID:         tempID,
		Pending:        true,
	})
	return len(c.messages) - 1, tempID
}

// placeholder resolves the pending entry created at index. Earlier removals
// may have shifted it, in which case it is looked up by temp id.
func (c *Conversation) placeholder(index int, tempID string) int {
	if index >= 0 && index < len(c.messages) && c.messages[index].Pending && c.messages[index].TempID == tempID {
		return index
	}
	for i, m := range c.messages {
		if m.Pending && m.TempID == tempID {
			return i
		}
	}
	return -1
}

// Confirm replaces the pending entry with the server's message. If a relay push
// already delivered that message the pending entry is simply dropped.
func (c *Conversation) Confirm(index int, tempID string, m Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.placeholder(index, tempID)
	if i < 0 {
		return fmt.Errorf("%w %d", ErrNoPlaceholder, index)
	}
	if c.indexOf(m.ID) >= 0 {
		c.messages = append(c.messages[:i], c.messages[i+1:]...)
		return nil
	}
	m.Pending = false
	m.TempID = ""
	c.messages[i] = m
	return nil
}

// Fail removes the pending entry after a failed send.
func (c *Conversation) Fail(index int, tempID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.placeholder(index, tempID)
	if i < 0 {
		return fmt.Errorf("%w %d", ErrNoPlaceholder, index)
	}
	c.messages = append(c.messages[:i], c.messages[i+1:]...)
	return nil
}

// Send performs an optimistic send: the message shows up immediately and is
// either confirmed or withdrawn once send returns.
func (c *Conversation) Send(ctx context.Context, senderID uint, content string, send SendFunc) (Message, error) {
	index, tempID := c.AddPending(senderID, content, time.Now())
	m, err := send(ctx, content)
	if err != nil {
		_ = c.Fail(index, tempID)
		return Message{}, err
	}
	if err := c.Confirm(index, tempID, m); err != nil {
		return Message{}, err
	}
	return m, nil
}

type deletedPayload struct {
	ID             uint `json:"id"`
	ConversationID uint `json:"conversationId"`
}

// ApplyEvent merges a relay event. Events that do not concern messages of
// this conversation are ignored.
func (c *Conversation) ApplyEvent(ev relay.Event) (bool, error) {
	switch ev.Name {
	case relay.EventMessageCreated:
		var m Message
		if err := json.Unmarshal(ev.Data, &m); err != nil {
			return false, fmt.Errorf("decode %s: %w", ev.Name, err)
		}
		return c.Apply(m), nil
	case relay.EventMessageDeleted:
		var d deletedPayload
		if err := json.Unmarshal(ev.Data, &d); err != nil {
			return false, fmt.Errorf("decode %s: %w", ev.Name, err)
		}
		if d.ConversationID != c.ID {
			return false, nil
		}
		return c.Remove(d.ID), nil
	}
	return false, nil
}
