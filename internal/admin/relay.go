package admin

import (
	"sync"

	"github.com/xenking/shopfront/internal/chat"
)

// Relay fans inbound chat messages into per-user threads for the admin
// console. Wire it to a chat client by passing Append as the OnMessage
// callback. Thread order is receipt order.
type Relay struct {
	mu      sync.RWMutex
	threads map[string][]chat.Message
}

// NewRelay creates an empty Relay.
func NewRelay() *Relay {
	return &Relay{threads: make(map[string][]chat.Message)}
}

// Append files the message under the customer side of the conversation.
func (r *Relay) Append(m chat.Message) {
	key := m.From
	if key == "" {
		key = m.To
	}
	r.mu.Lock()
	r.threads[key] = append(r.threads[key], m)
	r.mu.Unlock()
}

// Thread returns the conversation with the given user.
func (r *Relay) Thread(userID string) []chat.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msgs := r.threads[userID]
	out := make([]chat.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Users lists the user ids with at least one message.
func (r *Relay) Users() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.threads))
	for id := range r.threads {
		out = append(out, id)
	}
	return out
}
