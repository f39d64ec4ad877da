// Package conversations stores saved chat sessions per agent. Each chat is
// one JSON document under kv key {"conv", agentID, chatID}; listing groups
// them by agent, most recently touched first.
package conversations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"aiconsole/internal/kv"
	"aiconsole/internal/shared"
)

// Chat is one saved conversation. History is kept opaque: the server never
// interprets past turns, it only stores what the client renders.
type Chat struct {
	ID        string          `json:"id"`
	Timestamp string          `json:"timestamp"`
	Title     string          `json:"title"`
	History   json.RawMessage `json:"history"`
}

func chatKey(agentID, chatID string) kv.Key { return kv.Key{"conv", agentID, chatID} }

// Manager provides conversation CRUD over the kv store.
type Manager struct {
	Store kv.Store
}

func NewManager(store kv.Store) *Manager {
	return &Manager{Store: store}
}

// List returns every saved chat grouped by agent id, newest first within
// each agent. Timestamps are RFC 3339 so lexicographic order is time order.
func (m *Manager) List(ctx context.Context) (map[string][]Chat, error) {
	entries, err := m.Store.List(ctx, kv.Key{"conv"})
	if err != nil {
		return nil, err
	}

	out := make(map[string][]Chat)
	for _, e := range entries {
		if len(e.Key) != 3 {
			continue
		}
		var c Chat
		if err := json.Unmarshal(e.Value, &c); err != nil {
			return nil, fmt.Errorf("decoding chat %s: %w", e.Key, err)
		}
		agentID := e.Key[1]
		out[agentID] = append(out[agentID], c)
	}

	for _, chats := range out {
		sort.Slice(chats, func(i, j int) bool {
			return chats[i].Timestamp > chats[j].Timestamp
		})
	}
	return out, nil
}

// Save stores a new chat session under an agent. All four fields are
// required.
func (m *Manager) Save(ctx context.Context, agentID string, c Chat) error {
	if c.ID == "" || c.Timestamp == "" || c.Title == "" || c.History == nil {
		return fmt.Errorf("%w: chat session requires id, timestamp, title and history", shared.ErrInvalidRequest)
	}
	return m.write(ctx, agentID, c)
}

// UpdateHistory replaces a chat's history and bumps its timestamp so it
// sorts to the top of the agent's list.
func (m *Manager) UpdateHistory(ctx context.Context, agentID, chatID string, history json.RawMessage) error {
	if history == nil {
		return fmt.Errorf("%w: missing history", shared.ErrInvalidRequest)
	}
	c, err := m.get(ctx, agentID, chatID)
	if err != nil {
		return err
	}
	c.History = history
	c.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	return m.write(ctx, agentID, c)
}

// Rename sets a chat's title and returns the trimmed value actually stored.
func (m *Manager) Rename(ctx context.Context, agentID, chatID, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: invalid or missing title", shared.ErrInvalidRequest)
	}
	c, err := m.get(ctx, agentID, chatID)
	if err != nil {
		return "", err
	}
	c.Title = title
	if err := m.write(ctx, agentID, c); err != nil {
		return "", err
	}
	return title, nil
}

// Delete removes one chat. Unknown chats are an error so the client can
// surface a stale sidebar.
func (m *Manager) Delete(ctx context.Context, agentID, chatID string) error {
	if _, err := m.get(ctx, agentID, chatID); err != nil {
		return err
	}
	return m.Store.Delete(ctx, chatKey(agentID, chatID))
}

// DeleteForAgent removes every chat of one agent. Used when the agent itself
// is deleted.
func (m *Manager) DeleteForAgent(ctx context.Context, agentID string) error {
	entries, err := m.Store.List(ctx, kv.Key{"conv", agentID})
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := m.Store.Delete(ctx, e.Key); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) get(ctx context.Context, agentID, chatID string) (Chat, error) {
	raw, err := m.Store.Get(ctx, chatKey(agentID, chatID))
	if errors.Is(err, kv.ErrNotFound) {
		return Chat{}, shared.ErrChatNotFound
	}
	if err != nil {
		return Chat{}, err
	}
	var c Chat
	if err := json.Unmarshal(raw, &c); err != nil {
		return Chat{}, err
	}
	return c, nil
}

func (m *Manager) write(ctx context.Context, agentID string, c Chat) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return m.Store.Set(ctx, chatKey(agentID, c.ID), raw)
}
