// Package agents manages the agent roster: the immutable default assistant
// plus user-defined agents with their own persona and per-agent settings.
//
// An agent is an open JSON document rather than a fixed struct: besides the
// core fields (id, name, title, persona, color, type, isDefault) it absorbs
// whatever settings keys the client merges in per agent (model, tts_lang,
// num_ctx and so on). Documents live under kv key {"agent", id}; display
// order is a separate id list under {"meta", "agent_order"}.
package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"aiconsole/internal/kv"
	"aiconsole/internal/shared"

	"go.uber.org/zap"
)

// Agent is an open agent document keyed by its JSON field names.
type Agent map[string]any

// ID returns the agent's id field, or "" when absent.
func (a Agent) ID() string {
	id, _ := a["id"].(string)
	return id
}

// IsDefault reports whether this is the built-in assistant.
func (a Agent) IsDefault() bool {
	d, _ := a["isDefault"].(bool)
	return d
}

var orderKey = kv.Key{"meta", "agent_order"}

func agentKey(id string) kv.Key { return kv.Key{"agent", id} }

// DefaultAgent returns a fresh copy of the built-in assistant document.
func DefaultAgent() Agent {
	return Agent{
		"id":        "assistant",
		"name":      "Ai Assistant",
		"title":     "A friendly Ai Assistant",
		"persona":   "You are a friendly and helpful assistant. Do not use emojis. Use LaTeX notation for mathematical or scientific expressions only.",
		"color":     "#4f46e5",
		"type":      "multi-turn",
		"isDefault": true,
	}
}

// Manager provides agent CRUD over the kv store. Conversations is consulted
// on delete to cascade-remove the agent's chat histories.
type Manager struct {
	Store         kv.Store
	Conversations ConversationPurger
	Log           *zap.SugaredLogger
}

// ConversationPurger removes all stored conversations of one agent.
type ConversationPurger interface {
	DeleteForAgent(ctx context.Context, agentID string) error
}

func NewManager(store kv.Store, conv ConversationPurger, log *zap.SugaredLogger) *Manager {
	return &Manager{Store: store, Conversations: conv, Log: log}
}

// EnsureDefault seeds or repairs the roster: on first run the default agent
// is created; if it ever goes missing from the order it is prepended back.
func (m *Manager) EnsureDefault(ctx context.Context) error {
	order, err := m.loadOrder(ctx)
	if err != nil {
		return err
	}

	for _, id := range order {
		if id == "assistant" {
			return nil
		}
	}

	m.Log.Infow("seeding default agent")
	if err := m.writeAgent(ctx, DefaultAgent()); err != nil {
		return err
	}
	return m.saveOrder(ctx, append([]string{"assistant"}, order...))
}

// List returns all agents in display order. Ids present in the order but
// missing from the store are skipped.
func (m *Manager) List(ctx context.Context) ([]Agent, error) {
	order, err := m.loadOrder(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Agent, 0, len(order))
	for _, id := range order {
		a, err := m.get(ctx, id)
		if errors.Is(err, shared.ErrAgentNotFound) {
			m.Log.Warnw("agent in order list but not in store", "agent_id", id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// Create validates and stores a new agent, prepending it to the order. The
// new agent inherits the current model and global settings the caller passes
// as inherited.
func (m *Manager) Create(ctx context.Context, doc Agent, inherited map[string]any) (Agent, error) {
	for _, field := range []string{"id", "name", "title", "persona", "type"} {
		if s, ok := doc[field].(string); !ok || s == "" {
			return nil, fmt.Errorf("%w: missing agent field %q", shared.ErrInvalidRequest, field)
		}
	}
	id := doc.ID()
	if _, err := m.get(ctx, id); err == nil {
		return nil, fmt.Errorf("%w: agent %q already exists", shared.ErrInvalidRequest, id)
	}

	doc["isDefault"] = false
	for k, v := range inherited {
		doc[k] = v
	}

	if err := m.writeAgent(ctx, doc); err != nil {
		return nil, err
	}

	order, err := m.loadOrder(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.saveOrder(ctx, append([]string{id}, order...)); err != nil {
		return nil, err
	}
	return doc, nil
}

// Update merges new fields into an existing agent. The default agent and the
// id/isDefault fields are immutable.
func (m *Manager) Update(ctx context.Context, id string, patch map[string]any) (Agent, error) {
	a, err := m.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.IsDefault() {
		return nil, shared.ErrDefaultImmutable
	}

	delete(patch, "id")
	delete(patch, "isDefault")
	for k, v := range patch {
		a[k] = v
	}

	if err := m.writeAgent(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// SaveSettings merges per-agent settings (model, voice, decoding parameters)
// into the agent document. The default agent's settings are the global ones
// and cannot be stored here.
func (m *Manager) SaveSettings(ctx context.Context, id string, settings map[string]any) error {
	a, err := m.get(ctx, id)
	if err != nil {
		return err
	}
	if a.IsDefault() {
		return shared.ErrDefaultSettings
	}

	for k, v := range settings {
		a[k] = v
	}
	return m.writeAgent(ctx, a)
}

// Reorder replaces the display order. The new order must be a permutation of
// the current roster.
func (m *Manager) Reorder(ctx context.Context, ids []string) error {
	order, err := m.loadOrder(ctx)
	if err != nil {
		return err
	}

	current := make(map[string]bool, len(order))
	for _, id := range order {
		current[id] = true
	}
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if current[id] {
			kept = append(kept, id)
		}
	}
	if len(kept) != len(order) {
		return fmt.Errorf("%w: reorder must include every agent exactly once", shared.ErrInvalidRequest)
	}
	return m.saveOrder(ctx, kept)
}

// Delete removes an agent and all of its conversations. The default agent
// cannot be deleted.
func (m *Manager) Delete(ctx context.Context, id string) error {
	a, err := m.get(ctx, id)
	if err != nil {
		return err
	}
	if a.IsDefault() {
		return shared.ErrDefaultProtected
	}

	if err := m.Store.Delete(ctx, agentKey(id)); err != nil {
		return err
	}

	order, err := m.loadOrder(ctx)
	if err != nil {
		return err
	}
	kept := order[:0]
	for _, oid := range order {
		if oid != id {
			kept = append(kept, oid)
		}
	}
	if err := m.saveOrder(ctx, kept); err != nil {
		return err
	}

	if m.Conversations != nil {
		if err := m.Conversations.DeleteForAgent(ctx, id); err != nil {
			m.Log.Errorw("failed to purge conversations of deleted agent", "agent_id", id, "error", err)
		}
	}
	return nil
}

func (m *Manager) get(ctx context.Context, id string) (Agent, error) {
	raw, err := m.Store.Get(ctx, agentKey(id))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, shared.ErrAgentNotFound
	}
	if err != nil {
		return nil, err
	}
	var a Agent
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, err
	}
	return a, nil
}

func (m *Manager) writeAgent(ctx context.Context, a Agent) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return m.Store.Set(ctx, agentKey(a.ID()), raw)
}

func (m *Manager) loadOrder(ctx context.Context) ([]string, error) {
	raw, err := m.Store.Get(ctx, orderKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var order []string
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, err
	}
	return order, nil
}

func (m *Manager) saveOrder(ctx context.Context, order []string) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return m.Store.Set(ctx, orderKey, raw)
}
