package conversations

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"aiconsole/internal/kv"
	"aiconsole/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChat(id, ts string) Chat {
	return Chat{
		ID:        id,
		Timestamp: ts,
		Title:     "New Chat",
		History:   json.RawMessage(`[{"role":"user","text":"hi"}]`),
	}
}

func TestSaveAndList(t *testing.T) {
	m := NewManager(kv.NewMemory())
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, "assistant", testChat("c1", "2026-08-01T10:00:00Z")))
	require.NoError(t, m.Save(ctx, "assistant", testChat("c2", "2026-08-02T10:00:00Z")))
	require.NoError(t, m.Save(ctx, "summarizer", testChat("c3", "2026-08-03T10:00:00Z")))

	all, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Len(t, all["assistant"], 2)
	// Newest first.
	assert.Equal(t, "c2", all["assistant"][0].ID)
	assert.Equal(t, "c1", all["assistant"][1].ID)
	require.Len(t, all["summarizer"], 1)
}

func TestSaveValidatesFields(t *testing.T) {
	m := NewManager(kv.NewMemory())

	c := testChat("c1", "2026-08-01T10:00:00Z")
	c.Title = ""
	assert.ErrorIs(t, m.Save(context.Background(), "assistant", c), shared.ErrInvalidRequest)
}

func TestUpdateHistoryBumpsRecency(t *testing.T) {
	m := NewManager(kv.NewMemory())
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, "assistant", testChat("old", "2026-08-01T10:00:00Z")))
	require.NoError(t, m.Save(ctx, "assistant", testChat("new", "2026-08-02T10:00:00Z")))

	before := time.Now().UTC()
	require.NoError(t, m.UpdateHistory(ctx, "assistant", "old", json.RawMessage(`[]`)))

	all, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "old", all["assistant"][0].ID)

	ts, err := time.Parse(time.RFC3339Nano, all["assistant"][0].Timestamp)
	require.NoError(t, err)
	assert.False(t, ts.Before(before.Truncate(time.Second)))

	assert.ErrorIs(t, m.UpdateHistory(ctx, "assistant", "ghost", json.RawMessage(`[]`)), shared.ErrChatNotFound)
	assert.ErrorIs(t, m.UpdateHistory(ctx, "assistant", "old", nil), shared.ErrInvalidRequest)
}

func TestRename(t *testing.T) {
	m := NewManager(kv.NewMemory())
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, "assistant", testChat("c1", "2026-08-01T10:00:00Z")))

	title, err := m.Rename(ctx, "assistant", "c1", "  Trip planning  ")
	require.NoError(t, err)
	assert.Equal(t, "Trip planning", title)

	_, err = m.Rename(ctx, "assistant", "c1", "   ")
	assert.ErrorIs(t, err, shared.ErrInvalidRequest)

	_, err = m.Rename(ctx, "assistant", "ghost", "x")
	assert.ErrorIs(t, err, shared.ErrChatNotFound)
}

func TestDeleteAndCascade(t *testing.T) {
	m := NewManager(kv.NewMemory())
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, "assistant", testChat("c1", "2026-08-01T10:00:00Z")))
	require.NoError(t, m.Save(ctx, "assistant", testChat("c2", "2026-08-02T10:00:00Z")))
	require.NoError(t, m.Save(ctx, "summarizer", testChat("c3", "2026-08-03T10:00:00Z")))

	require.NoError(t, m.Delete(ctx, "assistant", "c1"))
	assert.ErrorIs(t, m.Delete(ctx, "assistant", "c1"), shared.ErrChatNotFound)

	require.NoError(t, m.DeleteForAgent(ctx, "assistant"))
	all, err := m.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, all, "assistant")
	assert.Contains(t, all, "summarizer")
}
