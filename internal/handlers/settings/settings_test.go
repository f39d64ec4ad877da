package settings

import (
	"context"
	"encoding/json"
	"testing"

	"aiconsole/internal/kv"
	"aiconsole/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReturnsDefaultsWhenEmpty(t *testing.T) {
	m := NewManager(kv.NewMemory())

	s, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
	assert.Equal(t, 16000, s.NumCtx)
	assert.Equal(t, "af_heart", s.TTSVoice)
}

func TestSaveMergesPartialUpdate(t *testing.T) {
	m := NewManager(kv.NewMemory())
	ctx := context.Background()

	s, err := m.Save(ctx, json.RawMessage(`{"num_ctx": 8192, "tts_enabled": false}`))
	require.NoError(t, err)
	assert.Equal(t, 8192, s.NumCtx)
	assert.False(t, s.TTSEnabled)
	// Untouched fields keep their defaults.
	assert.Equal(t, 0.4, s.Temperature)

	// A later partial save keeps the earlier change.
	s, err = m.Save(ctx, json.RawMessage(`{"tts_speed": 1.3}`))
	require.NoError(t, err)
	assert.Equal(t, 8192, s.NumCtx)
	assert.Equal(t, 1.3, s.TTSSpeed)

	// And Load sees the persisted state.
	s, err = m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8192, s.NumCtx)
}

func TestSaveRejectsMalformedJSON(t *testing.T) {
	m := NewManager(kv.NewMemory())

	_, err := m.Save(context.Background(), json.RawMessage(`{"num_ctx":`))
	assert.ErrorIs(t, err, shared.ErrInvalidRequest)
}

func TestLastModel(t *testing.T) {
	m := NewManager(kv.NewMemory())
	ctx := context.Background()

	model, err := m.LastModel(ctx)
	require.NoError(t, err)
	assert.Empty(t, model)

	require.NoError(t, m.SetLastModel(ctx, "gemma3:4b"))
	model, err = m.LastModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "gemma3:4b", model)

	assert.ErrorIs(t, m.SetLastModel(ctx, ""), shared.ErrInvalidRequest)
}
