// Package settings persists the console-wide user settings and the last
// selected model. Settings are stored as one JSON document; partial updates
// are merged over the stored state so unknown or omitted fields keep their
// previous values.
package settings

import (
	"context"
	"encoding/json"
	"errors"

	"aiconsole/internal/kv"
	"aiconsole/internal/shared"
)

var (
	settingsKey  = kv.Key{"meta", "settings"}
	lastModelKey = kv.Key{"meta", "last_model"}
)

// Settings is the full console configuration as exposed to the client.
type Settings struct {
	TTSEnabled        bool    `json:"tts_enabled"`
	TTSLang           string  `json:"tts_lang"`
	TTSVoice          string  `json:"tts_voice"`
	TTSSpeed          float64 `json:"tts_speed"`
	NumCtx            int     `json:"num_ctx"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	MaxPages          int     `json:"max_pages"`
	PDFImageRes       float64 `json:"pdf_image_res"`
	MaxUploadFileSize int     `json:"max_upload_file_size"`
}

// Defaults returns the settings used before the user ever saved anything.
func Defaults() Settings {
	return Settings{
		TTSEnabled:        shared.DefaultTTSEnabled,
		TTSLang:           shared.DefaultTTSLang,
		TTSVoice:          shared.DefaultTTSVoice,
		TTSSpeed:          shared.DefaultTTSSpeed,
		NumCtx:            shared.DefaultNumCtx,
		Temperature:       shared.DefaultTemperature,
		TopP:              shared.DefaultTopP,
		MaxPages:          shared.DefaultMaxPDFPages,
		PDFImageRes:       shared.DefaultPDFImageRes,
		MaxUploadFileSize: shared.DefaultMaxUploadMB,
	}
}

// Manager reads and writes settings through the kv store.
type Manager struct {
	Store kv.Store
}

func NewManager(store kv.Store) *Manager {
	return &Manager{Store: store}
}

// Load returns the stored settings merged over the defaults, so documents
// written by older versions pick up defaults for fields they predate.
func (m *Manager) Load(ctx context.Context) (Settings, error) {
	s := Defaults()

	raw, err := m.Store.Get(ctx, settingsKey)
	if errors.Is(err, kv.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return Defaults(), err
	}
	return s, nil
}

// Save merges a partial JSON update over the current settings, persists the
// result and returns it.
func (m *Manager) Save(ctx context.Context, patch json.RawMessage) (Settings, error) {
	s, err := m.Load(ctx)
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(patch, &s); err != nil {
		return s, errors.Join(shared.ErrInvalidRequest, err)
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return s, err
	}
	if err := m.Store.Set(ctx, settingsKey, raw); err != nil {
		return s, err
	}
	return s, nil
}

// LastModel returns the model selected in the previous session, or "" when
// none was ever chosen.
func (m *Manager) LastModel(ctx context.Context) (string, error) {
	raw, err := m.Store.Get(ctx, lastModelKey)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// SetLastModel records the model the user switched to.
func (m *Manager) SetLastModel(ctx context.Context, model string) error {
	if model == "" {
		return shared.ErrInvalidRequest
	}
	return m.Store.Set(ctx, lastModelKey, []byte(model))
}
