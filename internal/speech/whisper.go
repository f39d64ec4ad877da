package speech

import (
	"context"
	"io"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"go.uber.org/zap"
)

// WhisperSTT transcribes recordings through a local faster-whisper server,
// which exposes the OpenAI /v1/audio/transcriptions surface.
type WhisperSTT struct {
	client openai.Client
	model  string
	log    *zap.SugaredLogger
}

// NewWhisperSTT builds a transcriber client. baseURL points at the local
// server, e.g. http://127.0.0.1:8000/v1.
func NewWhisperSTT(baseURL, model string, log *zap.SugaredLogger) *WhisperSTT {
	return &WhisperSTT{
		client: openai.NewClient(
			option.WithBaseURL(baseURL),
			option.WithAPIKey("not-needed"),
		),
		model: model,
		log:   log,
	}
}

// Transcribe submits one complete recording and returns the transcript text.
func (w *WhisperSTT) Transcribe(ctx context.Context, audio io.Reader, filename, language string) (string, error) {
	params := openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(w.model),
		File:  openai.File(audio, filename, "application/octet-stream"),
	}
	if language != "" {
		params.Language = param.NewOpt(language)
	}
	res, err := w.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Text), nil
}
