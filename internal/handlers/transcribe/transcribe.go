// Package transcribe handles speech-to-text of recorded voice input. The raw
// transcript passes a garbled-output filter before it reaches the client:
// highly repetitive text and mixed-script output are hallmarks of whisper
// hallucinating on silence or noise, and are discarded rather than shown.
package transcribe

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"aiconsole/internal/shared"
	"aiconsole/internal/speech"
	"aiconsole/internal/textproc"

	"go.uber.org/zap"
)

// Handler runs transcriptions against the configured STT engine.
type Handler struct {
	STT speech.Transcriber
	Log *zap.SugaredLogger
}

func NewHandler(stt speech.Transcriber, log *zap.SugaredLogger) *Handler {
	return &Handler{STT: stt, Log: log}
}

// Transcribe converts one audio recording to text. language is a BCP 47 tag
// from the browser ("en-US"); only its primary subtag goes to the engine.
// Returns "" with a nil error when nothing usable was said.
func (h *Handler) Transcribe(ctx context.Context, audio io.Reader, filename, language string) (string, error) {
	lang, _, _ := strings.Cut(language, "-")

	start := time.Now()
	text, err := h.STT.Transcribe(ctx, audio, filename, lang)
	if err != nil {
		h.Log.Errorw("transcription failed", "error", err)
		return "", errors.Join(shared.ErrTranscribeError, err)
	}
	h.Log.Infow("transcription complete", "duration", time.Since(start), "chars", len(text))

	if textproc.HasRepeatedPhrases(text) || textproc.ContainsMixedScripts(text) {
		h.Log.Infow("garbled transcript discarded", "transcript", text)
		return "", nil
	}
	return text, nil
}
