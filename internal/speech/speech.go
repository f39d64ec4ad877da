// Package speech defines the console's boundary to the external speech
// engines: batch text-to-speech synthesis and batch speech-to-text
// transcription. Both implementations speak the OpenAI audio API against
// local servers (Kokoro-FastAPI for synthesis, faster-whisper-server for
// transcription), so nothing here leaves the machine.
package speech

import (
	"context"
	"io"
)

// SynthesisRequest is one sentence to vocalize.
type SynthesisRequest struct {
	Text  string
	Voice string
	Lang  string
	Speed float64
}

// Synthesizer converts text into an encoded WAV clip.
type Synthesizer interface {
	Synthesize(ctx context.Context, req SynthesisRequest) ([]byte, error)
}

// SynthesizeFunc adapts a function to the Synthesizer interface.
type SynthesizeFunc func(ctx context.Context, req SynthesisRequest) ([]byte, error)

func (f SynthesizeFunc) Synthesize(ctx context.Context, req SynthesisRequest) ([]byte, error) {
	return f(ctx, req)
}

// Transcriber converts a recorded audio clip into text. Batch, not
// streaming: the whole recording is submitted at once.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename, language string) (string, error)
}

// kokoroLangs maps browser language tags to the codes the synthesis engine
// expects.
var kokoroLangs = map[string]string{
	"zh": "cmn",
	"fr": "fr-fr",
}

// EngineLang translates a client language tag for the synthesis engine,
// passing unknown tags through unchanged.
func EngineLang(lang string) string {
	if mapped, ok := kokoroLangs[lang]; ok {
		return mapped
	}
	return lang
}
