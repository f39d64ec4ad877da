package speech

import (
	"context"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"go.uber.org/zap"
)

// KokoroTTS synthesizes speech through a local Kokoro-FastAPI server, which
// exposes the OpenAI /v1/audio/speech surface.
type KokoroTTS struct {
	client openai.Client
	model  string
	log    *zap.SugaredLogger
}

// NewKokoroTTS builds a synthesizer client. baseURL points at the local
// server, e.g. http://127.0.0.1:8880/v1. The API key is a placeholder; local
// servers ignore it.
func NewKokoroTTS(baseURL, model string, log *zap.SugaredLogger) *KokoroTTS {
	return &KokoroTTS{
		client: openai.NewClient(
			option.WithBaseURL(baseURL),
			option.WithAPIKey("not-needed"),
		),
		model: model,
		log:   log,
	}
}

// Synthesize renders one sentence to WAV bytes.
func (k *KokoroTTS) Synthesize(ctx context.Context, req SynthesisRequest) ([]byte, error) {
	res, err := k.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(k.model),
		Input:          req.Text,
		Voice:          openai.AudioSpeechNewParamsVoice(req.Voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatWAV,
		Speed:          param.NewOpt(req.Speed),
	}, option.WithJSONSet("lang_code", EngineLang(req.Lang)))
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return io.ReadAll(res.Body)
}
