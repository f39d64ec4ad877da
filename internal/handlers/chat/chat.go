// Package chat implements the streaming response coordinator: it drives one
// request/response cycle of model generation, multiplexing text tokens and
// synthesized speech audio to the client under cancellation control.
package chat

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"aiconsole/internal/engine"
	"aiconsole/internal/metrics"
	"aiconsole/internal/shared"
	"aiconsole/internal/speech"
	"aiconsole/internal/textproc"

	"go.uber.org/zap"
)

// Engine is the streaming token source. Implemented by engine.Client.
type Engine interface {
	Stream(ctx context.Context, req engine.StreamRequest, fn func(token string) error) (*engine.Final, error)
}

// AttachmentSource resolves and releases uploaded attachments. Implemented by
// attachments.Store.
type AttachmentSource interface {
	Resolve(sessionID, id string) ([][]byte, bool)
	Delete(id string)
}

// Turn is one conversation turn as sent by the client. AttachmentIDs refer to
// previously uploaded images or PDF pages.
type Turn struct {
	Role          string   `json:"role"`
	Text          string   `json:"text"`
	AttachmentIDs []string `json:"attachment_ids,omitempty"`
}

// VoiceSettings controls incremental speech output for one request.
type VoiceSettings struct {
	Enabled bool    `json:"enabled"`
	Lang    string  `json:"lang"`
	Voice   string  `json:"voice"`
	Speed   float64 `json:"speed"`
}

// ModelOptions is the decoding parameter bag.
type ModelOptions struct {
	NumCtx      int     `json:"num_ctx"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

// Request is one generation request. Immutable once submitted.
type Request struct {
	History []Turn        `json:"history"`
	System  string        `json:"system_message"`
	Model   string        `json:"model"`
	Options ModelOptions  `json:"llm_options"`
	Voice   VoiceSettings `json:"tts"`
}

// Handler coordinates generations. One Handler serves all connections; all
// per-request state lives on the stack of Generate.
type Handler struct {
	Engine      Engine
	TTS         speech.Synthesizer
	Attachments AttachmentSource
	Log         *zap.SugaredLogger
}

func NewHandler(eng Engine, tts speech.Synthesizer, att AttachmentSource, log *zap.SugaredLogger) *Handler {
	return &Handler{Engine: eng, TTS: tts, Attachments: att, Log: log}
}

// Generate runs one generation request against the engine and streams the
// results to emit. ctx is the per-request cancellation context from
// Session.Begin; canceling it stops token consumption at the next boundary
// while keeping partial output.
//
// Event ordering: token events in engine order, audio chunks in sentence
// order, then at most one context_warning, then exactly one terminal event
// (end on success or cancellation, error on engine failure). Every attachment
// consumed by the request is released regardless of outcome.
func (h *Handler) Generate(ctx context.Context, sessionID string, req *Request, emit Emitter) {
	applyDefaults(req)

	turns, consumed := h.resolveAttachments(sessionID, req.History)
	defer func() {
		for _, id := range consumed {
			h.Attachments.Delete(id)
		}
	}()

	var (
		full     strings.Builder
		buffer   string
		start    = time.Now()
		ttft     time.Duration
		gone     bool // client connection failed mid-stream
		tokenCnt int
	)

	streamReq := engine.StreamRequest{
		Model:       req.Model,
		System:      req.System,
		Turns:       turns,
		NumCtx:      req.Options.NumCtx,
		Temperature: req.Options.Temperature,
		TopP:        req.Options.TopP,
	}

	final, err := h.Engine.Stream(ctx, streamReq, func(token string) error {
		// Cancellation is polled between token-emission steps.
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if tokenCnt == 0 {
			ttft = time.Since(start)
		}
		tokenCnt++

		full.WriteString(token)
		buffer += token

		if eerr := emit.Emit(Event{Type: EventToken, Token: token}); eerr != nil {
			gone = true
			return eerr
		}

		if req.Voice.Enabled {
			sentences, rest := textproc.SplitSentences(buffer)
			for _, sentence := range sentences {
				h.speakSentence(ctx, sentence, req.Voice, emit)
			}
			if len(sentences) > 0 {
				buffer = rest
			}
		}
		return nil
	})

	canceled := errors.Is(err, context.Canceled) || ctx.Err() != nil

	switch {
	case err == nil:
		// Warning first, then the trailing audio, then end: same order the
		// client renders them in.
		if final != nil {
			h.recordUsage(req.Model, final, start, ttft)
			h.warnContextUsage(req.Options.NumCtx, final, emit)
		}
		if req.Voice.Enabled && strings.TrimSpace(buffer) != "" {
			h.speakSentence(ctx, buffer, req.Voice, emit)
		}
		h.emitEnd(emit, full.String())
		metrics.GenerationCount.WithLabelValues(req.Model, "success").Inc()

	case canceled:
		h.Log.Infow("generation stopped", "session_id", sessionID, "tokens", tokenCnt)
		// No trailing synthesis after a stop: the user asked for silence.
		if !gone {
			h.emitEnd(emit, full.String())
		}
		metrics.GenerationCount.WithLabelValues(req.Model, "canceled").Inc()
		metrics.CanceledGenerations.WithLabelValues(req.Model).Inc()

	case gone:
		h.Log.Warnw("client went away mid-stream", "session_id", sessionID, "tokens", tokenCnt, "error", err)
		metrics.GenerationCount.WithLabelValues(req.Model, "disconnected").Inc()

	default:
		h.Log.Errorw("inference stream failed", "session_id", sessionID, "error", errors.Join(shared.ErrEngineStream, err))
		// The client sees a generic message; detail stays in the logs.
		_ = emit.Emit(Event{Type: EventError, Error: "An error occurred with the AI model."})
		metrics.GenerationCount.WithLabelValues(req.Model, "error").Inc()
	}
}

// resolveAttachments swaps attachment ids for their stored page data. Missing
// or expired ids are logged and skipped; the turn proceeds text-only. The
// returned id list is what the caller must release afterwards.
func (h *Handler) resolveAttachments(sessionID string, history []Turn) ([]engine.Turn, []string) {
	turns := make([]engine.Turn, 0, len(history))
	var consumed []string
	seen := make(map[string]bool)

	for _, t := range history {
		et := engine.Turn{Role: t.Role, Content: t.Text}
		for _, id := range t.AttachmentIDs {
			if !seen[id] {
				seen[id] = true
				consumed = append(consumed, id)
			}
			pages, ok := h.Attachments.Resolve(sessionID, id)
			if !ok {
				h.Log.Warnw("attachment not found in store", "session_id", sessionID, "attachment_id", id)
				continue
			}
			et.Images = append(et.Images, pages...)
		}
		turns = append(turns, et)
	}
	return turns, consumed
}

// speakSentence synthesizes one sentence and emits the audio. Synthesis
// failures are local: log, count, continue streaming text.
func (h *Handler) speakSentence(ctx context.Context, sentence string, voice VoiceSettings, emit Emitter) {
	clean := textproc.CleanForSpeech(sentence)
	if clean == "" {
		return
	}

	wav, err := h.TTS.Synthesize(ctx, speech.SynthesisRequest{
		Text:  clean,
		Voice: voice.Voice,
		Lang:  voice.Lang,
		Speed: voice.Speed,
	})
	if err != nil {
		h.Log.Warnw("speech synthesis failed, skipping sentence", "error", err, "sentence", clean)
		metrics.SynthesisFailures.WithLabelValues(voice.Voice).Inc()
		return
	}
	metrics.SentencesSynthesized.WithLabelValues(voice.Voice).Inc()

	_ = emit.Emit(Event{
		Type:      EventAudioChunk,
		AudioData: base64.StdEncoding.EncodeToString(wav),
	})
}

// warnContextUsage emits a non-fatal advisory when the conversation has used
// 90% or more of the requested context window.
func (h *Handler) warnContextUsage(numCtx int, final *engine.Final, emit Emitter) {
	total := final.TotalTokens()
	if float64(total) < float64(numCtx)*shared.ContextWarnRatio {
		return
	}
	msg := fmt.Sprintf(
		"Context Warning: The chat has used %d tokens, which is over 90%% of the %d token limit. "+
			"The AI may soon lose track of the conversation. Please start a new chat.",
		total, numCtx,
	)
	h.Log.Warnw("context window nearly exhausted", "total_tokens", total, "num_ctx", numCtx)
	_ = emit.Emit(Event{Type: EventContextWarning, Message: msg})
}

func (h *Handler) emitEnd(emit Emitter, full string) {
	_ = emit.Emit(Event{Type: EventEnd, FinalMessage: strings.TrimSpace(full)})
}

func (h *Handler) recordUsage(model string, final *engine.Final, start time.Time, ttft time.Duration) {
	metrics.PromptTokens.WithLabelValues(model).Add(float64(final.PromptTokens))
	metrics.CompletionTokens.WithLabelValues(model).Add(float64(final.CompletionTokens))
	metrics.GenerationDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
	if ttft > 0 {
		metrics.TimeToFirstToken.WithLabelValues(model).Observe(ttft.Seconds())
	}
	if final.EvalDuration > 0 {
		metrics.TokensPerSecond.WithLabelValues(model).Observe(
			float64(final.CompletionTokens) / final.EvalDuration.Seconds())
	}
}

func applyDefaults(req *Request) {
	if req.Options.NumCtx <= 0 {
		req.Options.NumCtx = shared.DefaultNumCtx
	}
	if req.Options.Temperature <= 0 {
		req.Options.Temperature = shared.DefaultTemperature
	}
	if req.Options.TopP <= 0 {
		req.Options.TopP = shared.DefaultTopP
	}
	if req.Voice.Lang == "" {
		req.Voice.Lang = shared.DefaultTTSLang
	}
	if req.Voice.Voice == "" {
		req.Voice.Voice = shared.DefaultTTSVoice
	}
	if req.Voice.Speed <= 0 {
		req.Voice.Speed = shared.DefaultTTSSpeed
	}
	if req.System == "" {
		req.System = "You are a helpful assistant."
	}
}
