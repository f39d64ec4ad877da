// Package engine wraps the local Ollama daemon behind a small streaming
// interface. The console never implements inference itself; this client is
// the boundary to the external engine.
package engine

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"time"

	"aiconsole/internal/shared"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

// Turn is one resolved conversation turn ready for the model call. Images
// hold raw encoded page bytes; the client library handles wire encoding.
type Turn struct {
	Role    string
	Content string
	Images  [][]byte
}

// StreamRequest describes one generation. Immutable once submitted.
type StreamRequest struct {
	Model       string
	System      string
	Turns       []Turn
	NumCtx      int
	Temperature float64
	TopP        float64
}

// Final carries the engine's end-of-stream statistics.
type Final struct {
	PromptTokens     int
	CompletionTokens int
	EvalDuration     time.Duration
}

// TotalTokens is prompt plus completion usage, used for the context-window
// advisory.
func (f *Final) TotalTokens() int {
	return f.PromptTokens + f.CompletionTokens
}

// Client talks to a localhost Ollama daemon.
type Client struct {
	api *api.Client
	log *zap.SugaredLogger
}

// New builds a Client for the given host ("" uses the default localhost
// daemon). The host must be local: this console refuses to send conversation
// data to a remote inference server.
func New(host string, log *zap.SugaredLogger) (*Client, error) {
	if !shared.IsLocalhostURL(host) {
		return nil, errors.New("engine: ollama host is not localhost:11434, refusing to start")
	}
	if host == "" {
		host = "http://127.0.0.1:11434"
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, err
	}
	// No client timeout: generation length is unbounded and cancellation is
	// handled through the request context.
	return &Client{
		api: api.NewClient(u, &http.Client{}),
		log: log,
	}, nil
}

// Stream opens a streaming chat call and invokes fn for every produced token
// in order. fn returning an error aborts the stream and surfaces that error.
// The returned Final is nil when the stream ended before the engine reported
// its statistics (cancellation, mid-stream failure).
func (c *Client) Stream(ctx context.Context, req StreamRequest, fn func(token string) error) (*Final, error) {
	messages := make([]api.Message, 0, len(req.Turns)+1)
	if req.System != "" {
		messages = append(messages, api.Message{Role: "system", Content: req.System})
	}
	for _, t := range req.Turns {
		m := api.Message{Role: t.Role, Content: t.Content}
		for _, img := range t.Images {
			m.Images = append(m.Images, api.ImageData(img))
		}
		messages = append(messages, m)
	}

	stream := true
	chatReq := &api.ChatRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   &stream,
		Options: map[string]any{
			"num_ctx":     req.NumCtx,
			"temperature": req.Temperature,
			"top_p":       req.TopP,
		},
	}

	var final *Final
	err := c.api.Chat(ctx, chatReq, func(res api.ChatResponse) error {
		if res.Message.Content != "" {
			if err := fn(res.Message.Content); err != nil {
				return err
			}
		}
		if res.Done {
			final = &Final{
				PromptTokens:     res.PromptEvalCount,
				CompletionTokens: res.EvalCount,
				EvalDuration:     res.EvalDuration,
			}
		}
		return nil
	})
	if err != nil {
		return final, err
	}
	return final, nil
}

// Models lists the models available on the daemon, sorted by name.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	resp, err := c.api.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names, nil
}
