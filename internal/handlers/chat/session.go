package chat

import (
	"context"
	"sync"

	"aiconsole/internal/shared"

	"github.com/google/uuid"
)

// Session tracks the per-connection generation state: at most one in-flight
// generation, stoppable from the connection's read loop at any time. The
// cancellation is an explicit context canceled by Stop, polled by the
// generation loop between tokens.
type Session struct {
	ID string

	mu     sync.Mutex
	cancel context.CancelFunc // non-nil while a generation is in flight
}

func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// Begin claims the session for a new generation and returns the request
// context. Fails with ErrGenerationBusy when one is already in flight.
func (s *Session) Begin(parent context.Context) (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil, shared.ErrGenerationBusy
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	return ctx, nil
}

// End releases the session after a generation finishes.
func (s *Session) End() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
}

// Stop cancels the in-flight generation, if any. Safe to call at any time;
// the generation notices at its next token boundary. Partial output already
// emitted is kept.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
}
