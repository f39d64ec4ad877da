package routers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"aiconsole/internal/attachments"
	"aiconsole/internal/engine"
	"aiconsole/internal/handlers/chat"
	"aiconsole/internal/middleware"
	"aiconsole/internal/speech"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// blockingEngine emits one token and then holds the stream open until its
// context is canceled.
type blockingEngine struct {
	started  chan struct{}
	canceled chan struct{}
}

func (b *blockingEngine) Stream(ctx context.Context, _ engine.StreamRequest, fn func(string) error) (*engine.Final, error) {
	_ = fn("thinking")
	close(b.started)
	<-ctx.Done()
	close(b.canceled)
	return nil, ctx.Err()
}

func newWSServer(t *testing.T, eng chat.Engine) (*httptest.Server, *attachments.Store) {
	t.Helper()
	log := zap.NewNop().Sugar()
	store := attachments.NewStore(log)
	tts := speech.SynthesizeFunc(func(context.Context, speech.SynthesisRequest) ([]byte, error) {
		return []byte("wav"), nil
	})

	console := &Console{
		Chat:        chat.NewHandler(eng, tts, store, log),
		Attachments: store,
	}

	e := echo.New()
	base := e.Group("")
	base.Use(middleware.NewTrackMiddleware(log))
	RegisterConsoleRoutes(base, console)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, store
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn
}

func TestServeWSDisconnectCancelsGeneration(t *testing.T) {
	eng := &blockingEngine{started: make(chan struct{}), canceled: make(chan struct{})}
	srv, store := newWSServer(t, eng)

	conn := dialWS(t, srv)

	var hello chat.Event
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, chat.EventSession, hello.Type)
	require.NotEmpty(t, hello.SessionID)

	store.Put(hello.SessionID, [][]byte{[]byte("page")})

	require.NoError(t, conn.WriteJSON(map[string]any{"type": chat.ClientChatMessage, "model": "m"}))
	select {
	case <-eng.started:
	case <-time.After(2 * time.Second):
		t.Fatal("generation never reached the engine")
	}

	require.NoError(t, conn.Close())

	// Dropping the connection cancels the in-flight generation.
	select {
	case <-eng.canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("generation context was not canceled after client disconnect")
	}

	// And the session's pending uploads are purged once the handler unwinds.
	assert.Eventually(t, func() bool { return store.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServeWSStopMessageCancelsGeneration(t *testing.T) {
	eng := &blockingEngine{started: make(chan struct{}), canceled: make(chan struct{})}
	srv, _ := newWSServer(t, eng)

	conn := dialWS(t, srv)
	defer conn.Close()

	var hello chat.Event
	require.NoError(t, conn.ReadJSON(&hello))

	require.NoError(t, conn.WriteJSON(map[string]any{"type": chat.ClientChatMessage, "model": "m"}))
	select {
	case <-eng.started:
	case <-time.After(2 * time.Second):
		t.Fatal("generation never reached the engine")
	}

	require.NoError(t, conn.WriteJSON(map[string]any{"type": chat.ClientStop}))
	select {
	case <-eng.canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("generation context was not canceled by the stop message")
	}
}
