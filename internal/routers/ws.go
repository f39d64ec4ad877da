package routers

import (
	"net/http"
	"sync"

	"aiconsole/internal/ctx"
	"aiconsole/internal/handlers/chat"
	"aiconsole/internal/metrics"
	"aiconsole/internal/shared"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The server only ever binds loopback; the browser talking to it is the
	// same user that started it.
	CheckOrigin: func(*http.Request) bool { return true },
}

func registerChatRoutes(g *echo.Group, console *Console) {
	g.GET("/ws", console.serveWS)
}

// wsEmitter serializes event writes onto one websocket connection. The
// generation goroutine and the read loop both emit, so writes take a lock.
type wsEmitter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsEmitter) Emit(ev chat.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(ev)
}

// clientMessage is what the browser sends over the socket: a type tag plus,
// for chat messages, the full generation request.
type clientMessage struct {
	Type string `json:"type"`
	chat.Request
}

// serveWS owns one client connection for its whole lifetime: it assigns the
// session id, relays generation requests to the coordinator and handles stop
// requests, and on disconnect cancels any in-flight generation and purges the
// session's uploads.
func (con *Console) serveWS(cc echo.Context) error {
	c := cc.(*ctx.Context)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		c.Log.Warnw("websocket upgrade failed", "error", err)
		return err
	}

	sess := chat.NewSession()
	emitter := &wsEmitter{conn: conn}

	metrics.ActiveSessions.Inc()
	c.Log.Infow("client connected", "session_id", sess.ID)

	var wg sync.WaitGroup
	defer func() {
		// Stop must come before the wait: the generation goroutine only
		// winds down once its context is canceled.
		sess.Stop()
		wg.Wait()
		purged := con.Attachments.PurgeSession(sess.ID)
		metrics.ActiveSessions.Dec()
		c.Log.Infow("client disconnected", "session_id", sess.ID, "purged_attachments", purged)
		conn.Close()
	}()

	if err := emitter.Emit(chat.Event{Type: chat.EventSession, SessionID: sess.ID}); err != nil {
		return nil
	}

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.Log.Warnw("websocket read failed", "session_id", sess.ID, "error", err)
			}
			return nil
		}

		switch msg.Type {
		case chat.ClientChatMessage:
			genCtx, err := sess.Begin(c.Request().Context())
			if err != nil {
				c.Log.Warnw("rejected concurrent generation", "session_id", sess.ID)
				_ = emitter.Emit(chat.Event{Type: chat.EventError, Error: shared.ErrGenerationBusy.Error()})
				continue
			}

			req := msg.Request
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer sess.End()
				con.Chat.Generate(genCtx, sess.ID, &req, emitter)
			}()

		case chat.ClientStop:
			c.Log.Infow("stop requested", "session_id", sess.ID)
			sess.Stop()

		default:
			c.Log.Warnw("unknown websocket message type", "session_id", sess.ID, "type", msg.Type)
		}
	}
}
