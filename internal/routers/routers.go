// Package routers wires the HTTP and WebSocket surface of the console to the
// domain handlers.
package routers

import (
	"errors"
	"net/http"

	"aiconsole/internal/attachments"
	"aiconsole/internal/ctx"
	"aiconsole/internal/engine"
	"aiconsole/internal/handlers/agents"
	"aiconsole/internal/handlers/chat"
	"aiconsole/internal/handlers/conversations"
	"aiconsole/internal/handlers/settings"
	"aiconsole/internal/handlers/transcribe"
	"aiconsole/internal/handlers/uploads"
	"aiconsole/internal/shared"

	"github.com/labstack/echo/v4"
)

// Console bundles every dependency the route handlers need.
type Console struct {
	Agents        *agents.Manager
	Conversations *conversations.Manager
	Settings      *settings.Manager
	Uploads       *uploads.Processor
	Transcribe    *transcribe.Handler
	Chat          *chat.Handler
	Engine        *engine.Client
	Attachments   *attachments.Store

	// StaticDir holds the client bundle; "" disables the index route.
	StaticDir string
}

// RegisterConsoleRoutes attaches every route to the echo instance.
func RegisterConsoleRoutes(g *echo.Group, console *Console) {
	registerAgentRoutes(g, console)
	registerConversationRoutes(g, console)
	registerSettingsRoutes(g, console)
	registerUploadRoutes(g, console)
	registerTranscribeRoutes(g, console)
	registerChatRoutes(g, console)
	registerIndexRoute(g, console)
}

// jsonError maps a domain error onto the {"error": msg} body the client
// expects. RequestErrors carry their own status and user-facing message;
// anything else is a 500 with detail kept to the logs.
func jsonError(cc echo.Context, err error) error {
	c := cc.(*ctx.Context)
	c.LogValues.AddError(err)

	var reqErr *shared.RequestError
	if errors.As(err, &reqErr) {
		return c.JSON(reqErr.StatusCode, map[string]string{"error": reqErr.Err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func registerIndexRoute(g *echo.Group, console *Console) {
	if console.StaticDir == "" {
		return
	}
	// The client bundle changes with every release; never let the browser
	// cache a stale copy of it.
	g.GET("/", func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0, private")
		c.Response().Header().Set("Pragma", "no-cache")
		c.Response().Header().Set("Expires", "0")
		return c.File(console.StaticDir + "/index.html")
	})
	g.Static("/static", console.StaticDir)
}
