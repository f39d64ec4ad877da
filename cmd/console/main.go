package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"aiconsole/internal/attachments"
	"aiconsole/internal/engine"
	"aiconsole/internal/handlers/agents"
	"aiconsole/internal/handlers/chat"
	"aiconsole/internal/handlers/conversations"
	"aiconsole/internal/handlers/settings"
	"aiconsole/internal/handlers/transcribe"
	"aiconsole/internal/handlers/uploads"
	"aiconsole/internal/kv"
	"aiconsole/internal/middleware"
	"aiconsole/internal/routers"
	"aiconsole/internal/shared"
	"aiconsole/internal/speech"

	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/manifold-inc/manifold-sdk/lib/eflag"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Flags / ENV Variables
	listenAddr := flag.String("listen-addr", shared.DefaultListenAddr, "Address to serve the console on")
	ollamaHost := flag.String("ollama-host", "http://127.0.0.1:11434", "Ollama base URL (must be local)")
	ttsURL := flag.String("tts-url", "http://127.0.0.1:8880/v1", "Speech synthesis engine base URL")
	ttsModel := flag.String("tts-model", "kokoro", "Speech synthesis model name")
	sttURL := flag.String("stt-url", "http://127.0.0.1:8000/v1", "Speech-to-text engine base URL")
	sttModel := flag.String("stt-model", "Systran/faster-whisper-small", "Speech-to-text model name")
	dataDir := flag.String("data-dir", "./data", "Directory for the settings and conversation database")
	staticDir := flag.String("static-dir", "./web", "Directory with the client bundle (empty disables)")
	debug := flag.Bool("debug", false, "Debug enabled")

	err := eflag.SetFlagsFromEnvironment()
	if err != nil {
		panic(err)
	}
	flag.Parse()

	var logger *zap.Logger
	if !*debug {
		logger, err = zap.NewProduction()
		if err != nil {
			panic("Failed init logger")
		}
	}
	if *debug {
		logger, err = zap.NewDevelopment()
		if err != nil {
			panic("Failed init logger")
		}
	}
	log := logger.Sugar()

	store, err := kv.NewBadger(kv.BadgerOptions{Dir: *dataDir})
	if err != nil {
		panic(fmt.Sprintf("failed opening data store at %s: %s", *dataDir, err))
	}
	defer func() {
		_ = store.Close()
	}()

	eng, err := engine.New(*ollamaHost, log)
	if err != nil {
		panic(fmt.Sprintf("failed initializing inference engine client: %s", err))
	}

	attachmentStore := attachments.NewStore(log)
	settingsMgr := settings.NewManager(store)
	conversationMgr := conversations.NewManager(store)
	agentMgr := agents.NewManager(store, conversationMgr, log)

	if err := agentMgr.EnsureDefault(context.Background()); err != nil {
		panic(fmt.Sprintf("failed seeding default agent: %s", err))
	}

	tts := speech.NewKokoroTTS(*ttsURL, *ttsModel, log)
	stt := speech.NewWhisperSTT(*sttURL, *sttModel, log)

	console := &routers.Console{
		Agents:        agentMgr,
		Conversations: conversationMgr,
		Settings:      settingsMgr,
		Uploads:       uploads.NewProcessor(settingsMgr, attachmentStore, log),
		Transcribe:    transcribe.NewHandler(stt, log),
		Chat:          chat.NewHandler(eng, tts, attachmentStore, log),
		Engine:        eng,
		Attachments:   attachmentStore,
		StaticDir:     *staticDir,
	}

	e := echo.New()
	e.GET(("/ping"), func(c echo.Context) error {
		return c.String(200, "")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	base := e.Group("")
	base.Use(emw.CORS())
	base.Use(middleware.NewRecoverMiddleware(log))
	base.Use(middleware.NewTrackMiddleware(log))

	routers.RegisterConsoleRoutes(base, console)

	go func() {
		if err := e.Start(*listenAddr); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()
	log.Infow("console started", "addr", *listenAddr, "engine", *ollamaHost)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// Wait for interrupt signal to gracefully shut down the server with a timeout of 10 seconds.
	<-ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), shared.DefaultShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
