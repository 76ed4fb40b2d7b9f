package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	orchestration "github.com/alpacavoice/agent/core"
	"github.com/alpacavoice/agent/core/conversations"
	"github.com/alpacavoice/agent/core/llms/gemini"
	sttdeepgram "github.com/alpacavoice/agent/core/speechtotext/deepgram"
	ttsdeepgram "github.com/alpacavoice/agent/core/texttospeech/deepgram"
	"github.com/alpacavoice/agent/internal/api"
	"github.com/alpacavoice/agent/internal/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error("agent exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	if _, err := os.Stat(cfg.StaticDir); err != nil {
		logger.Warn("static dir not found, static serving disabled", "dir", cfg.StaticDir)
		cfg.StaticDir = ""
	}

	transcriber, err := sttdeepgram.NewTranscriptionClient(cfg.DeepgramAPIKey)
	if err != nil {
		return fmt.Errorf("create transcription client: %w", err)
	}
	synthesizer, err := ttsdeepgram.NewTextToSpeechClient(cfg.DeepgramAPIKey)
	if err != nil {
		return fmt.Errorf("create text-to-speech client: %w", err)
	}
	replier, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("create gemini client: %w", err)
	}

	store := conversations.NewStore()
	orchestrator := orchestration.NewOrchestrator(
		orchestration.WithTranscriber(transcriber),
		orchestration.WithReplier(replier),
		orchestration.WithSynthesizer(synthesizer),
		orchestration.WithConversationStore(store),
		orchestration.WithStageTimeout(cfg.StageTimeout),
	)

	handler := &api.Handler{
		Pipeline:      orchestrator,
		Conversations: store,
		Config:        cfg,
		Logger:        logger,
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Chain(logger, cfg.CORSAllowedOrigins, api.NewRouter(handler)),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	listenErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
			return
		}
		listenErr <- nil
	}()

	logger.Info("agent listening", "addr", cfg.Addr)

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-listenErr
}
