package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/genai"

	"github.com/dgallion1/lexread/internal/api"
	"github.com/dgallion1/lexread/internal/cache"
	"github.com/dgallion1/lexread/internal/config"
	"github.com/dgallion1/lexread/internal/convert"
	"github.com/dgallion1/lexread/internal/explain"
	"github.com/dgallion1/lexread/internal/extract"
	"github.com/dgallion1/lexread/internal/filestore"
	"github.com/dgallion1/lexread/internal/layout"
	"github.com/dgallion1/lexread/internal/llm"
	"github.com/dgallion1/lexread/internal/ocr"
	"github.com/dgallion1/lexread/internal/segment"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Explanation cache.
	store, err := cache.Open(cfg.CacheDBPath)
	if err != nil {
		log.Error("opening explanation cache", "path", cfg.CacheDBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Upload storage.
	files, err := filestore.New(cfg.DataDir, "/static/uploads")
	if err != nil {
		log.Error("initializing file store", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	// OCR chain: Vision document analysis first, Vision line grouping as a
	// cheaper retry, Gemini transcription last. Engines without credentials
	// report themselves unavailable and are skipped at request time.
	chain := buildOCRChain(ctx, cfg, log)

	converter := convert.NewSofficeConverter(cfg.SofficeBin)
	if converter == nil {
		log.Warn("libreoffice not found, docx uploads lose position data")
	}

	layoutCfg := layout.Config{LineBreakJump: cfg.LineBreakJump, SpaceGap: cfg.SpaceGap}
	extractors := extract.NewSet(chain, converter, layoutCfg, log)

	analyzer, err := segment.NewProseAnalyzer()
	if err != nil {
		log.Error("initializing analyzer", "error", err)
		os.Exit(1)
	}
	segmenter := segment.New(analyzer, log)

	// Explanation service, with whatever model the .env configures.
	ai := config.NewAIManager(cfg.EnvPath)
	explainer := explain.New(store, log)
	if llmCfg := ai.Current().LLMConfig(); llmCfg.APIKey != "" {
		if provider, err := llm.New(llmCfg); err != nil {
			log.Warn("configured model not usable", "provider", llmCfg.Provider, "error", err)
		} else {
			explainer.SetProvider(provider)
			log.Info("model configured", "provider", llmCfg.Provider, "model", llmCfg.Model)
		}
	} else {
		log.Warn("no model configured, explanations disabled until set via /api/config")
	}

	srv := api.NewServer(extractors, segmenter, explainer, files, ai, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting lexread", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func buildOCRChain(ctx context.Context, cfg config.Config, log *slog.Logger) *ocr.Chain {
	var engines []ocr.Engine

	if cfg.VisionEnabled {
		if client, err := ocr.NewVisionClient(ctx); err != nil {
			log.Warn("cloud vision unavailable", "error", err)
		} else {
			engines = append(engines,
				ocr.NewVisionDocumentEngine(client),
				ocr.NewVisionLineEngine(client))
		}
	}

	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			log.Warn("gemini ocr unavailable", "error", err)
		} else {
			engines = append(engines, ocr.NewGeminiEngine(client, cfg.GeminiOCRModel))
		}
	}

	if len(engines) == 0 {
		log.Warn("no ocr engine configured, image uploads will fail")
	}
	return ocr.NewChain(log, engines...)
}
