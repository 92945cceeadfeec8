package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"adaptd/internal/config"
	"adaptd/internal/engine"
	"adaptd/internal/httpapi"
	"adaptd/internal/metrics"
	"adaptd/internal/model"
	"adaptd/internal/pattern"
	"adaptd/pkg/types"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	// Flags with environment variable defaults
	addr := flag.String("addr", envOr("ADAPTD_ADDR", ":8080"), "HTTP listen address, e.g. :8080")
	configPath := flag.String("config", envOr("ADAPTD_CONFIG", ""), "Path to config file (.yaml/.json/.toml)")
	modelPath := flag.String("model-path", envOr("ADAPTD_MODEL_PATH", ""), "Path to a *.gguf base model (empty = deterministic stub)")
	logLevel := flag.String("log-level", envOr("ADAPTD_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	journalDir := flag.String("journal-dir", envOr("ADAPTD_JOURNAL_DIR", ""), "Directory for the adaptation record journal (empty = disabled)")
	flag.Parse()

	var cfg config.Config
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			lg := zerolog.New(os.Stderr)
			lg.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
		}
	}
	// Flags win over config file values.
	if cfg.Addr == "" || *addr != ":8080" {
		cfg.Addr = *addr
	}
	if *modelPath != "" {
		cfg.ModelPath = *modelPath
	}
	if *logLevel != "info" || cfg.LogLevel == "" {
		cfg.LogLevel = *logLevel
	}
	if *journalDir != "" {
		cfg.JournalDir = *journalDir
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()

	var base model.BaseModel
	if cfg.ModelPath != "" {
		base, err = model.NewLlama(cfg.ModelPath, cfg.LlamaCtx, cfg.LlamaThreads)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.ModelPath).Msg("failed to load base model")
		}
	} else {
		log.Warn().Msg("no model path given, using deterministic stub model")
		base = model.NewDeterministic(model.DefaultEmbeddingDim)
	}
	defer base.Close()

	sinks := metrics.MultiSink{metrics.PromSink{}, metrics.LogSink{Log: log}}
	if cfg.JournalDir != "" {
		journal, err := metrics.OpenJournal(cfg.JournalDir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.JournalDir).Msg("failed to open journal")
		}
		defer journal.Close()
		sinks = append(sinks, journal)
	}

	eng := engine.New(engineConfig(cfg.Adaptation), base, sinks, log)

	httpapi.SetLogger(log)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins,
		[]string{"GET", "POST", "OPTIONS"},
		[]string{"Accept", "Content-Type", "X-Log-Level"})
	mux := httpapi.NewMux(eng)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	// Cancel in-flight work on shutdown.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("model", base.Name()).Msg("adaptd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
}

// engineConfig maps the file-level adaptation section onto engine tunables,
// applying pattern overrides by kind on top of the default registry.
func engineConfig(a config.Adaptation) engine.Config {
	cfg := engine.Config{
		RankSet:              a.RankSet,
		MinSteps:             a.MinSteps,
		MaxSteps:             a.MaxSteps,
		LearningRate:         a.LearningRate,
		ConvergenceThreshold: a.ConvergenceThreshold,
		ConfidenceThreshold:  a.ConfidenceThreshold,
		MaxWallClock:         time.Duration(a.MaxWallClockMS) * time.Millisecond,
		MemoryLimitBytes:     a.MemoryLimitBytes,
	}
	if len(a.Patterns) > 0 {
		specs := pattern.DefaultSpecs()
		for i := range specs {
			for _, ov := range a.Patterns {
				if types.PatternKind(ov.Kind) != specs[i].Kind {
					continue
				}
				if ov.Weight > 0 {
					specs[i].Weight = ov.Weight
				}
				if ov.MinExamples > 0 {
					specs[i].MinExamples = ov.MinExamples
				}
				if ov.MaxExamples > 0 {
					specs[i].MaxExamples = ov.MaxExamples
				}
				if ov.MinStrength > 0 {
					specs[i].MinStrength = ov.MinStrength
				}
			}
		}
		cfg.Patterns = specs
	}
	return cfg
}
