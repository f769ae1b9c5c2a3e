package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/genietutor/genie-relay/internal/config"
	"github.com/genietutor/genie-relay/internal/logger"
	"github.com/genietutor/genie-relay/internal/observability"
	"github.com/genietutor/genie-relay/pkg/gateway"
	"github.com/genietutor/genie-relay/pkg/llm"
	"github.com/genietutor/genie-relay/pkg/pipeline"
	"github.com/genietutor/genie-relay/pkg/session"
	"github.com/genietutor/genie-relay/pkg/speech"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the relay gateway",
	Long: `Run the relay gateway in the foreground.
The gateway accepts WebSocket connections and serves voice tutoring turns
until interrupted.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	appLogger, err := logger.New(logger.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: cfg.Logging.Console,
		Pretty:  cfg.Logging.Pretty,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Close()

	zlog := appLogger.GetZerolog()
	zlog.Info().Str("version", version).Msg("Starting Genie Relay")

	ctx := context.Background()
	observability.EnsureRegistered()

	// Session store: Redis when configured, in-process memory otherwise.
	var sessions session.Store
	if cfg.Redis.Enabled {
		redisStore, err := session.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisStore.Close()
		sessions = redisStore
		zlog.Info().Str("addr", cfg.Redis.Addr).Msg("Using redis session store")
	} else {
		sessions = session.NewMemoryStore()
	}

	// Capabilities degrade independently: a missing credential disables a
	// stage, not the relay.
	var generator llm.Provider
	if cfg.LLM.APIKey != "" {
		generator, err = llm.NewProvider(ctx, llm.Config{
			Provider: cfg.LLM.Provider,
			APIKey:   cfg.LLM.APIKey,
			Model:    cfg.LLM.Model,
		})
		if err != nil {
			return fmt.Errorf("failed to create llm provider: %w", err)
		}
		zlog.Info().Str("provider", generator.Name()).Msg("Language model provider ready")
	} else {
		zlog.Warn().Msg("No LLM API key configured, generation is disabled")
	}

	var transcriber pipeline.Transcriber
	var synthesizer pipeline.Synthesizer
	if cfg.GoogleCredential != "" {
		stt, err := speech.NewGoogleTranscriber(ctx, cfg.GoogleCredential)
		if err != nil {
			return fmt.Errorf("failed to create transcriber: %w", err)
		}
		defer stt.Close()
		transcriber = stt

		tts, err := speech.NewGoogleSynthesizer(ctx, cfg.GoogleCredential)
		if err != nil {
			return fmt.Errorf("failed to create synthesizer: %w", err)
		}
		defer tts.Close()
		synthesizer = tts
	} else {
		zlog.Warn().Msg("No Google credential configured, speech recognition and synthesis are disabled")
	}

	pipe, err := pipeline.New(pipeline.Config{
		Sessions:    sessions,
		Generator:   generator,
		Synthesizer: synthesizer,
		Logger:      zlog,
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	server, err := gateway.NewServer(gateway.Config{
		Host:        cfg.Gateway.Host,
		Port:        cfg.Gateway.Port,
		Pipeline:    pipe,
		Transcriber: transcriber,
		Sessions:    sessions,
		Logger:      zlog,
	})
	if err != nil {
		return fmt.Errorf("failed to create gateway: %w", err)
	}

	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start gateway: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	zlog.Info().Str("signal", sig.String()).Msg("Shutdown signal received")

	if err := server.Stop(); err != nil {
		return fmt.Errorf("failed to stop gateway: %w", err)
	}

	zlog.Info().Msg("Genie Relay stopped")
	return nil
}
