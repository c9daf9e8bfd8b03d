// Command bridgesim runs a scripted session against the in-memory engine,
// journaling every event and state change to the configured storage.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/handlebridge/bridge/internal/config"
	"github.com/handlebridge/bridge/internal/logging"
	intOtel "github.com/handlebridge/bridge/internal/otel"
	"github.com/handlebridge/bridge/internal/sim"
	"github.com/handlebridge/bridge/internal/storage"
	"github.com/handlebridge/bridge/pkg/bridge"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	Version   = "0.0.1"
	BuildDate = "unknown"

	ExtensionName = "bridgesim"
)

func main() {
	configDir := "."
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}
	if err := run(configDir, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configDir string, out io.Writer) error {
	sessionStart := time.Now()

	if err := config.Load(configDir); err != nil {
		// defaults are already registered
		fmt.Fprintf(out, "using default configuration: %v\n", err)
	}
	level := viper.GetString("logLevel")

	logFile, logPath, err := logging.OpenLogFile(viper.GetString("logsDir"), ExtensionName, sessionStart)
	if err != nil {
		return err
	}
	defer logFile.Close()

	provider, err := intOtel.New(intOtel.FromSettings(config.GetOTelConfig(), logFile))
	if err != nil {
		return fmt.Errorf("failed to create OTel provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}()

	var setupOpts []logging.SetupOption
	var gelfErr error
	if gl := config.GetGraylogConfig(); gl.Enabled {
		h, err := logging.DialGELF(gl.Address, level)
		if err != nil {
			gelfErr = err
		} else {
			setupOpts = append(setupOpts, logging.WithHandler(h))
		}
	}

	clock := &simState{}
	setupOpts = append(setupOpts, logging.WithContext(clock.attrs))

	slogManager := logging.NewSlogManager()
	slogManager.Setup(logFile, level, provider.LoggerProvider(), setupOpts...)
	logger := slogManager.Logger()
	defer slogManager.Flush(context.Background())

	logger.Info("Starting up", "version", Version, "buildDate", BuildDate, "log", logPath)
	if gelfErr != nil {
		logger.Warn("Graylog sink disabled", "error", gelfErr)
	}

	zlog := newZerolog(logFile, level)

	storageCfg := config.GetStorageConfig()
	backend, err := storage.NewBackend(storageCfg, zlog)
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}

	opts := []bridge.Option{
		bridge.WithLogger(logger),
		bridge.WithDispatchLogger(zlog),
		bridge.WithStreamingTimeout(config.StreamingTimeout()),
	}
	var journal *storage.Journal
	if backend != nil {
		if err := backend.Init(); err != nil {
			return fmt.Errorf("failed to initialize storage backend: %w", err)
		}
		defer func() {
			if err := backend.Close(); err != nil {
				logger.Error("Failed to close storage backend", "error", err)
			}
		}()
		journal = storage.NewJournal(backend, logger)
		opts = append(opts, bridge.WithJournal(journal))
		logger.Info("Journal storage initialized", "type", storageCfg.Type)
	}

	simCfg := config.GetSimConfig()
	tickRate := simCfg.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}
	eng := sim.New(sim.WithTickDuration(time.Second / time.Duration(tickRate)))
	clock.engine = eng

	rt, err := bridge.New(eng, opts...)
	if err != nil {
		return fmt.Errorf("failed to create runtime: %w", err)
	}

	sc := newScenario(rt, eng)
	sc.Start(context.Background())
	ticks := 0
	for ; ticks < simCfg.Ticks && !sc.Done(); ticks++ {
		eng.Step()
	}

	res := sc.Result()
	logger.Info("Session finished", "ticks", ticks, "done", sc.Done(), "gameTime", eng.GameTimer())
	fmt.Fprintf(out, "ticks=%d done=%t events=%d changes=%d animLoaded=%t scene=%t pickup=%t deleted=%t\n",
		ticks, sc.Done(), res.Events, res.Changes, res.AnimLoaded, res.SceneRan, res.Collected, res.Deleted)
	if journal != nil && journal.Failures() > 0 {
		fmt.Fprintf(out, "journal failures=%d\n", journal.Failures())
	}
	if !sc.Done() {
		return fmt.Errorf("scenario did not finish within %d ticks", simCfg.Ticks)
	}
	return nil
}

func newZerolog(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("component", "bridge").Logger()
}

// simState feeds the engine clock into every log record.
type simState struct {
	engine *sim.Engine
}

func (s *simState) attrs() []slog.Attr {
	if s.engine == nil {
		return nil
	}
	return []slog.Attr{
		slog.Int("tick", s.engine.Steps()),
		slog.Duration("gameTime", s.engine.GameTimer()),
	}
}
