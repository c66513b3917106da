package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-tracker/internal/config"
	"github.com/rxtech-lab/argo-tracker/internal/dashboard"
	"github.com/rxtech-lab/argo-tracker/internal/logger"
	"github.com/rxtech-lab/argo-tracker/internal/report"
	"github.com/rxtech-lab/argo-tracker/internal/simulation/engine"
	enginev1 "github.com/rxtech-lab/argo-tracker/internal/simulation/engine/engine_v1"
	"github.com/rxtech-lab/argo-tracker/internal/status"
	"github.com/rxtech-lab/argo-tracker/internal/types"
	"github.com/rxtech-lab/argo-tracker/pkg/marketdata/provider"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	defaultDashboardLog = "tracker.log"
	inputBuffer         = 16
)

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	cfg, err = applyFlags(cfg, cmd)
	if err != nil {
		return err
	}

	interactive := !cfg.Display.Headless

	logFile := cfg.Log.File
	if interactive && logFile == "" {
		logFile = defaultDashboardLog
	}

	log, err := logger.NewLoggerWithOptions(logger.Options{Level: cfg.Log.Level, File: logFile})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	feed, err := provider.New(cfg, log)
	if err != nil {
		return err
	}

	inputs := make(chan types.InputEvent, inputBuffer)

	tracker, err := enginev1.NewEngine(cfg, feed, inputs, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	callbacks := baseCallbacks(log)

	if cfg.Status.Enabled {
		srv := status.NewServer(cfg.Status.Addr, log)
		if err := srv.Start(); err != nil {
			return err
		}

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			_ = srv.Shutdown(shutdownCtx)
		}()

		callbacks = srv.Callbacks(callbacks)
	}

	out := cmd.Root().Writer

	if interactive {
		err = runDashboard(ctx, cfg, tracker, inputs, callbacks)
	} else {
		err = runHeadless(ctx, cfg, tracker, callbacks, out)
	}

	if werr := report.WriteSummary(out, tracker.Result()); werr != nil {
		log.Warn("Failed to write summary", zap.Error(werr))
	}

	return err
}

// applyFlags returns cfg with command line overrides, validated again.
func applyFlags(cfg config.Config, cmd *cli.Command) (config.Config, error) {
	if cmd.IsSet("headless") {
		cfg.Display.Headless = cmd.Bool("headless")
	}

	if cmd.IsSet("max-ticks") {
		cfg.Simulation.MaxTicks = int(cmd.Int("max-ticks"))
	}

	if cmd.IsSet("output") {
		cfg.Output.Path = cmd.String("output")
	}

	if cmd.IsSet("status-addr") {
		cfg.Status.Enabled = true
		cfg.Status.Addr = cmd.String("status-addr")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err //nolint:exhaustruct // zero config on error
	}

	return cfg, nil
}

func baseCallbacks(log *logger.Logger) engine.Callbacks {
	onStart := engine.OnEngineStartCallback(func(symbols []string, runID string, runPath string) error {
		log.Info("Tracker started",
			zap.Strings("symbols", symbols),
			zap.String("run_id", runID),
			zap.String("run_path", runPath),
		)

		return nil
	})
	onStop := engine.OnEngineStopCallback(func(err error, result engine.Result) {
		if err != nil {
			log.Error("Tracker stopped with error", zap.Error(err))

			return
		}

		log.Info("Tracker stopped",
			zap.String("reason", string(result.StopReason)),
			zap.Int("ticks", result.Ticks),
			zap.Float64("final_value", result.Metrics.FinalValue),
		)
	})

	return engine.Callbacks{ //nolint:exhaustruct // the rest are wired by the front end
		OnEngineStart: &onStart,
		OnEngineStop:  &onStop,
	}
}

// runDashboard drives the engine in the background while the dashboard
// owns the terminal. The dashboard exits once the engine reports a stop.
func runDashboard(ctx context.Context, cfg config.Config, tracker engine.Engine, inputs chan<- types.InputEvent, callbacks engine.Callbacks) error {
	program := tea.NewProgram(dashboard.NewModel(cfg, inputs, nil), tea.WithAltScreen(), tea.WithContext(ctx))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)

	go func() {
		done <- tracker.Run(runCtx, dashboard.Callbacks(program.Send, callbacks))
	}()

	if _, err := program.Run(); err != nil {
		// the terminal is gone; stop the run and report what happened
		cancel()
	}

	return <-done
}

func runHeadless(ctx context.Context, cfg config.Config, tracker engine.Engine, callbacks engine.Callbacks, out io.Writer) error {
	total := int64(cfg.Simulation.MaxTicks)
	if total == 0 {
		// unbounded runs show a spinner
		total = -1
	}

	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("simulating"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	next := callbacks.OnTick
	onTick := engine.OnTickCallback(func(tick int, prices map[string]float64) error {
		_ = bar.Add(1)

		if next != nil {
			return (*next)(tick, prices)
		}

		return nil
	})
	callbacks.OnTick = &onTick

	err := tracker.Run(ctx, callbacks)

	_ = bar.Finish()
	fmt.Fprintln(out)

	return err
}
