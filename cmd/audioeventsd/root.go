package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"audioevents/internal/common/fsutil"
	"audioevents/internal/config"
	"audioevents/internal/daemon"
	"audioevents/internal/httpapi"
)

// defaultConfigPaths are tried in order when --config is not given.
var defaultConfigPaths = []string{
	"./audioevents.yaml",
	"./audioevents.toml",
	"~/.config/audioevents/config.yaml",
}

// flags holds command-line values; zero values mean "not given".
type flags struct {
	configPath  string
	addr        string
	logLevel    string
	logFormat   string
	corsOrigins string
	producers   int
	underruns   int
	intervalMs  int
	maxPending  int
	passthrough bool
	seed        int64
}

func buildRootCmd(out io.Writer) *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "audioeventsd",
		Short:         "Deliver simulated audio renderer events on a control loop",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", os.Getenv("AUDIOEVENTS_CONFIG"), "Config file (.yaml, .json, .toml)")
	pf.StringVar(&f.logLevel, "log-level", os.Getenv("AUDIOEVENTS_LOG_LEVEL"), "Log level: debug|info|warn|error")
	pf.StringVar(&f.logFormat, "log-format", "console", "Log format: console|json")
	pf.IntVar(&f.producers, "producers", 0, "Number of simulated renderers")
	pf.IntVar(&f.underruns, "underruns", 0, "Underruns emitted per renderer")
	pf.IntVar(&f.intervalMs, "interval-ms", 0, "Milliseconds between underruns")
	pf.IntVar(&f.maxPending, "max-pending", 0, "Cap on queued deliveries (0 = unbounded)")
	pf.BoolVar(&f.passthrough, "passthrough", false, "Simulate passthrough output (unknown buffer duration)")
	pf.Int64Var(&f.seed, "seed", 0, "Random seed for the simulation")

	serveCmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run renderers and serve diagnostics over HTTP until interrupted",
		Example: "  audioeventsd serve --addr :9464 --producers 4",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := resolve(f, out)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, log)
		},
	}
	serveCmd.Flags().StringVar(&f.addr, "addr", os.Getenv("AUDIOEVENTS_ADDR"), "HTTP listen address, e.g. :9464")
	serveCmd.Flags().StringVar(&f.corsOrigins, "cors-origins", "", "Comma-separated CORS origins (enables CORS)")

	simulateCmd := &cobra.Command{
		Use:     "simulate",
		Short:   "Run renderers once, wait for delivery and print a JSON summary",
		Example: "  audioeventsd simulate --producers 2 --underruns 5 --interval-ms 10",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := resolve(f, out)
			if err != nil {
				return err
			}
			return runSimulate(cmd.Context(), cfg, log, out)
		},
	}

	root.AddCommand(serveCmd, simulateCmd)
	return root
}

// resolve merges the config file (explicit or discovered) with flags and
// builds the logger.
func resolve(f *flags, out io.Writer) (config.Config, zerolog.Logger, error) {
	var cfg config.Config
	path := f.configPath
	if path == "" {
		path = fsutil.FirstExisting(defaultConfigPaths...)
	}
	if path != "" {
		fileCfg, err := config.Load(path)
		if err != nil {
			return cfg, zerolog.Nop(), fmt.Errorf("load config: %w", err)
		}
		cfg = fileCfg
	}
	cfg.Merge(config.Config{
		Addr:                 f.addr,
		LogLevel:             f.logLevel,
		MaxPending:           f.maxPending,
		Producers:            f.producers,
		UnderrunsPerProducer: f.underruns,
		UnderrunIntervalMs:   f.intervalMs,
		Passthrough:          f.passthrough,
		Seed:                 f.seed,
		CORSOrigins:          splitCSV(f.corsOrigins),
	})
	cfg.ApplyDefaults()
	log, err := newLogger(cfg.LogLevel, f.logFormat, os.Stderr)
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	if path != "" {
		log.Debug().Str("path", path).Msg("config loaded")
	}
	return cfg, log, nil
}

func newLogger(level, format string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	switch format {
	case "console", "":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", format)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func runSimulate(ctx context.Context, cfg config.Config, log zerolog.Logger, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := daemon.New(cfg, log)
	if err != nil {
		return err
	}
	if err := d.Start(); err != nil {
		return err
	}
	sum, simErr := d.Simulate(ctx)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("drain: %w", err)
	}
	if simErr != nil {
		return simErr
	}
	st := d.Stats()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"summary":   sum,
		"delivered": st.Looper.Executed,
		"dropped":   st.Looper.Dropped,
	})
}

// runServe binds cfg.Addr, then serves until ctx ends or a signal arrives.
// A bind failure is returned before anything starts.
func runServe(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	d, err := daemon.New(cfg, log)
	if err != nil {
		_ = ln.Close()
		return err
	}
	return serve(ctx, d, ln, log)
}

// serve starts d, runs its simulation and serves the diagnostics API on ln.
// On exit it stops the producers, drains the control loop, then shuts HTTP
// down. A server failure is returned after that sequence completes.
func serve(ctx context.Context, d *daemon.Daemon, ln net.Listener, log zerolog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := d.Start(); err != nil {
		_ = ln.Close()
		return err
	}

	cfg := d.Config()
	httpapi.SetLogger(log.With().Str("component", "http").Logger())
	httpapi.SetDefaultLogLevel(cfg.LogLevel)
	if len(cfg.CORSOrigins) > 0 {
		httpapi.SetCORSOptions(true, cfg.CORSOrigins, nil, nil)
	}
	srv := &http.Server{
		Handler:           httpapi.NewMux(d),
		ReadHeaderTimeout: 5 * time.Second,
	}
	srvErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("audioeventsd listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	simDone := make(chan struct{})
	go func() {
		defer close(simDone)
		_, _ = d.Simulate(ctx)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case err := <-srvErr:
		if err != nil {
			serveErr = fmt.Errorf("serve: %w", err)
			log.Error().Err(err).Msg("server error")
		}
		stop()
	}
	<-simDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("control loop shutdown")
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	return serveErr
}

// splitCSV splits a comma-separated list, trimming blanks and empty items.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
