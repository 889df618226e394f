package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	v1 "github.com/MGTheTrain/crypto-binding/internal/api/script/v1"
	"github.com/MGTheTrain/crypto-binding/internal/app"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/errqueue"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/config"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/logger"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/metrics"

	"github.com/spf13/cobra"
	"go.starlark.net/starlarkstruct"
)

func setupLogger(settings *config.LoggerSettings) (logger.Logger, error) {
	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

// Session opens the provider on first use and is shared by every command of a process
type Session struct {
	once sync.Once
	err  error

	logger   logger.Logger
	metrics  *metrics.Metrics
	module   *starlarkstruct.Module
	provider *app.Provider
	server   *http.Server
	queue    *errqueue.Queue
}

// NewSession creates an unopened session
func NewSession() *Session {
	return &Session{}
}

// Open loads the configuration named by CONFIG_PATH, sets up logging and metrics, and initializes the provider.
// A --metrics-addr flag enables metrics regardless of the configuration.
func (s *Session) Open(cmd *cobra.Command) error {
	s.once.Do(func() {
		s.err = s.open(cmd)
	})
	return s.err
}

func (s *Session) open(cmd *cobra.Command) error {
	cfg, err := config.InitializeConfigFromEnv()
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("metrics-addr")
	if addr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = addr
	}

	s.logger, err = setupLogger(&cfg.Logger)
	if err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		s.metrics, err = metrics.New(cfg.Metrics.Namespace)
		if err != nil {
			return fmt.Errorf("failed to create metrics: %w", err)
		}
		if cfg.Metrics.Addr != "" {
			s.serveMetrics(cfg.Metrics.Addr)
		}
	}

	app.Configure(cfg.Provider, app.WithMetrics(s.metrics), app.WithDiagnostics(cmd.ErrOrStderr()))
	s.module, s.provider, err = v1.Open(cmd.Context(), app.Default(), s.logger)
	if err != nil {
		return err
	}
	s.queue = s.provider.NewQueue()
	return nil
}

func (s *Session) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())

	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server failed: ", err)
		}
	}()
	s.logger.Info("serving metrics on ", addr)
}

// Close stops the metrics server, if any
func (s *Session) Close() {
	if s.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn("failed to stop metrics server: ", err)
	}
}

// Context carries the session's error queue to provider calls
func (s *Session) Context(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return errqueue.NewContext(ctx, s.queue)
}

// reportErrors logs err together with every record the provider queued for it
func (s *Session) reportErrors(err error) {
	s.logger.Error(err)
	for {
		rec, ok := s.queue.Pop()
		if !ok {
			return
		}
		if rec.Data != "" {
			s.logger.Error(rec.Message, ":", rec.Data)
		} else {
			s.logger.Error(rec.Message)
		}
	}
}

// openOrLog opens the session for a Run handler. Run handlers log failures like the rest of the CLI.
func (s *Session) openOrLog(cmd *cobra.Command) bool {
	if err := s.Open(cmd); err != nil {
		logger.GetOrDefault().Error("failed to open provider: ", err)
		return false
	}
	return true
}

// logErr logs through the session logger, or to stderr before the session is open
func logErr(s *Session, args ...interface{}) {
	if s.logger != nil {
		s.logger.Error(args...)
		return
	}
	fmt.Fprintln(os.Stderr, args...)
}
