package app

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/algorithms"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/engine"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/errqueue"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/hexcodec"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/objects"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/pkey"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/random"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/config"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/logger"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/metrics"
)

// Bootstrap step names, in run order
const (
	StepLocks       = "locks"
	StepAlgorithms  = "algorithms"
	StepTLS         = "tls"
	StepErrorStrs   = "error-strings"
	StepEngines     = "engines"
	StepPlatformRNG = "platform-entropy"
)

type step struct {
	name string
	run  func(ctx context.Context, p *Provider) error
}

// Orchestrator performs provider initialization exactly once, however many callers race for it
type Orchestrator struct {
	state    atomic.Int32
	done     chan struct{}
	provider *Provider

	settings  config.ProviderSettings
	logger    logger.Logger
	metrics   *metrics.Metrics
	entropy   io.Reader
	factories map[string]engine.Factory
	observer  func(step string)
	diag      io.Writer
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithMetrics attaches provider counters
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithEntropySource replaces the operating system entropy source
func WithEntropySource(r io.Reader) Option {
	return func(o *Orchestrator) { o.entropy = r }
}

// WithEngineFactory makes an engine id loadable by the dynamic loader
func WithEngineFactory(id string, f engine.Factory) Option {
	return func(o *Orchestrator) { o.factories[id] = f }
}

// WithObserver is called with each step name as the step starts
func WithObserver(fn func(step string)) Option {
	return func(o *Orchestrator) { o.observer = fn }
}

// WithDiagnostics sets the stream verbose error dumps are written to
func WithDiagnostics(w io.Writer) Option {
	return func(o *Orchestrator) { o.diag = w }
}

// NewOrchestrator creates an orchestrator in the uninitialized state
func NewOrchestrator(settings config.ProviderSettings, log logger.Logger, opts ...Option) *Orchestrator {
	if log == nil {
		log = logger.GetOrDefault()
	}
	o := &Orchestrator{
		done:      make(chan struct{}),
		settings:  settings,
		logger:    log,
		factories: make(map[string]engine.Factory),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the current initialization state
func (o *Orchestrator) State() provider.InitState {
	return provider.InitState(o.state.Load())
}

// Init initializes the provider on the first call. Concurrent callers wait for the winner; ctx only bounds
// the wait. Step failures are logged and reported on the queue carried by ctx but never abort the run.
func (o *Orchestrator) Init(ctx context.Context) (*Provider, error) {
	if o.state.CompareAndSwap(int32(provider.StateUninitialized), int32(provider.StateInitializing)) {
		o.run(ctx)
		return o.provider, nil
	}

	select {
	case <-o.done:
		return o.provider, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for provider initialization: %w", ctx.Err())
	}
}

// Provider returns the initialized provider, or ErrNotInitialized
func (o *Orchestrator) Provider() (*Provider, error) {
	if o.State() != provider.StateReady {
		return nil, provider.ErrNotInitialized
	}
	return o.provider, nil
}

func (o *Orchestrator) run(ctx context.Context) {
	defer close(o.done)

	p := &Provider{
		Strings:     errqueue.NewStrings(),
		Metrics:     o.metrics,
		Settings:    o.settings,
		Diagnostics: o.diag,
	}

	// without a caller queue, failures land on a bootstrap queue dumped to the diagnostic stream
	own := errqueue.FromContext(ctx) == nil
	if own {
		ctx = errqueue.NewContext(ctx, p.NewQueue())
	}
	defer func() {
		if own {
			if err := errqueue.FromContext(ctx).Print(p.DiagnosticsWriter()); err != nil {
				o.logger.Warn(fmt.Sprintf("failed to write bootstrap errors: %v", err))
			}
		}
	}()

	for _, s := range o.steps() {
		if o.observer != nil {
			o.observer(s.name)
		}
		if err := o.runStep(ctx, s, p); err != nil {
			o.logger.Warn(fmt.Sprintf("provider init step %s failed: %v", s.name, err))
			errqueue.Report(ctx, errqueue.LibCrypto, errqueue.ReasonCryptoInitFailed, s.name)
		}
	}

	o.provider = p
	o.metrics.BootstrapRun()
	o.state.Store(int32(provider.StateReady))
	o.logger.Info("provider initialized")

	if o.settings.SeedOnInit && p.Random != nil {
		if _, err := p.Random.LoadFile(ctx, o.settings.RandFile); err != nil {
			o.logger.Warn(fmt.Sprintf("failed to load seed file: %v", err))
		}
	}
}

func (o *Orchestrator) runStep(ctx context.Context, s step, p *Provider) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.run(ctx, p)
}

func (o *Orchestrator) steps() []step {
	return []step{
		{StepLocks, o.installLocks},
		{StepAlgorithms, o.loadAlgorithms},
		{StepTLS, o.loadTLS},
		{StepErrorStrs, o.loadErrorStrings},
		{StepEngines, o.loadEngines},
		{StepPlatformRNG, o.seedPlatform},
	}
}

// installLocks sets up the lock table and the shared state every later step relies on
func (o *Orchestrator) installLocks(_ context.Context, p *Provider) error {
	p.Locks = &Locks{}
	p.Hex = hexcodec.New()
	p.Random = random.New(&p.Locks.Random, o.entropy, o.logger, o.metrics)
	return nil
}

func (o *Orchestrator) loadAlgorithms(_ context.Context, p *Provider) error {
	p.Algorithms = algorithms.NewTable(&p.Locks.Algorithms)
	p.Objects = objects.New(&p.Locks.Objects, o.logger, o.metrics)
	p.Keys = pkey.NewProcessor(p.Random, o.logger)

	n := p.Objects.LoadBuiltin()
	o.logger.Debug(fmt.Sprintf("loaded %d built-in objects", n))

	if err := algorithms.RegisterAll(p.Algorithms); err != nil {
		return fmt.Errorf("failed to register algorithms: %w", err)
	}
	return nil
}

func (o *Orchestrator) loadTLS(_ context.Context, p *Provider) error {
	if p.Algorithms == nil {
		return fmt.Errorf("algorithm tables missing")
	}
	n := algorithms.LoadTLSSuites(p.Algorithms)
	o.logger.Debug(fmt.Sprintf("loaded %d TLS cipher suites", n))
	return nil
}

func (o *Orchestrator) loadErrorStrings(_ context.Context, p *Provider) error {
	p.Strings.Load()
	return nil
}

func (o *Orchestrator) loadEngines(ctx context.Context, p *Provider) error {
	p.Engines = engine.New(&p.Locks.Engines, o.logger)
	for id, f := range o.factories {
		p.Engines.RegisterFactory(id, f)
	}
	p.Engines.LoadDynamic()
	p.Engines.LoadBuiltin()

	var failed []string
	for _, e := range o.settings.DynamicEngines {
		if _, err := p.Engines.LoadByID(ctx, e.ID, e.Path); err != nil {
			o.logger.Warn(fmt.Sprintf("failed to load engine %s: %v", e.ID, err))
			failed = append(failed, e.ID)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("engines not loaded: %v", failed)
	}
	return nil
}

func (o *Orchestrator) seedPlatform(ctx context.Context, p *Provider) error {
	if p.Engines == nil {
		return nil
	}
	for _, e := range p.Engines.NeedingPlatformSeed() {
		if err := p.Random.Poll(ctx); err != nil {
			return fmt.Errorf("platform entropy for engine %s: %w", e.ID, err)
		}
		o.logger.Debug(fmt.Sprintf("collected platform entropy for engine %s", e.ID))
	}
	return nil
}
