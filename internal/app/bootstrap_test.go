//go:build unit
// +build unit

package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/engine"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/errqueue"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/config"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/metrics"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/testutil"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

func TestOrchestrator_InitRunsStepsInOrder(t *testing.T) {
	var seen []string
	o := NewOrchestrator(config.ProviderSettings{}, testutil.SetupTestLogger(t),
		WithObserver(func(step string) { seen = append(seen, step) }))
	assert.Equal(t, provider.StateUninitialized, o.State())

	_, err := o.Provider()
	assert.ErrorIs(t, err, provider.ErrNotInitialized)

	p, err := o.Init(context.Background())
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, []string{StepLocks, StepAlgorithms, StepTLS, StepErrorStrs, StepEngines, StepPlatformRNG}, seen)
	assert.Equal(t, provider.StateReady, o.State())

	assert.True(t, p.Strings.Loaded())
	assert.NotEmpty(t, p.Algorithms.TLSSuites())
	assert.Equal(t, []string{engine.IDDynamic, engine.IDBuiltin}, p.Engines.List())
	_, ok := p.Objects.LookupByID(6)
	assert.True(t, ok)
	names, err := p.Algorithms.List(provider.CategoryDigests)
	require.NoError(t, err)
	assert.Contains(t, names, "sha256")

	again, err := o.Provider()
	require.NoError(t, err)
	assert.Same(t, p, again)
}

func TestOrchestrator_ConcurrentInitRunsOnce(t *testing.T) {
	m, err := metrics.New("bootstrap_test")
	require.NoError(t, err)

	var mu sync.Mutex
	counts := map[string]int{}
	release := make(chan struct{})
	o := NewOrchestrator(config.ProviderSettings{}, testutil.SetupTestLogger(t),
		WithMetrics(m),
		WithObserver(func(step string) {
			if step == StepLocks {
				<-release
			}
			mu.Lock()
			counts[step]++
			mu.Unlock()
		}))

	const callers = 32
	providers := make([]*Provider, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := o.Init(context.Background())
			assert.NoError(t, err)
			providers[i] = p
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, name := range []string{StepLocks, StepAlgorithms, StepTLS, StepErrorStrs, StepEngines, StepPlatformRNG} {
		assert.Equal(t, 1, counts[name], name)
	}
	for _, p := range providers {
		assert.Same(t, providers[0], p)
	}
	expected := `
# HELP bootstrap_test_bootstrap_runs_total Total number of provider initializations performed
# TYPE bootstrap_test_bootstrap_runs_total counter
bootstrap_test_bootstrap_runs_total 1
`
	assert.NoError(t, promtestutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "bootstrap_test_bootstrap_runs_total"))
}

func TestOrchestrator_WaitHonoursContext(t *testing.T) {
	release := make(chan struct{})
	o := NewOrchestrator(config.ProviderSettings{}, testutil.SetupTestLogger(t),
		WithObserver(func(step string) {
			if step == StepLocks {
				<-release
			}
		}))

	go func() { _, _ = o.Init(context.Background()) }()
	require.Eventually(t, func() bool { return o.State() == provider.StateInitializing }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := o.Init(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	p, err := o.Init(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestOrchestrator_StepFailuresAreNotFatal(t *testing.T) {
	strs := errqueue.NewStrings()
	q := errqueue.New(strs, nil)
	ctx := errqueue.NewContext(context.Background(), q)

	settings := config.ProviderSettings{
		DynamicEngines: []config.DynamicEngineSettings{{ID: "missing"}, {ID: "seeded"}},
	}
	o := NewOrchestrator(settings, testutil.SetupTestLogger(t),
		WithEntropySource(failingReader{}),
		WithEngineFactory("seeded", func(context.Context, string) (*engine.Engine, error) {
			return &engine.Engine{Name: "needs seeding", PlatformSeed: true}, nil
		}),
	)

	p, err := o.Init(ctx)
	require.NoError(t, err)
	assert.Equal(t, provider.StateReady, o.State())

	_, ok := p.Engines.Lookup("seeded")
	assert.True(t, ok)
	_, ok = p.Engines.Lookup("missing")
	assert.False(t, ok)

	var reasons []int
	for q.Len() > 0 {
		rec, _ := q.Pop()
		if rec.Library == errqueue.LibCrypto {
			reasons = append(reasons, rec.Reason)
		}
	}
	// engine step and platform entropy step both failed
	assert.Len(t, reasons, 2)
}

func TestOrchestrator_StepFailuresWithoutQueueGoToDiagnostics(t *testing.T) {
	var diag bytes.Buffer
	settings := config.ProviderSettings{
		DynamicEngines: []config.DynamicEngineSettings{{ID: "missing"}},
	}
	o := NewOrchestrator(settings, testutil.SetupTestLogger(t), WithDiagnostics(&diag))

	_, err := o.Init(context.Background())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(diag.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], ":missing"))
	assert.Contains(t, lines[1], "common libcrypto routines::init fail")
	assert.True(t, strings.HasSuffix(lines[1], ":"+StepEngines))
}

func TestOrchestrator_SeedOnInit(t *testing.T) {
	path := testutil.CreateSeedFile(t, 2048)
	o := NewOrchestrator(config.ProviderSettings{SeedOnInit: true, RandFile: path}, testutil.SetupTestLogger(t))

	p, err := o.Init(context.Background())
	require.NoError(t, err)
	assert.True(t, p.Random.Status())
}

func TestProvider_DrainErrorVerbose(t *testing.T) {
	var diag bytes.Buffer
	o := NewOrchestrator(config.ProviderSettings{}, testutil.SetupTestLogger(t), WithDiagnostics(&diag))
	p, err := o.Init(context.Background())
	require.NoError(t, err)

	q := p.NewQueue()
	q.Record(errqueue.LibRand, errqueue.ReasonRandNotSeeded, "")
	q.Record(errqueue.LibOBJ, errqueue.ReasonOBJOIDExists, "2.5.4.3")

	rec, ok := p.DrainError(q, true)
	require.True(t, ok)
	assert.Equal(t, errqueue.LibRand, rec.Library)
	assert.Contains(t, rec.Message, "PRNG not seeded")
	assert.Contains(t, diag.String(), "oid exists:2.5.4.3")
	assert.Zero(t, q.Len())

	_, ok = p.DrainError(q, false)
	assert.False(t, ok)
}

func TestVersionAndMemoryReport(t *testing.T) {
	v := Version("1.0.0")
	assert.Equal(t, "1.0.0", v.Binding)
	assert.NotEmpty(t, v.Runtime)
	assert.Contains(t, v.Provider, "Go crypto")

	assert.Contains(t, MemoryReport(), "outstanding objects")
}

func TestDefaultIsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}
