package app

import (
	"io"
	"os"
	"sync"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/algorithms"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/engine"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/errqueue"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/objects"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/pkey"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/random"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/config"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/metrics"
)

// Locks is the provider's lock table. Each shared table is guarded by its own entry.
type Locks struct {
	Algorithms sync.RWMutex
	Objects    sync.RWMutex
	Random     sync.RWMutex
	Engines    sync.RWMutex
}

// Provider is the process-wide provider state assembled by the bootstrap steps
type Provider struct {
	Locks      *Locks
	Strings    *errqueue.Strings
	Hex        provider.HexCodec
	Algorithms *algorithms.Table
	Objects    *objects.Registry
	Random     *random.Generator
	Engines    *engine.Registry
	Keys       *pkey.Processor
	Metrics    *metrics.Metrics
	Settings   config.ProviderSettings

	// Diagnostics receives verbose error queue dumps
	Diagnostics io.Writer
}

// NewQueue creates an error queue for a new host thread
func (p *Provider) NewQueue() *errqueue.Queue {
	return errqueue.New(p.Strings, p.Metrics)
}

// DiagnosticsWriter returns the diagnostic stream, stderr unless configured
func (p *Provider) DiagnosticsWriter() io.Writer {
	if p.Diagnostics == nil {
		return os.Stderr
	}
	return p.Diagnostics
}

// DrainError pops one record from q; with verbose set the remaining records go to the diagnostic stream.
// The queue is empty afterwards.
func (p *Provider) DrainError(q provider.ErrorQueue, verbose bool) (provider.ErrorRecord, bool) {
	return q.Drain(verbose, p.DiagnosticsWriter())
}
