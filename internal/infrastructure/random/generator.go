package random

import (
	"context"
	"crypto/rand"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"io"
	mrand "math/rand/v2"
	"sync"
	"time"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/errqueue"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/logger"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/metrics"

	"golang.org/x/crypto/chacha20"
)

const (
	// SeededThreshold is the credited entropy, in bytes, at which the pool reports itself seeded
	SeededThreshold = 32
	maxCredit       = sha512.Size
	pollBytes       = 48
	freshBytes      = 32
)

// Generator is the entropy pool and the generators drawing from it
type Generator struct {
	mu      *sync.RWMutex
	source  io.Reader
	state   [sha512.Size]byte
	credit  int
	counter uint64
	logger  logger.Logger
	metrics *metrics.Metrics
}

var _ provider.RandomGenerator = (*Generator)(nil)

// New creates an unseeded generator reading fresh entropy from source (crypto/rand when nil).
// A nil mu gets a private lock.
func New(mu *sync.RWMutex, source io.Reader, logger logger.Logger, m *metrics.Metrics) *Generator {
	if mu == nil {
		mu = &sync.RWMutex{}
	}
	if source == nil {
		source = rand.Reader
	}
	return &Generator{mu: mu, source: source, logger: logger, metrics: m}
}

// Add mixes buf into the pool and credits entropy bytes of randomness
func (g *Generator) Add(buf []byte, entropy int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mixLocked(buf, entropy)
}

func (g *Generator) mixLocked(buf []byte, entropy int) {
	h := sha512.New()
	_, _ = h.Write(g.state[:])
	_, _ = h.Write(buf)
	copy(g.state[:], h.Sum(nil))

	if entropy > 0 {
		g.credit = min(g.credit+entropy, maxCredit)
	}
}

// Poll seeds the pool from the entropy source
func (g *Generator) Poll(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pollLocked(ctx)
}

func (g *Generator) pollLocked(ctx context.Context) error {
	buf := make([]byte, pollBytes)
	if _, err := io.ReadFull(g.source, buf); err != nil {
		errqueue.Report(ctx, errqueue.LibRand, errqueue.ReasonRandEntropySource, err.Error())
		g.metrics.SeedOperation("poll", false)
		return fmt.Errorf("%w: %v", provider.ErrEntropyUnavailable, err)
	}
	g.mixLocked(buf, len(buf))
	wipe(buf)
	g.metrics.SeedOperation("poll", true)
	return nil
}

// Status reports whether the pool holds enough credited entropy
func (g *Generator) Status() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.credit >= SeededThreshold
}

// Bytes returns exactly n random bytes. Strong output fails rather than degrade when the entropy
// source is unavailable; pseudo output never fails and must not be used for key material.
func (g *Generator) Bytes(ctx context.Context, n int, mode provider.RandMode) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: length must be positive, got %d", provider.ErrInvalidArgument, n)
	}

	var (
		out []byte
		err error
	)
	if mode == provider.RandStrong {
		out, err = g.strong(ctx, n)
	} else {
		out = g.pseudo(n)
	}

	if err != nil {
		g.metrics.RandomFailure(mode.String())
		return nil, err
	}
	g.metrics.RandomBytes(mode.String(), n)
	return out, nil
}

func (g *Generator) strong(ctx context.Context, n int) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.credit < SeededThreshold {
		if err := g.pollLocked(ctx); err != nil {
			return nil, err
		}
	}

	fresh := make([]byte, freshBytes)
	if _, err := io.ReadFull(g.source, fresh); err != nil {
		errqueue.Report(ctx, errqueue.LibRand, errqueue.ReasonRandEntropySource, err.Error())
		return nil, fmt.Errorf("%w: %v", provider.ErrEntropyUnavailable, err)
	}
	g.mixLocked(fresh, 0)
	wipe(fresh)

	key := g.deriveLocked("strong")
	defer wipe(key)

	c, err := chacha20.NewUnauthenticatedCipher(key[:chacha20.KeySize], key[chacha20.KeySize:chacha20.KeySize+chacha20.NonceSize])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrProvider, err)
	}
	out := make([]byte, n)
	c.XORKeyStream(out, out)

	// ratchet so earlier output cannot be recomputed from a later state
	g.mixLocked([]byte("ratchet"), 0)
	return out, nil
}

func (g *Generator) pseudo(n int) []byte {
	g.mu.Lock()
	key := g.deriveLocked("pseudo")
	g.mu.Unlock()
	defer wipe(key)

	var stamp [8]byte
	binary.BigEndian.PutUint64(stamp[:], uint64(time.Now().UnixNano()))
	for i := range stamp {
		key[i] ^= stamp[i]
	}

	var seed [32]byte
	copy(seed[:], key)
	out := make([]byte, n)
	_, _ = mrand.NewChaCha8(seed).Read(out)
	return out
}

// deriveLocked returns a 64-byte block bound to the pool state, a label and a per-call counter
func (g *Generator) deriveLocked(label string) []byte {
	g.counter++
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], g.counter)

	h := sha512.New()
	_, _ = h.Write(g.state[:])
	_, _ = h.Write([]byte(label))
	_, _ = h.Write(ctr[:])
	return h.Sum(nil)
}

// Cleanup wipes the pool. Strong requests afterwards reseed from the entropy source.
// Do not call while other threads may still request randomness.
func (g *Generator) Cleanup() {
	g.mu.Lock()
	defer g.mu.Unlock()

	wipe(g.state[:])
	g.credit = 0
	g.counter = 0
	if g.logger != nil {
		g.logger.Debug("random pool released")
	}
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
