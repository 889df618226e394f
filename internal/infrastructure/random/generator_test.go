//go:build unit
// +build unit

package random

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/errqueue"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/metrics"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/testutil"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy device unplugged")
}

func queueContext() (context.Context, *errqueue.Queue) {
	s := errqueue.NewStrings()
	s.Load()
	q := errqueue.New(s, nil)
	return errqueue.NewContext(context.Background(), q), q
}

func TestGenerator_BytesLengthAndModes(t *testing.T) {
	g := New(nil, nil, testutil.SetupTestLogger(t), nil)

	for _, mode := range []provider.RandMode{provider.RandStrong, provider.RandPseudo} {
		for _, n := range []int{1, 16, 1000} {
			out, err := g.Bytes(context.Background(), n, mode)
			require.NoError(t, err)
			assert.Len(t, out, n, "%s/%d", mode, n)
		}
	}
}

func TestGenerator_BytesInvalidLength(t *testing.T) {
	g := New(nil, nil, nil, nil)

	for _, n := range []int{0, -1} {
		for _, mode := range []provider.RandMode{provider.RandStrong, provider.RandPseudo} {
			out, err := g.Bytes(context.Background(), n, mode)
			assert.ErrorIs(t, err, provider.ErrInvalidArgument)
			assert.Nil(t, out)
		}
	}
}

func TestGenerator_StrongOutputsDiffer(t *testing.T) {
	g := New(nil, nil, nil, nil)

	a, err := g.Bytes(context.Background(), 32, provider.RandStrong)
	require.NoError(t, err)
	b, err := g.Bytes(context.Background(), 32, provider.RandStrong)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGenerator_StrongFailsWithoutEntropy(t *testing.T) {
	g := New(nil, failingReader{}, nil, nil)
	ctx, q := queueContext()

	out, err := g.Bytes(ctx, 16, provider.RandStrong)
	require.ErrorIs(t, err, provider.ErrEntropyUnavailable)
	assert.Nil(t, out)

	rec, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, errqueue.LibRand, rec.Library)
	assert.Equal(t, errqueue.ReasonRandEntropySource, rec.Reason)
}

func TestGenerator_StrongFailsWhenFreshEntropyRunsOut(t *testing.T) {
	// enough for the initial poll only
	g := New(nil, bytes.NewReader(make([]byte, pollBytes)), nil, nil)

	_, err := g.Bytes(context.Background(), 8, provider.RandStrong)
	assert.ErrorIs(t, err, provider.ErrEntropyUnavailable)
}

func TestGenerator_PseudoNeverFails(t *testing.T) {
	g := New(nil, failingReader{}, nil, nil)

	out, err := g.Bytes(context.Background(), 64, provider.RandPseudo)
	require.NoError(t, err)
	assert.Len(t, out, 64)
}

func TestGenerator_StatusAfterLoadFile(t *testing.T) {
	g := New(nil, nil, nil, nil)
	require.False(t, g.Status())

	path := testutil.CreateSeedFile(t, 2048)
	ok, err := g.LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, g.Status())
}

func TestGenerator_LoadFileShortFileNotEnough(t *testing.T) {
	g := New(nil, nil, nil, nil)

	path := testutil.CreateSeedFile(t, 8)
	ok, err := g.LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenerator_LoadFileReadsAtMostLimit(t *testing.T) {
	m, err := metrics.New("rand_test")
	require.NoError(t, err)
	g := New(nil, nil, nil, m)

	path := testutil.CreateSeedFile(t, MaxLoadBytes*4)
	n, err := g.loadFrom(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, MaxLoadBytes, n)

	_, err = g.LoadFile(context.Background(), path)
	require.NoError(t, err)
	count, err := promtestutil.GatherAndCount(m.Registry(), "rand_test_seed_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGenerator_LoadFileErrors(t *testing.T) {
	g := New(nil, nil, nil, nil)

	ctx, q := queueContext()
	ok, err := g.LoadFile(ctx, filepath.Join(t.TempDir(), "missing.rnd"))
	assert.False(t, ok)
	assert.ErrorIs(t, err, provider.ErrProvider)
	rec, found := q.Pop()
	require.True(t, found)
	assert.Equal(t, errqueue.LibSys, rec.Library)

	ok, err = g.LoadFile(ctx, t.TempDir())
	assert.False(t, ok)
	assert.ErrorIs(t, err, provider.ErrProvider)
}

func TestGenerator_LoadFileDefaultPath(t *testing.T) {
	path := testutil.CreateSeedFile(t, 64)
	t.Setenv(EnvRandFile, path)

	g := New(nil, nil, nil, nil)
	ok, err := g.LoadFile(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDefaultFile(t *testing.T) {
	t.Setenv(EnvRandFile, "/custom/seed")
	p, ok := DefaultFile()
	assert.True(t, ok)
	assert.Equal(t, "/custom/seed", p)

	t.Setenv(EnvRandFile, "")
	t.Setenv("HOME", "/home/tester")
	p, ok = DefaultFile()
	assert.True(t, ok)
	assert.Equal(t, filepath.Join("/home/tester", ".rnd"), p)

	t.Setenv("HOME", "")
	_, ok = DefaultFile()
	assert.False(t, ok)
}

func TestGenerator_WriteFile(t *testing.T) {
	g := New(nil, nil, nil, nil)
	path := filepath.Join(t.TempDir(), "out.rnd")

	require.NoError(t, g.WriteFile(context.Background(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(WriteBytes), info.Size())
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")

	loader := New(nil, nil, nil, nil)
	ok, err := loader.LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGenerator_WriteFileErrors(t *testing.T) {
	g := New(nil, failingReader{}, nil, nil)
	path := filepath.Join(t.TempDir(), "out.rnd")

	err := g.WriteFile(context.Background(), path)
	assert.ErrorIs(t, err, provider.ErrEntropyUnavailable)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	ok := New(nil, nil, nil, nil)
	err = ok.WriteFile(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, provider.ErrProvider)
}

func TestGenerator_CleanupRequiresReseed(t *testing.T) {
	g := New(nil, nil, nil, nil)
	require.NoError(t, g.Poll(context.Background()))
	require.True(t, g.Status())

	g.Cleanup()
	assert.False(t, g.Status())

	out, err := g.Bytes(context.Background(), 16, provider.RandStrong)
	require.NoError(t, err)
	assert.Len(t, out, 16)
	assert.True(t, g.Status())
}

func TestGenerator_LoadFileFromEGDSocket(t *testing.T) {
	dir, err := os.MkdirTemp("", "egd")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	sock := filepath.Join(dir, "egd.sock")

	ln, err := net.Listen("unix", sock)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	var request []byte
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		request = make([]byte, 2)
		if _, err := io.ReadFull(conn, request); err != nil {
			return
		}
		reply := append([]byte{16}, bytes.Repeat([]byte{0xAB}, 16)...)
		_, _ = conn.Write(reply)
	}()

	g := New(nil, nil, nil, nil)
	ok, err := g.LoadFile(context.Background(), sock)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, g.Status(), "socket load reports success without crediting a full seed")

	wg.Wait()
	assert.Equal(t, []byte{egdCmdReadNonblocking, egdMaxBytes}, request)

	_, err = os.Stat(sock)
	assert.NoError(t, err)
}

func TestGenerator_ConcurrentStrong(t *testing.T) {
	g := New(nil, nil, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				out, err := g.Bytes(context.Background(), 32, provider.RandStrong)
				assert.NoError(t, err)
				assert.Len(t, out, 32)
			}
		}()
	}
	wg.Wait()
}

func TestGenerator_Reader(t *testing.T) {
	g := New(nil, nil, testutil.SetupTestLogger(t), nil)
	ctx, _ := queueContext()

	buf := make([]byte, 100)
	n, err := io.ReadFull(g.Reader(ctx), buf)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.NotEqual(t, make([]byte, 100), buf)

	broken := New(nil, failingReader{}, testutil.SetupTestLogger(t), nil)
	bctx, q := queueContext()
	_, err = broken.Reader(bctx).Read(buf)
	assert.ErrorIs(t, err, provider.ErrEntropyUnavailable)
	assert.Equal(t, 1, q.Len())
}
