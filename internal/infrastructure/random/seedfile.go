package random

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/errqueue"

	"github.com/google/uuid"
)

const (
	// MaxLoadBytes bounds how much of a seed file is read
	MaxLoadBytes = 2048
	// WriteBytes is the size of a written seed file
	WriteBytes = 1024
)

// EnvRandFile names the environment variable overriding the default seed file
const EnvRandFile = "RANDFILE"

// DefaultFile returns $RANDFILE, else $HOME/.rnd. ok is false when neither is available.
func DefaultFile() (path string, ok bool) {
	if p := os.Getenv(EnvRandFile); p != "" {
		return p, true
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".rnd"), true
	}
	return "", false
}

func resolvePath(ctx context.Context, path string) (string, error) {
	if path != "" {
		return path, nil
	}
	p, ok := DefaultFile()
	if !ok {
		errqueue.Report(ctx, errqueue.LibRand, errqueue.ReasonRandNoDefaultFile, "")
		return "", fmt.Errorf("%w: no seed file given and no default available", provider.ErrInvalidArgument)
	}
	return p, nil
}

// LoadFile mixes seed material into the pool. An empty path means DefaultFile.
// A unix socket is queried as an entropy-gathering daemon and reports success without consulting the pool.
// Anything else is read, at most MaxLoadBytes, and the resulting Status is reported.
func (g *Generator) LoadFile(ctx context.Context, path string) (bool, error) {
	path, err := resolvePath(ctx, path)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(path)
	if err != nil {
		errqueue.Report(ctx, errqueue.LibSys, errqueue.ReasonSysOpen, path)
		g.metrics.SeedOperation("load", false)
		return false, fmt.Errorf("%w: failed to stat %s: %v", provider.ErrProvider, path, err)
	}

	switch {
	case info.Mode()&fs.ModeSocket != 0:
		if _, err := g.queryEGD(ctx, path, egdMaxBytes); err != nil {
			g.metrics.SeedOperation("egd", false)
			return false, err
		}
		g.metrics.SeedOperation("egd", true)
		return true, nil
	case info.IsDir():
		errqueue.Report(ctx, errqueue.LibRand, errqueue.ReasonRandNotRegularFile, path)
		g.metrics.SeedOperation("load", false)
		return false, fmt.Errorf("%w: %s is a directory", provider.ErrProvider, path)
	}

	n, err := g.loadFrom(ctx, path)
	if err != nil {
		g.metrics.SeedOperation("load", false)
		return false, err
	}
	g.metrics.SeedOperation("load", true)
	if g.logger != nil {
		g.logger.Debug(fmt.Sprintf("loaded %d seed bytes from %s", n, path))
	}
	return g.Status(), nil
}

func (g *Generator) loadFrom(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path) // #nosec G304 -- the seed path is chosen by the caller
	if err != nil {
		errqueue.Report(ctx, errqueue.LibSys, errqueue.ReasonSysOpen, path)
		return 0, fmt.Errorf("%w: failed to open %s: %v", provider.ErrProvider, path, err)
	}
	defer func() { _ = f.Close() }()

	buf, err := io.ReadAll(io.LimitReader(f, MaxLoadBytes))
	if err != nil {
		errqueue.Report(ctx, errqueue.LibSys, errqueue.ReasonSysRead, path)
		return 0, fmt.Errorf("%w: failed to read %s: %v", provider.ErrProvider, path, err)
	}
	g.Add(buf, len(buf))
	wipe(buf)
	return len(buf), nil
}

// WriteFile replaces path with WriteBytes of strong output, mode 0600. An empty path means DefaultFile.
// The file is written to a temporary name in the same directory and renamed into place.
func (g *Generator) WriteFile(ctx context.Context, path string) error {
	path, err := resolvePath(ctx, path)
	if err != nil {
		return err
	}

	if info, err := os.Stat(path); err == nil && !info.Mode().IsRegular() {
		errqueue.Report(ctx, errqueue.LibRand, errqueue.ReasonRandNotRegularFile, path)
		g.metrics.SeedOperation("write", false)
		return fmt.Errorf("%w: %s is not a regular file", provider.ErrProvider, path)
	}

	buf, err := g.Bytes(ctx, WriteBytes, provider.RandStrong)
	if err != nil {
		g.metrics.SeedOperation("write", false)
		return err
	}
	defer wipe(buf)

	if err := writeAtomic(path, buf); err != nil {
		errqueue.Report(ctx, errqueue.LibSys, errqueue.ReasonSysWrite, path)
		g.metrics.SeedOperation("write", false)
		return fmt.Errorf("%w: %v", provider.ErrProvider, err)
	}
	g.metrics.SeedOperation("write", true)
	return nil
}

func writeAtomic(path string, data []byte) (err error) {
	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600) // #nosec G304 -- derived from the caller's seed path
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync %s: %w", tmp, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
