package random

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/errqueue"
)

const (
	egdCmdReadNonblocking = 0x01
	egdMaxBytes           = 255
	egdTimeout            = 5 * time.Second
)

// queryEGD asks an entropy-gathering daemon for up to n bytes with the nonblocking read command and
// mixes whatever it returns into the pool.
func (g *Generator) queryEGD(ctx context.Context, path string, n int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, egdTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		errqueue.Report(ctx, errqueue.LibSys, errqueue.ReasonSysDial, path)
		return 0, fmt.Errorf("%w: failed to connect to %s: %v", provider.ErrProvider, path, err)
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := conn.Write([]byte{egdCmdReadNonblocking, byte(n)}); err != nil {
		errqueue.Report(ctx, errqueue.LibRand, errqueue.ReasonRandEGDFailure, err.Error())
		return 0, fmt.Errorf("%w: egd request failed: %v", provider.ErrProvider, err)
	}

	var count [1]byte
	if _, err := io.ReadFull(conn, count[:]); err != nil {
		errqueue.Report(ctx, errqueue.LibRand, errqueue.ReasonRandEGDFailure, err.Error())
		return 0, fmt.Errorf("%w: egd response failed: %v", provider.ErrProvider, err)
	}

	buf := make([]byte, int(count[0]))
	if _, err := io.ReadFull(conn, buf); err != nil {
		errqueue.Report(ctx, errqueue.LibRand, errqueue.ReasonRandEGDFailure, err.Error())
		return 0, fmt.Errorf("%w: egd response truncated: %v", provider.ErrProvider, err)
	}
	g.Add(buf, len(buf))
	wipe(buf)
	return len(buf), nil
}
