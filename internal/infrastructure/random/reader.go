package random

import (
	"context"
	"io"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
)

type strongReader struct {
	g   *Generator
	ctx context.Context
}

// Reader returns an io.Reader over strong output. Failures are reported on the queue carried by ctx.
func (g *Generator) Reader(ctx context.Context) io.Reader {
	return strongReader{g: g, ctx: ctx}
}

func (r strongReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	out, err := r.g.Bytes(r.ctx, len(p), provider.RandStrong)
	if err != nil {
		return 0, err
	}
	return copy(p, out), nil
}
