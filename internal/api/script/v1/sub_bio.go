package v1

import (
	"github.com/MGTheTrain/crypto-binding/internal/app"
	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/algorithms"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/errqueue"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

const defaultCompMethod = "zlib"

// bioModule exposes the compression filters over byte buffers
type bioModule struct{}

func (bioModule) Name() string { return "bio" }

func (bioModule) Open(p *app.Provider) (starlark.Value, error) {
	methods := func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
			return nil, err
		}
		names, err := p.Algorithms.List(provider.CategoryComps)
		if err != nil {
			return nil, err
		}
		return stringList(names), nil
	}

	// filter runs op over data; a corrupt stream is a provider failure, not an argument error
	filter := func(reason int, op func(c *algorithms.CompMethod, in []byte) ([]byte, error)) builtinFunc {
		return func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var (
				data   starlark.Value
				method = defaultCompMethod
			)
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "data", &data, "method?", &method); err != nil {
				return nil, err
			}
			in, ok := asBytes(data)
			if !ok {
				return nil, errWantBytes(b, data)
			}

			ctx := threadContext(thread, p.NewQueue)
			c, ok := p.Algorithms.Comp(method)
			if !ok {
				errqueue.Report(ctx, errqueue.LibCOMP, errqueue.ReasonCOMPUnsupportedMethod, method)
				return starlark.None, nil
			}
			out, err := op(c, []byte(in))
			if err != nil {
				errqueue.Report(ctx, errqueue.LibCOMP, reason, err.Error())
				return starlark.None, nil
			}
			return starlark.Bytes(out), nil
		}
	}

	compress := filter(errqueue.ReasonCOMPDeflateError, (*algorithms.CompMethod).Compress)
	expand := filter(errqueue.ReasonCOMPInflateError, (*algorithms.CompMethod).Expand)

	return &starlarkstruct.Module{
		Name: "bio",
		Members: starlark.StringDict{
			"methods":  starlark.NewBuiltin("methods", methods),
			"compress": starlark.NewBuiltin("compress", compress),
			"expand":   starlark.NewBuiltin("expand", expand),
		},
	}, nil
}
