package v1

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/MGTheTrain/crypto-binding/internal/app"
	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/errqueue"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// bnModule exposes big-integer helpers over Starlark's arbitrary-precision ints
type bnModule struct{}

func (bnModule) Name() string { return "bn" }

func (bnModule) Open(p *app.Provider) (starlark.Value, error) {
	fromhex := func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var text string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text); err != nil {
			return nil, err
		}
		n, ok := new(big.Int).SetString(text, 16)
		if !ok {
			errqueue.Report(threadContext(thread, p.NewQueue), errqueue.LibBN, errqueue.ReasonBNInvalidHex, text)
			return starlark.None, nil
		}
		return starlark.MakeBigInt(n), nil
	}

	tohex := func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var n starlark.Int
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "n", &n); err != nil {
			return nil, err
		}
		return starlark.String(n.BigInt().Text(16)), nil
	}

	powmod := func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var base, exp, mod starlark.Int
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "base", &base, "exp", &exp, "mod", &mod); err != nil {
			return nil, err
		}
		m := mod.BigInt()
		if m.Sign() <= 0 {
			return nil, fmt.Errorf("%s: %w: modulus must be positive", b.Name(), provider.ErrInvalidArgument)
		}
		e := exp.BigInt()
		if e.Sign() < 0 {
			return nil, fmt.Errorf("%s: %w: negative exponent", b.Name(), provider.ErrInvalidArgument)
		}
		return starlark.MakeBigInt(new(big.Int).Exp(base.BigInt(), e, m)), nil
	}

	gcd := func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var x, y starlark.Int
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "a", &x, "b", &y); err != nil {
			return nil, err
		}
		a, c := new(big.Int).Abs(x.BigInt()), new(big.Int).Abs(y.BigInt())
		return starlark.MakeBigInt(new(big.Int).GCD(nil, nil, a, c)), nil
	}

	isPrime := func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			n      starlark.Int
			rounds = 20
		)
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "n", &n, "rounds?", &rounds); err != nil {
			return nil, err
		}
		return starlark.Bool(n.BigInt().ProbablyPrime(rounds)), nil
	}

	random := func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var bits int
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "bits", &bits); err != nil {
			return nil, err
		}
		if bits <= 0 {
			return nil, fmt.Errorf("%s: %w: bits must be positive", b.Name(), provider.ErrInvalidArgument)
		}

		buf, err := p.Random.Bytes(threadContext(thread, p.NewQueue), (bits+7)/8, provider.RandStrong)
		if errors.Is(err, provider.ErrEntropyUnavailable) {
			return starlark.False, nil
		} else if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		n := new(big.Int).SetBytes(buf)
		n.Rsh(n, uint(len(buf)*8-bits))
		return starlark.MakeBigInt(n), nil
	}

	return &starlarkstruct.Module{
		Name: "bn",
		Members: starlark.StringDict{
			"fromhex":  starlark.NewBuiltin("fromhex", fromhex),
			"tohex":    starlark.NewBuiltin("tohex", tohex),
			"powmod":   starlark.NewBuiltin("powmod", powmod),
			"gcd":      starlark.NewBuiltin("gcd", gcd),
			"is_prime": starlark.NewBuiltin("is_prime", isPrime),
			"random":   starlark.NewBuiltin("random", random),
		},
	}, nil
}
