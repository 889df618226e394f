package v1

import (
	"errors"
	"fmt"

	"github.com/MGTheTrain/crypto-binding/internal/app"
	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/algorithms"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/errqueue"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// cipherModule exposes one-shot symmetric encryption
type cipherModule struct{}

func (cipherModule) Name() string { return "cipher" }

func (cipherModule) Open(p *app.Provider) (starlark.Value, error) {
	list := func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
			return nil, err
		}
		names, err := p.Algorithms.List(provider.CategoryCiphers)
		if err != nil {
			return nil, err
		}
		return stringList(names), nil
	}

	info := func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var alg string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "alg", &alg); err != nil {
			return nil, err
		}
		c, ok := lookupCipher(thread, p, alg)
		if !ok {
			return starlark.None, nil
		}
		return starlarkstruct.FromStringDict(starlark.String("cipher_info"), starlark.StringDict{
			"name":       starlark.String(c.Name),
			"nid":        starlark.MakeInt(c.NID),
			"key_len":    starlark.MakeInt(c.KeyLen),
			"iv_len":     starlark.MakeInt(c.IVLen),
			"block_size": starlark.MakeInt(c.BlockSize),
			"mode":       starlark.String(c.Mode),
		}), nil
	}

	return &starlarkstruct.Module{
		Name: "cipher",
		Members: starlark.StringDict{
			"list":    starlark.NewBuiltin("list", list),
			"info":    starlark.NewBuiltin("info", info),
			"encrypt": starlark.NewBuiltin("encrypt", cipherOp(p, true)),
			"decrypt": starlark.NewBuiltin("decrypt", cipherOp(p, false)),
		},
	}, nil
}

func cipherOp(p *app.Provider, encrypt bool) builtinFunc {
	return func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			alg           string
			key, iv, data starlark.Value
		)
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "alg", &alg, "key", &key, "iv", &iv, "data", &data); err != nil {
			return nil, err
		}
		keyS, ok1 := asBytes(key)
		ivS, ok2 := asBytes(iv)
		dataS, ok3 := asBytes(data)
		if !ok1 || !ok2 || !ok3 {
			return nil, fmt.Errorf("%s: key, iv and data must be string or bytes", b.Name())
		}

		c, ok := lookupCipher(thread, p, alg)
		if !ok {
			return starlark.None, nil
		}

		var (
			out []byte
			err error
		)
		if encrypt {
			out, err = c.Encrypt([]byte(keyS), []byte(ivS), []byte(dataS))
		} else {
			out, err = c.Decrypt([]byte(keyS), []byte(ivS), []byte(dataS))
		}

		ctx := threadContext(thread, p.NewQueue)
		switch {
		case errors.Is(err, provider.ErrInvalidArgument):
			errqueue.Report(ctx, errqueue.LibEVP, errqueue.ReasonEVPInvalidKeyLength, alg)
			return starlark.None, nil
		case errors.Is(err, algorithms.ErrBadDecrypt):
			errqueue.Report(ctx, errqueue.LibEVP, errqueue.ReasonEVPDecryptFailed, alg)
			return starlark.None, nil
		case err != nil:
			return starlark.None, nil
		}
		return starlark.Bytes(out), nil
	}
}

func lookupCipher(thread *starlark.Thread, p *app.Provider, alg string) (*algorithms.CipherMethod, bool) {
	c, ok := p.Algorithms.Cipher(alg)
	if !ok {
		errqueue.Report(threadContext(thread, p.NewQueue), errqueue.LibEVP, errqueue.ReasonEVPUnsupportedAlgorithm, alg)
	}
	return c, ok
}

func errWantBytes(b *starlark.Builtin, v starlark.Value) error {
	return fmt.Errorf("%s: got %s, want string or bytes", b.Name(), v.Type())
}
