package v1

import (
	"crypto/hmac"
	"encoding/hex"

	"github.com/MGTheTrain/crypto-binding/internal/app"
	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/algorithms"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/errqueue"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// digestModule exposes one-shot message digests
type digestModule struct{}

func (digestModule) Name() string { return "digest" }

func (digestModule) Open(p *app.Provider) (starlark.Value, error) {
	list := func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
			return nil, err
		}
		names, err := p.Algorithms.List(provider.CategoryDigests)
		if err != nil {
			return nil, err
		}
		return stringList(names), nil
	}

	digest := func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			alg  string
			data starlark.Value
			raw  bool
		)
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "alg", &alg, "data", &data, "raw?", &raw); err != nil {
			return nil, err
		}
		msg, ok := asBytes(data)
		if !ok {
			return nil, errWantBytes(b, data)
		}

		d, ok := lookupDigest(thread, p, alg)
		if !ok {
			return starlark.None, nil
		}
		return renderBytes(d.Sum([]byte(msg)), raw), nil
	}

	info := func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var alg string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "alg", &alg); err != nil {
			return nil, err
		}
		d, ok := lookupDigest(thread, p, alg)
		if !ok {
			return starlark.None, nil
		}
		return starlarkstruct.FromStringDict(starlark.String("digest_info"), starlark.StringDict{
			"name":       starlark.String(d.Name),
			"nid":        starlark.MakeInt(d.NID),
			"size":       starlark.MakeInt(d.Size),
			"block_size": starlark.MakeInt(d.BlockSize),
		}), nil
	}

	return &starlarkstruct.Module{
		Name: "digest",
		Members: starlark.StringDict{
			"list":   starlark.NewBuiltin("list", list),
			"digest": starlark.NewBuiltin("digest", digest),
			"info":   starlark.NewBuiltin("info", info),
		},
	}, nil
}

// hmacModule exposes one-shot HMAC over any registered digest
type hmacModule struct{}

func (hmacModule) Name() string { return "hmac" }

func (hmacModule) Open(p *app.Provider) (starlark.Value, error) {
	mac := func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			alg       string
			key, data starlark.Value
			raw       bool
		)
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "alg", &alg, "key", &key, "data", &data, "raw?", &raw); err != nil {
			return nil, err
		}
		k, ok := asBytes(key)
		if !ok {
			return nil, errWantBytes(b, key)
		}
		msg, ok := asBytes(data)
		if !ok {
			return nil, errWantBytes(b, data)
		}

		d, ok := lookupDigest(thread, p, alg)
		if !ok {
			return starlark.None, nil
		}
		h := hmac.New(d.New, []byte(k))
		_, _ = h.Write([]byte(msg))
		return renderBytes(h.Sum(nil), raw), nil
	}

	return &starlarkstruct.Module{
		Name: "hmac",
		Members: starlark.StringDict{
			"hmac": starlark.NewBuiltin("hmac", mac),
		},
	}, nil
}

func lookupDigest(thread *starlark.Thread, p *app.Provider, alg string) (*algorithms.DigestMethod, bool) {
	d, ok := p.Algorithms.Digest(alg)
	if !ok {
		errqueue.Report(threadContext(thread, p.NewQueue), errqueue.LibEVP, errqueue.ReasonEVPUnsupportedAlgorithm, alg)
	}
	return d, ok
}

func renderBytes(b []byte, raw bool) starlark.Value {
	if raw {
		return starlark.Bytes(b)
	}
	return starlark.String(hex.EncodeToString(b))
}
