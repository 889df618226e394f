package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/MGTheTrain/crypto-binding/internal/app"
	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/algorithms"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/errqueue"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/pkey"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// Key is the Starlark handle on an asymmetric key
type Key struct {
	key *pkey.Key
	p   *app.Provider
}

var _ starlark.HasAttrs = (*Key)(nil)

func (k *Key) String() string {
	kind := "public"
	if k.key.IsPrivate() {
		kind = "private"
	}
	return fmt.Sprintf("evp_pkey(%s, %d bits, %s)", k.key.Type, k.key.Bits, kind)
}

// Type implements starlark.Value
func (k *Key) Type() string { return "evp_pkey" }

// Freeze implements starlark.Value; keys are immutable
func (k *Key) Freeze() {}

// Truth implements starlark.Value
func (k *Key) Truth() starlark.Bool { return starlark.True }

// Hash implements starlark.Value
func (k *Key) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: %s", k.Type()) }

// Attr implements starlark.HasAttrs
func (k *Key) Attr(name string) (starlark.Value, error) {
	switch name {
	case "type":
		return starlark.String(k.key.Type), nil
	case "bits":
		return starlark.MakeInt(k.key.Bits), nil
	case "curve":
		return starlark.String(k.key.Curve), nil
	case "private":
		return starlark.Bool(k.key.IsPrivate()), nil
	}
	if fn, ok := k.methods()[name]; ok {
		return starlark.NewBuiltin(name, fn), nil
	}
	return nil, nil
}

// AttrNames implements starlark.HasAttrs
func (k *Key) AttrNames() []string {
	return []string{"bits", "curve", "decrypt", "derive", "encrypt", "export", "private", "public", "sign", "type", "verify"}
}

func (k *Key) methods() map[string]builtinFunc {
	return map[string]builtinFunc{
		"sign":    k.sign,
		"verify":  k.verify,
		"encrypt": k.encrypt,
		"decrypt": k.decrypt,
		"derive":  k.derive,
		"export":  k.export,
		"public":  k.public,
	}
}

// digestFor resolves the digest argument; ED25519 signs the message itself and takes none
func (k *Key) digestFor(thread *starlark.Thread, name string) (*algorithms.DigestMethod, bool) {
	if k.key.Type == pkey.TypeED25519 {
		return nil, true
	}
	return lookupDigest(thread, k.p, name)
}

func (k *Key) sign(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		data starlark.Value
		alg  = "sha256"
		pss  bool
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "data", &data, "digest?", &alg, "pss?", &pss); err != nil {
		return nil, err
	}
	msg, ok := asBytes(data)
	if !ok {
		return nil, errWantBytes(b, data)
	}
	d, ok := k.digestFor(thread, alg)
	if !ok {
		return starlark.None, nil
	}

	sig, err := k.p.Keys.Sign(threadContext(thread, k.p.NewQueue), k.key, d, []byte(msg), pss)
	if err != nil {
		return keyFailure(thread, k.p, b, err)
	}
	return starlark.Bytes(sig), nil
}

func (k *Key) verify(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		data, signature starlark.Value
		alg             = "sha256"
		pss             bool
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "data", &data, "signature", &signature, "digest?", &alg, "pss?", &pss); err != nil {
		return nil, err
	}
	msg, ok := asBytes(data)
	if !ok {
		return nil, errWantBytes(b, data)
	}
	sig, ok := asBytes(signature)
	if !ok {
		return nil, errWantBytes(b, signature)
	}
	d, ok := k.digestFor(thread, alg)
	if !ok {
		return starlark.None, nil
	}

	valid, err := k.p.Keys.Verify(k.key, d, []byte(msg), []byte(sig), pss)
	if err != nil {
		return keyFailure(thread, k.p, b, err)
	}
	return starlark.Bool(valid), nil
}

func (k *Key) encrypt(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	return k.crypt(thread, b, args, kwargs, k.p.Keys.Encrypt)
}

func (k *Key) decrypt(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	return k.crypt(thread, b, args, kwargs, k.p.Keys.Decrypt)
}

func (k *Key) crypt(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple,
	op func(ctx context.Context, key *pkey.Key, in []byte) ([]byte, error)) (starlark.Value, error) {
	var data starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "data", &data); err != nil {
		return nil, err
	}
	in, ok := asBytes(data)
	if !ok {
		return nil, errWantBytes(b, data)
	}

	out, err := op(threadContext(thread, k.p.NewQueue), k.key, []byte(in))
	if err != nil {
		return keyFailure(thread, k.p, b, err)
	}
	return starlark.Bytes(out), nil
}

func (k *Key) derive(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var peer *Key
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "peer", &peer); err != nil {
		return nil, err
	}
	secret, err := k.p.Keys.Derive(k.key, peer.key)
	if err != nil {
		return keyFailure(thread, k.p, b, err)
	}
	return starlark.Bytes(secret), nil
}

func (k *Key) export(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var private bool
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "private?", &private); err != nil {
		return nil, err
	}

	var (
		out []byte
		err error
	)
	if private {
		out, err = pkey.MarshalPrivatePEM(k.key)
	} else {
		out, err = pkey.MarshalPublicPEM(k.key)
	}
	if err != nil {
		return keyFailure(thread, k.p, b, err)
	}
	return starlark.String(out), nil
}

func (k *Key) public(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return &Key{key: k.key.PublicOnly(), p: k.p}, nil
}

// keyFailure raises argument errors and turns everything else into None with a queued record
func keyFailure(thread *starlark.Thread, p *app.Provider, b *starlark.Builtin, err error) (starlark.Value, error) {
	if errors.Is(err, provider.ErrInvalidArgument) {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	reason := errqueue.ReasonEVPOperationFailed
	if errors.Is(err, pkey.ErrUnsupportedKey) {
		reason = errqueue.ReasonEVPUnsupportedKeyType
	}
	errqueue.Report(threadContext(thread, p.NewQueue), errqueue.LibEVP, reason, err.Error())
	return starlark.None, nil
}

func newKey(thread *starlark.Thread, p *app.Provider, b *starlark.Builtin, spec pkey.KeySpec) (starlark.Value, error) {
	key, err := p.Keys.Generate(threadContext(thread, p.NewQueue), spec)
	switch {
	case errors.Is(err, provider.ErrInvalidArgument):
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	case err != nil:
		errqueue.Report(threadContext(thread, p.NewQueue), errqueue.LibEVP, errqueue.ReasonEVPKeygenFailed, spec.Type)
		return starlark.None, nil
	}
	return &Key{key: key, p: p}, nil
}

// pkeyModule exposes key generation and PEM import
type pkeyModule struct{}

func (pkeyModule) Name() string { return "pkey" }

func (pkeyModule) Open(p *app.Provider) (starlark.Value, error) {
	if p.Keys == nil {
		return nil, fmt.Errorf("key processor not initialized")
	}

	generate := func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var spec pkey.KeySpec
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "type", &spec.Type, "bits?", &spec.Bits, "curve?", &spec.Curve); err != nil {
			return nil, err
		}
		return newKey(thread, p, b, spec)
	}

	read := func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var data starlark.Value
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pem", &data); err != nil {
			return nil, err
		}
		text, ok := asBytes(data)
		if !ok {
			return nil, errWantBytes(b, data)
		}

		key, err := pkey.ParsePEM([]byte(text))
		if err != nil {
			reason := errqueue.ReasonPEMBadKey
			if errors.Is(err, pkey.ErrNoPEM) {
				reason = errqueue.ReasonPEMNoStartLine
			}
			errqueue.Report(threadContext(thread, p.NewQueue), errqueue.LibPEM, reason, "")
			return starlark.None, nil
		}
		return &Key{key: key, p: p}, nil
	}

	return &starlarkstruct.Module{
		Name: "pkey",
		Members: starlark.StringDict{
			"new":  starlark.NewBuiltin("new", generate),
			"read": starlark.NewBuiltin("read", read),
		},
	}, nil
}

// ecModule exposes the named curves. It is only present when the provider registers EC keys.
type ecModule struct{}

var _ ConditionalSubmodule = ecModule{}

func (ecModule) Name() string { return "ec" }

func (ecModule) Available(p *app.Provider) bool {
	if p.Keys == nil || p.Algorithms == nil {
		return false
	}
	_, ok := p.Algorithms.Lookup(provider.CategoryPKeys, pkey.TypeEC)
	return ok
}

func (ecModule) Open(p *app.Provider) (starlark.Value, error) {
	curves := func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
			return nil, err
		}
		return stringList(pkey.Curves()), nil
	}

	generate := func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		curve := pkey.DefaultCurve
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "curve?", &curve); err != nil {
			return nil, err
		}
		return newKey(thread, p, b, pkey.KeySpec{Type: pkey.TypeEC, Curve: curve})
	}

	return &starlarkstruct.Module{
		Name: "ec",
		Members: starlark.StringDict{
			"curves": starlark.NewBuiltin("curves", curves),
			"new":    starlark.NewBuiltin("new", generate),
		},
	}, nil
}
