package v1

import (
	"crypto/tls"

	"github.com/MGTheTrain/crypto-binding/internal/app"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/algorithms"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/errqueue"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// sslModule exposes the TLS cipher suite table
type sslModule struct{}

func (sslModule) Name() string { return "ssl" }

func (sslModule) Open(p *app.Provider) (starlark.Value, error) {
	suites := func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var insecure bool
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "insecure?", &insecure); err != nil {
			return nil, err
		}
		var names []string
		for _, s := range p.Algorithms.TLSSuites() {
			if s.Insecure && !insecure {
				continue
			}
			names = append(names, s.Name)
		}
		return stringList(names), nil
	}

	suite := func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
			return nil, err
		}
		s, ok := p.Algorithms.TLSSuite(name)
		if !ok {
			errqueue.Report(threadContext(thread, p.NewQueue), errqueue.LibSSL, errqueue.ReasonSSLNoCipherMatch, name)
			return starlark.None, nil
		}
		return suiteValue(s), nil
	}

	return &starlarkstruct.Module{
		Name: "ssl",
		Members: starlark.StringDict{
			"suites": starlark.NewBuiltin("suites", suites),
			"suite":  starlark.NewBuiltin("suite", suite),
		},
	}, nil
}

func suiteValue(s algorithms.TLSSuite) starlark.Value {
	versions := make([]starlark.Value, len(s.Versions))
	for i, v := range s.Versions {
		versions[i] = starlark.String(tls.VersionName(v))
	}
	return starlarkstruct.FromStringDict(starlark.String("tls_suite"), starlark.StringDict{
		"id":       starlark.MakeInt(int(s.ID)),
		"name":     starlark.String(s.Name),
		"versions": starlark.NewList(versions),
		"insecure": starlark.Bool(s.Insecure),
	})
}
