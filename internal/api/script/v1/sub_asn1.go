package v1

import (
	"github.com/MGTheTrain/crypto-binding/internal/app"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/validators"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// asn1Module exposes object identifier translation
type asn1Module struct{}

func (asn1Module) Name() string { return "asn1" }

func (asn1Module) Open(p *app.Provider) (starlark.Value, error) {
	txt2obj := func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var text string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text); err != nil {
			return nil, err
		}
		obj, ok := p.Objects.LookupByOID(text)
		if !ok {
			return starlark.None, nil
		}
		return NewObject(obj), nil
	}

	txt2nid := func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var text string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text); err != nil {
			return nil, err
		}
		obj, ok := p.Objects.LookupByOID(text)
		if !ok {
			return starlark.MakeInt(0), nil
		}
		return starlark.MakeInt(obj.NID), nil
	}

	nidName := func(long bool) builtinFunc {
		return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var nid int
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "nid", &nid); err != nil {
				return nil, err
			}
			obj, ok := p.Objects.LookupByID(nid)
			if !ok {
				return starlark.None, nil
			}
			if long {
				return starlark.String(obj.LongName), nil
			}
			return starlark.String(obj.ShortName), nil
		}
	}

	isOID := func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var text string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text); err != nil {
			return nil, err
		}
		return starlark.Bool(validators.IsDottedOID(text)), nil
	}

	return &starlarkstruct.Module{
		Name: "asn1",
		Members: starlark.StringDict{
			"txt2obj": starlark.NewBuiltin("txt2obj", txt2obj),
			"txt2nid": starlark.NewBuiltin("txt2nid", txt2nid),
			"nid2sn":  starlark.NewBuiltin("nid2sn", nidName(false)),
			"nid2ln":  starlark.NewBuiltin("nid2ln", nidName(true)),
			"is_oid":  starlark.NewBuiltin("is_oid", isOID),
		},
	}, nil
}
