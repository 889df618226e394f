package v1

import (
	"fmt"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Object is the Starlark handle on an object identifier. Handles compare and hash by NID.
type Object struct {
	obj provider.Object
}

var (
	_ starlark.HasAttrs   = (*Object)(nil)
	_ starlark.Comparable = (*Object)(nil)
)

// NewObject wraps a registry entry
func NewObject(o *provider.Object) *Object {
	return &Object{obj: *o}
}

// Unwrap returns the registry entry
func (o *Object) Unwrap() provider.Object { return o.obj }

func (o *Object) String() string {
	return fmt.Sprintf("asn1_object(%d, %q, %q)", o.obj.NID, o.obj.ShortName, o.obj.OID)
}

// Type implements starlark.Value
func (o *Object) Type() string { return "asn1_object" }

// Freeze implements starlark.Value; handles are immutable
func (o *Object) Freeze() {}

// Truth implements starlark.Value
func (o *Object) Truth() starlark.Bool { return starlark.True }

// Hash implements starlark.Value
func (o *Object) Hash() (uint32, error) { return uint32(o.obj.NID), nil }

// Attr implements starlark.HasAttrs
func (o *Object) Attr(name string) (starlark.Value, error) {
	switch name {
	case "nid":
		return starlark.MakeInt(o.obj.NID), nil
	case "sn":
		return starlark.String(o.obj.ShortName), nil
	case "ln":
		return starlark.String(o.obj.LongName), nil
	case "oid":
		return starlark.String(o.obj.OID), nil
	}
	return nil, nil
}

// AttrNames implements starlark.HasAttrs
func (o *Object) AttrNames() []string {
	return []string{"ln", "nid", "oid", "sn"}
}

// CompareSameType implements starlark.Comparable
func (o *Object) CompareSameType(op syntax.Token, y starlark.Value, depth int) (bool, error) {
	other := y.(*Object)
	a, b := o.obj.NID, other.obj.NID
	switch op {
	case syntax.EQL:
		return a == b, nil
	case syntax.NEQ:
		return a != b, nil
	case syntax.LT:
		return a < b, nil
	case syntax.LE:
		return a <= b, nil
	case syntax.GT:
		return a > b, nil
	case syntax.GE:
		return a >= b, nil
	}
	return false, fmt.Errorf("%s %s %s not supported", o.Type(), op, y.Type())
}
