//go:build unit
// +build unit

package v1

import (
	"bytes"
	"errors"
	"testing"

	"github.com/MGTheTrain/crypto-binding/internal/app"
	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/algorithms"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/engine"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/errqueue"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/hexcodec"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

type handlerFixture struct {
	handler *Handler
	random  *MockRandomGenerator
	objects *MockObjectRegistry
	diag    *bytes.Buffer
	thread  *starlark.Thread
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	table := algorithms.NewTable(nil)
	require.NoError(t, algorithms.RegisterAll(table))
	engines := engine.New(nil, nil)
	engines.LoadDynamic()
	engines.LoadBuiltin()

	strs := errqueue.NewStrings()
	strs.Load()

	f := &handlerFixture{
		random:  new(MockRandomGenerator),
		objects: new(MockObjectRegistry),
		diag:    &bytes.Buffer{},
		thread:  &starlark.Thread{Name: "test"},
	}
	f.handler = NewHandler(
		table,
		hexcodec.New(),
		f.objects,
		f.random,
		engines,
		func() *errqueue.Queue { return errqueue.New(strs, nil) },
		app.VersionInfo{Binding: "1.0.0", Runtime: "go-test", Provider: "test provider"},
		f.diag,
		false,
		testutil.SetupTestLogger(t),
	)
	return f
}

func (f *handlerFixture) call(t *testing.T, name string, args ...starlark.Value) (starlark.Value, error) {
	t.Helper()
	fn, ok := f.handler.Members()[name]
	require.True(t, ok, name)
	return starlark.Call(f.thread, fn, starlark.Tuple(args), nil)
}

func TestHandler_Version(t *testing.T) {
	f := newHandlerFixture(t)

	v, err := f.call(t, "version")
	require.NoError(t, err)
	tuple := v.(starlark.Tuple)
	require.Len(t, tuple, 3)
	assert.Equal(t, starlark.String("1.0.0"), tuple[0])
	assert.Equal(t, starlark.String("go-test"), tuple[1])
	assert.Equal(t, starlark.String("test provider"), tuple[2])
}

func TestHandler_List(t *testing.T) {
	f := newHandlerFixture(t)

	v, err := f.call(t, "list", starlark.String("ciphers"))
	require.NoError(t, err)
	assert.Greater(t, v.(*starlark.List).Len(), 0)

	_, err = f.call(t, "list", starlark.String("hashes"))
	assert.ErrorIs(t, err, provider.ErrInvalidArgument)
}

func TestHandler_Hex(t *testing.T) {
	f := newHandlerFixture(t)

	v, err := f.call(t, "hex", starlark.Bytes("\x01\xab"))
	require.NoError(t, err)
	assert.Equal(t, starlark.String("01ab"), v)

	v, err = f.call(t, "hex", starlark.String("\x00\x01"))
	require.NoError(t, err)
	assert.Equal(t, starlark.String("01"), v)

	v, err = f.call(t, "hex", starlark.String("01ab"), starlark.False)
	require.NoError(t, err)
	assert.Equal(t, starlark.Bytes("\x01\xab"), v)

	_, err = f.call(t, "hex", starlark.String("abc"), starlark.False)
	assert.ErrorIs(t, err, provider.ErrMalformedInput)

	_, err = f.call(t, "hex", starlark.MakeInt(3))
	assert.Error(t, err)
}

func TestAsBytes(t *testing.T) {
	tests := []struct {
		name  string
		value starlark.Value
		want  string
		ok    bool
	}{
		{"string", starlark.String("abc"), "abc", true},
		{"bytes", starlark.Bytes("\x00\xff"), "\x00\xff", true},
		{"empty bytes", starlark.Bytes(""), "", true},
		{"int", starlark.MakeInt(1), "", false},
		{"none", starlark.None, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := asBytes(tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandler_Random(t *testing.T) {
	f := newHandlerFixture(t)

	f.random.On("Bytes", mock.Anything, 4, provider.RandPseudo).Return([]byte{1, 2, 3, 4}, nil).Once()
	v, err := f.call(t, "random", starlark.MakeInt(4))
	require.NoError(t, err)
	assert.Equal(t, starlark.Bytes("\x01\x02\x03\x04"), v)

	f.random.On("Bytes", mock.Anything, 8, provider.RandStrong).Return(nil, provider.ErrEntropyUnavailable).Once()
	v, err = f.call(t, "random", starlark.MakeInt(8), starlark.True)
	require.NoError(t, err)
	assert.Equal(t, starlark.False, v)

	f.random.On("Bytes", mock.Anything, 0, provider.RandPseudo).Return(nil, provider.ErrInvalidArgument).Once()
	_, err = f.call(t, "random", starlark.MakeInt(0))
	assert.ErrorIs(t, err, provider.ErrInvalidArgument)

	f.random.AssertExpectations(t)
}

func TestHandler_RandFunctions(t *testing.T) {
	f := newHandlerFixture(t)

	f.random.On("Status").Return(false).Once()
	v, err := f.call(t, "rand_status")
	require.NoError(t, err)
	assert.Equal(t, starlark.False, v)

	f.random.On("LoadFile", mock.Anything, "/seed").Return(true, nil).Once()
	v, err = f.call(t, "rand_load", starlark.String("/seed"))
	require.NoError(t, err)
	assert.Equal(t, starlark.True, v)

	f.random.On("LoadFile", mock.Anything, "").Return(false, errors.New("no file")).Once()
	v, err = f.call(t, "rand_load")
	require.NoError(t, err)
	assert.Equal(t, starlark.False, v)

	f.random.On("WriteFile", mock.Anything, "/out").Return(nil).Once()
	v, err = f.call(t, "rand_write", starlark.String("/out"))
	require.NoError(t, err)
	assert.Equal(t, starlark.True, v)

	f.random.On("WriteFile", mock.Anything, "").Return(provider.ErrProvider).Once()
	v, err = f.call(t, "rand_write", starlark.None)
	require.NoError(t, err)
	assert.Equal(t, starlark.False, v)

	_, err = f.call(t, "rand_load", starlark.MakeInt(1))
	assert.Error(t, err)

	f.random.On("Cleanup").Return().Once()
	v, err = f.call(t, "rand_cleanup")
	require.NoError(t, err)
	assert.Equal(t, starlark.None, v)

	f.random.AssertExpectations(t)
}

func TestHandler_ObjectOverloads(t *testing.T) {
	f := newHandlerFixture(t)
	cn := &provider.Object{NID: 13, ShortName: "CN", LongName: "commonName", OID: "2.5.4.3"}

	f.objects.On("LookupByID", 13).Return(cn, true).Once()
	v, err := f.call(t, "object", starlark.MakeInt(13))
	require.NoError(t, err)
	assert.Equal(t, "asn1_object", v.Type())

	f.objects.On("LookupByOID", "2.5.4.3").Return(cn, true).Once()
	byText, err := f.call(t, "object", starlark.String("2.5.4.3"))
	require.NoError(t, err)
	eq, err := starlark.Equal(v, byText)
	require.NoError(t, err)
	assert.True(t, eq)

	f.objects.On("LookupByOID", "1.9.9").Return(nil, false).Once()
	v, err = f.call(t, "object", starlark.String("1.9.9"))
	require.NoError(t, err)
	assert.Equal(t, starlark.None, v)

	spec := provider.ObjectSpec{OID: "1.9.9", ShortName: "mine", LongName: "my object"}
	f.objects.On("Register", mock.Anything, spec).Return(&provider.Object{NID: 1200, ShortName: "mine", LongName: "my object", OID: "1.9.9"}, nil).Once()
	v, err = f.call(t, "object", starlark.String("1.9.9"), starlark.String("mine"), starlark.String("my object"))
	require.NoError(t, err)
	assert.Equal(t, starlark.True, v)

	f.objects.On("Register", mock.Anything, mock.Anything).Return(nil, provider.ErrRegistrationFailure).Once()
	v, err = f.call(t, "object", starlark.String("bad"), starlark.String("x"))
	require.NoError(t, err)
	assert.Equal(t, starlark.False, v)

	_, err = f.call(t, "object", starlark.Float(1.5))
	assert.Error(t, err)
	_, err = f.call(t, "object")
	assert.Error(t, err)

	f.objects.AssertExpectations(t)
}

func TestHandler_Error(t *testing.T) {
	f := newHandlerFixture(t)

	v, err := f.call(t, "error")
	require.NoError(t, err)
	assert.Equal(t, starlark.None, v)

	q := ThreadQueue(f.thread, nil)
	q.Record(errqueue.LibRand, errqueue.ReasonRandNotSeeded, "")
	q.Record(errqueue.LibOBJ, errqueue.ReasonOBJOIDExists, "2.5.4.3")

	v, err = f.call(t, "error", starlark.True)
	require.NoError(t, err)
	tuple := v.(starlark.Tuple)
	code, ok := tuple[0].(starlark.Int).Uint64()
	require.True(t, ok)
	assert.Equal(t, uint64(errqueue.Pack(errqueue.LibRand, errqueue.ReasonRandNotSeeded)), code)
	assert.Contains(t, string(tuple[1].(starlark.String)), "PRNG not seeded")
	assert.Contains(t, f.diag.String(), "oid exists")

	v, err = f.call(t, "error", starlark.True)
	require.NoError(t, err)
	assert.Equal(t, starlark.None, v)
}

func TestHandler_Engine(t *testing.T) {
	f := newHandlerFixture(t)

	v, err := f.call(t, "engine")
	require.NoError(t, err)
	assert.Equal(t, 2, v.(*starlark.List).Len())

	v, err = f.call(t, "engine", starlark.String("builtin"))
	require.NoError(t, err)
	id, err := v.(starlark.HasAttrs).Attr("id")
	require.NoError(t, err)
	assert.Equal(t, starlark.String("builtin"), id)

	v, err = f.call(t, "engine", starlark.String("nope"))
	require.NoError(t, err)
	assert.Equal(t, starlark.None, v)
	assert.Equal(t, 1, ThreadQueue(f.thread, nil).Len())
}

func TestThreadQueue_PerThread(t *testing.T) {
	strs := errqueue.NewStrings()
	factory := func() *errqueue.Queue { return errqueue.New(strs, nil) }

	a := &starlark.Thread{Name: "a"}
	b := &starlark.Thread{Name: "b"}

	qa := ThreadQueue(a, factory)
	assert.Same(t, qa, ThreadQueue(a, factory))
	assert.NotSame(t, qa, ThreadQueue(b, factory))

	qa.Record(errqueue.LibRand, errqueue.ReasonRandNotSeeded, "")
	assert.Equal(t, 0, ThreadQueue(b, factory).Len())

	replacement := factory()
	BindQueue(a, replacement)
	assert.Same(t, replacement, ThreadQueue(a, factory))
}
