//go:build unit
// +build unit

package v1

import (
	"context"

	"github.com/MGTheTrain/crypto-binding/internal/app"
	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"

	"github.com/stretchr/testify/mock"
	"go.starlark.net/starlark"
)

// MockRandomGenerator is a mock implementation of provider.RandomGenerator
type MockRandomGenerator struct {
	mock.Mock
}

func (m *MockRandomGenerator) Bytes(ctx context.Context, n int, mode provider.RandMode) ([]byte, error) {
	args := m.Called(ctx, n, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRandomGenerator) LoadFile(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

func (m *MockRandomGenerator) WriteFile(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockRandomGenerator) Status() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockRandomGenerator) Cleanup() {
	m.Called()
}

// MockObjectRegistry is a mock implementation of provider.ObjectRegistry
type MockObjectRegistry struct {
	mock.Mock
}

func (m *MockObjectRegistry) LookupByID(nid int) (*provider.Object, bool) {
	args := m.Called(nid)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*provider.Object), args.Bool(1)
}

func (m *MockObjectRegistry) LookupByOID(text string) (*provider.Object, bool) {
	args := m.Called(text)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*provider.Object), args.Bool(1)
}

func (m *MockObjectRegistry) Register(ctx context.Context, spec provider.ObjectSpec) (*provider.Object, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Object), args.Error(1)
}

// MockSubmodule is a mock implementation of Submodule
type MockSubmodule struct {
	mock.Mock
}

func (m *MockSubmodule) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockSubmodule) Open(p *app.Provider) (starlark.Value, error) {
	args := m.Called(p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(starlark.Value), args.Error(1)
}
