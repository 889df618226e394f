package v1

import (
	"context"
	"fmt"

	"github.com/MGTheTrain/crypto-binding/internal/app"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/logger"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

// scriptOptions let scripts branch and loop at top level like ordinary programs
var scriptOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

// Open initializes the provider through o, then builds the module with the process-wide sub-modules
func Open(ctx context.Context, o *app.Orchestrator, log logger.Logger) (*starlarkstruct.Module, *app.Provider, error) {
	p, err := o.Init(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize provider: %w", err)
	}

	h := NewHandler(
		p.Algorithms,
		p.Hex,
		p.Objects,
		p.Random,
		p.Engines,
		p.NewQueue,
		app.Version(p.Settings.BindingVersion),
		p.DiagnosticsWriter(),
		p.Settings.VerboseErrors,
		log,
	)
	return NewModule(h, p, DefaultSubmodules(), log), p, nil
}

// NewModule assembles the module from the function table and the sub-modules in SubmoduleOrder.
// Names without an implementation, unavailable conditional modules and modules that fail to open are skipped.
func NewModule(h *Handler, p *app.Provider, subs *SubmoduleRegistry, log logger.Logger) *starlarkstruct.Module {
	members := h.Members()

	for _, name := range SubmoduleOrder {
		m, ok := subs.Lookup(name)
		if !ok {
			log.Debug(fmt.Sprintf("sub-module %s not available", name))
			continue
		}
		if c, conditional := m.(ConditionalSubmodule); conditional && !c.Available(p) {
			log.Debug(fmt.Sprintf("sub-module %s not supported by provider", name))
			continue
		}

		v, err := m.Open(p)
		if err != nil {
			log.Warn(fmt.Sprintf("failed to open sub-module %s: %v", name, err))
			continue
		}
		members[name] = v
	}

	return &starlarkstruct.Module{Name: ModuleName, Members: members}
}

// Exec runs src on thread with the module predeclared under ModuleName and returns the script's globals
func Exec(thread *starlark.Thread, module *starlarkstruct.Module, filename string, src interface{}) (starlark.StringDict, error) {
	predeclared := starlark.StringDict{
		ModuleName: module,
		"struct":   starlarkstruct.Default,
	}

	globals, err := starlark.ExecFileOptions(scriptOptions, thread, filename, src, predeclared)
	if err != nil {
		return nil, fmt.Errorf("starlark execution failed: %w", err)
	}
	return globals, nil
}
