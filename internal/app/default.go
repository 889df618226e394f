package app

import (
	"sync"

	"github.com/MGTheTrain/crypto-binding/internal/pkg/config"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/logger"
)

var (
	defaultOnce         sync.Once
	defaultOrchestrator *Orchestrator
	defaultSettings     *config.ProviderSettings
	defaultOptions      []Option
	defaultMu           sync.Mutex
)

// Configure sets the settings and options the process-wide orchestrator is built with.
// It has no effect once Default has been called.
func Configure(settings config.ProviderSettings, opts ...Option) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultSettings = &settings
	defaultOptions = opts
}

// Default returns the process-wide orchestrator. Without Configure it uses the default provider settings.
func Default() *Orchestrator {
	defaultOnce.Do(func() {
		defaultMu.Lock()
		defer defaultMu.Unlock()

		settings := config.Default().Provider
		if defaultSettings != nil {
			settings = *defaultSettings
		}
		defaultOrchestrator = NewOrchestrator(settings, logger.GetOrDefault(), defaultOptions...)
	})
	return defaultOrchestrator
}
