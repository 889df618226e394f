package app

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const cryptoModule = "golang.org/x/crypto"

// VersionInfo is the version triple reported to the host
type VersionInfo struct {
	Binding  string
	Runtime  string
	Provider string
}

// Version reports the binding, host runtime and provider versions
func Version(binding string) VersionInfo {
	return VersionInfo{
		Binding:  binding,
		Runtime:  runtime.Version(),
		Provider: providerVersion(),
	}
}

func providerVersion() string {
	v := "Go crypto " + runtime.Version()
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}
	for _, dep := range info.Deps {
		if dep.Path == cryptoModule {
			return fmt.Sprintf("%s, %s %s", v, cryptoModule, dep.Version)
		}
	}
	return v
}

// MemoryReport describes the heap allocations still outstanding
func MemoryReport() string {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	var b strings.Builder
	fmt.Fprintf(&b, "outstanding objects: %d\n", ms.Mallocs-ms.Frees)
	fmt.Fprintf(&b, "heap in use: %d bytes\n", ms.HeapInuse)
	fmt.Fprintf(&b, "heap allocated: %d bytes in %d objects\n", ms.HeapAlloc, ms.HeapObjects)
	fmt.Fprintf(&b, "total allocated: %d bytes\n", ms.TotalAlloc)
	fmt.Fprintf(&b, "goroutines: %d\n", runtime.NumGoroutine())
	return b.String()
}
