package schema

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/normaudit/pkg/contract"
)

// globalRegistry maps lowercased file extensions to builders.
var globalRegistry = &registry{builders: make(map[string]contract.Builder)}

type registry struct {
	mu       sync.RWMutex
	builders map[string]contract.Builder
}

// Register associates file extensions (with leading dot) with a builder.
// Call this from init() functions in format packages.
func Register(b contract.Builder, exts ...string) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	for _, ext := range exts {
		globalRegistry.builders[strings.ToLower(ext)] = b
	}
}

// ForPath returns the builder for path's extension.
func ForPath(path string) (contract.Builder, error) {
	ext := strings.ToLower(filepath.Ext(path))

	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	b, ok := globalRegistry.builders[ext]
	if !ok {
		return nil, &UnsupportedFormatError{Path: path, Ext: ext}
	}
	return b, nil
}

// Extensions returns the registered extensions in sorted order.
func Extensions() []string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	exts := make([]string, 0, len(globalRegistry.builders))
	for ext := range globalRegistry.builders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
