package adapters

import (
	"errors"
	"fmt"
	"sort"

	"github.com/snowbench/snowbench/core"
)

var (
	errNoValidAliases = errors.New("no valid backend aliases provided")
	ErrUnknownBackend = errors.New("no backend registered for provided alias")
)

// registeredAdapters holds implemented adapters - specific adapters register
// themselves in their init functions.
var registeredAdapters = make(map[string]core.Adapter)

// register registers a new adapter under the given aliases.
func register(adapter core.Adapter, aliases ...string) error {
	if len(aliases) < 1 {
		return errNoValidAliases
	}

	invalidCount := 0
	for _, alias := range aliases {
		if alias == "" {
			invalidCount++
			continue
		}
		registeredAdapters[alias] = adapter
	}

	if invalidCount == len(aliases) {
		return errNoValidAliases
	}

	return nil
}

// Mux is an interface to all internal adapters.
type Mux struct{}

func (*Mux) GetAdapter(alias string) (core.Adapter, error) {
	adapter, ok := registeredAdapters[alias]
	if !ok {
		return nil, fmt.Errorf("%q: %w", alias, ErrUnknownBackend)
	}

	return adapter, nil
}

// Backends returns the sorted aliases of all registered adapters.
func (*Mux) Backends() []string {
	aliases := make([]string, 0, len(registeredAdapters))
	for alias := range registeredAdapters {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// NewConnection is a wrapper around core.Connect that uses the internal mux
// for adapter lookup.
func NewConnection(backend string, profile *core.Profile) (*core.Connection, error) {
	adapter, err := new(Mux).GetAdapter(backend)
	if err != nil {
		return nil, err
	}

	c, err := core.Connect(adapter, backend, profile)
	if err != nil {
		return nil, fmt.Errorf("core.Connect: %w", err)
	}

	return c, nil
}
