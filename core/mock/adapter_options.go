package mock

import (
	"context"
	"time"

	"github.com/snowbench/snowbench/core"
)

type adapterConfig struct {
	querySideEffects map[string]func(context.Context) error
	connectSleep     time.Duration
	connectErr       error
	querySleep       time.Duration
	shape            core.ResultShape

	resultStreamOptions []ResultStreamOption
}

type AdapterOption func(*adapterConfig)

// AdapterWithQuerySideEffect registers a function to be called when a query
// with the provided sql gets called.
func AdapterWithQuerySideEffect(sql string, fn func(context.Context) error) AdapterOption {
	return func(c *adapterConfig) {
		c.querySideEffects[sql] = fn
	}
}

// AdapterWithConnectSleep makes every Connect block for the given duration.
func AdapterWithConnectSleep(s time.Duration) AdapterOption {
	return func(c *adapterConfig) {
		c.connectSleep = s
	}
}

// AdapterWithConnectError makes every Connect fail with the given error.
func AdapterWithConnectError(err error) AdapterOption {
	return func(c *adapterConfig) {
		c.connectErr = err
	}
}

// AdapterWithQuerySleep makes every Query block for the given duration,
// respecting context cancellation.
func AdapterWithQuerySleep(s time.Duration) AdapterOption {
	return func(c *adapterConfig) {
		c.querySleep = s
	}
}

// AdapterWithShape sets the result shape the adapter reports to support.
func AdapterWithShape(shape core.ResultShape) AdapterOption {
	return func(c *adapterConfig) {
		c.shape = shape
	}
}

func AdapterWithResultStreamOpts(opts ...ResultStreamOption) AdapterOption {
	return func(c *adapterConfig) {
		c.resultStreamOptions = append(c.resultStreamOptions, opts...)
	}
}
