package mock

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/snowbench/snowbench/core"
)

var _ core.Driver = (*driver)(nil)

type driver struct {
	data    []core.Row
	config  *adapterConfig
	onClose func()
}

func (d *driver) Query(ctx context.Context, query string) (core.ResultStream, error) {
	eff, ok := d.config.querySideEffects[query]
	if ok {
		err := eff(ctx)
		if err != nil {
			return nil, fmt.Errorf("side effect error: %w", err)
		}
	}

	if d.config.querySleep > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(d.config.querySleep):
		}
	}

	return NewResultStream(d.data, d.config.resultStreamOptions...), nil
}

func (d *driver) Close() {
	d.onClose()
}

var _ core.Adapter = (*Adapter)(nil)

// Adapter is a configurable fake backend. It counts Connect and Close
// invocations, which makes resource-leak assertions cheap in tests.
type Adapter struct {
	data   []core.Row
	config *adapterConfig

	connectCount atomic.Int64
	closeCount   atomic.Int64
}

func NewAdapter(data []core.Row, opts ...AdapterOption) *Adapter {
	config := &adapterConfig{
		querySideEffects:    make(map[string]func(context.Context) error),
		shape:               core.ShapeTabular,
		resultStreamOptions: []ResultStreamOption{},
	}
	for _, opt := range opts {
		opt(config)
	}

	return &Adapter{
		data:   data,
		config: config,
	}
}

func (a *Adapter) Connect(_ *core.Profile) (core.Driver, error) {
	if a.config.connectSleep > 0 {
		time.Sleep(a.config.connectSleep)
	}
	if a.config.connectErr != nil {
		return nil, a.config.connectErr
	}

	a.connectCount.Add(1)

	return &driver{
		data:    a.data,
		config:  a.config,
		onClose: func() { a.closeCount.Add(1) },
	}, nil
}

func (a *Adapter) Shape() core.ResultShape {
	return a.config.shape
}

// ConnectCount reports how many sessions were successfully opened.
func (a *Adapter) ConnectCount() int {
	return int(a.connectCount.Load())
}

// CloseCount reports how many sessions were released.
func (a *Adapter) CloseCount() int {
	return int(a.closeCount.Load())
}
