package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type (
	// Adapter is a backend client implementation that can establish
	// sessions from a connection profile.
	Adapter interface {
		// Connect establishes a session. For key-pair profiles the signed
		// token is derived from the PEM material on every call, so a
		// malformed key fails here, before any network traffic.
		Connect(profile *Profile) (Driver, error)
		// Shape is the query result shape this backend supports.
		Shape() ResultShape
	}

	// Driver is a live backend session.
	Driver interface {
		Query(ctx context.Context, query string) (ResultStream, error)
		Close()
	}
)

type ConnectionID string

// Connection wraps a live driver session together with the profile it was
// opened for. Close is idempotent, so scoped release (defer) composes with
// explicit cleanup on error paths.
type Connection struct {
	id      ConnectionID
	backend string
	profile *Profile
	driver  Driver

	closeOnce sync.Once
}

// Connect opens a session through the adapter and wraps it with an
// identity and idempotent release.
func Connect(adapter Adapter, backend string, profile *Profile) (*Connection, error) {
	driver, err := adapter.Connect(profile)
	if err != nil {
		return nil, fmt.Errorf("adapter.Connect: %w", err)
	}

	return &Connection{
		id:      ConnectionID(uuid.New().String()),
		backend: backend,
		profile: profile,
		driver:  driver,
	}, nil
}

func (c *Connection) GetID() ConnectionID {
	return c.id
}

func (c *Connection) Backend() string {
	return c.backend
}

// Execute runs a query and drains the stream into a normalized result.
func (c *Connection) Execute(ctx context.Context, query string) (*Result, error) {
	stream, err := c.driver.Query(ctx, query)
	if err != nil {
		return nil, execErr(c.backend, ctx, err)
	}

	result, err := DrainStream(stream)
	if err != nil {
		return nil, execErr(c.backend, ctx, err)
	}

	return result, nil
}

func (c *Connection) Close() {
	c.closeOnce.Do(c.driver.Close)
}

// execErr tags a raw driver error, preserving an already-typed ExecError
// and mapping context cancellation onto the canceled kind.
func execErr(backend string, ctx context.Context, err error) error {
	var typed *ExecError
	if errors.As(err, &typed) {
		return err
	}

	kind := ExecQueryFailed
	if ctx.Err() != nil {
		kind = ExecCanceled
	}
	return NewExecError(backend, kind, err)
}
