package adapters

import (
	"context"

	"github.com/snowbench/snowbench/core"
	"github.com/snowbench/snowbench/core/builders"
)

var _ core.Driver = (*gosnowflakeDriver)(nil)

type gosnowflakeDriver struct {
	c *builders.Client
}

// Query executes a query and returns the result as a ResultStream.
func (d *gosnowflakeDriver) Query(ctx context.Context, query string) (core.ResultStream, error) {
	stream, err := d.c.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return stream, nil
}

// Close closes the underlying sql.DB connection.
func (d *gosnowflakeDriver) Close() {
	d.c.Close()
}
