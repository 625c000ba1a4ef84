package builders

import (
	"context"
	"database/sql"

	"github.com/snowbench/snowbench/core"
)

// Client is the default database/sql wrapper used by sql-backed adapters.
type Client struct {
	db *sql.DB
}

func NewClient(db *sql.DB) *Client {
	return &Client{db: db}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *Client) Close() {
	c.db.Close()
}

// Query executes a query and returns a result stream over the scanned rows.
func (c *Client) Query(ctx context.Context, query string) (*ResultStream, error) {
	dbRows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	header, err := dbRows.Columns()
	if err != nil {
		_ = dbRows.Close()
		return nil, err
	}

	hasNextFunc := func() bool {
		if !dbRows.Next() {
			if !dbRows.NextResultSet() {
				return false
			}
			return dbRows.Next()
		}
		return true
	}

	nextFunc := func() (core.Row, error) {
		columns := make([]any, len(header))
		columnPointers := make([]any, len(header))
		for i := range columns {
			columnPointers[i] = &columns[i]
		}

		if err := dbRows.Scan(columnPointers...); err != nil {
			return nil, err
		}

		row := make(core.Row, len(header))
		for i := range header {
			val := *columnPointers[i].(*any)
			if valb, ok := val.([]byte); ok {
				val = string(valb)
			}
			row[i] = val
		}

		return row, nil
	}

	rows := NewResultStreamBuilder().
		WithNextFunc(nextFunc, hasNextFunc).
		WithHeader(header).
		WithCloseFunc(func() {
			_ = dbRows.Close()
		}).
		Build()

	return rows, nil
}

// Exec executes a statement and returns a stream with a single row holding
// the number of affected rows.
func (c *Client) Exec(ctx context.Context, query string) (*ResultStream, error) {
	res, err := c.db.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	next, hasNext := NextSingle(affected)

	rows := NewResultStreamBuilder().
		WithNextFunc(next, hasNext).
		WithHeader(core.Header{"Rows Affected"}).
		Build()

	return rows, nil
}
