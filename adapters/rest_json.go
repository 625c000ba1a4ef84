package adapters

import (
	"context"
	"fmt"

	"github.com/snowbench/snowbench/core"
	"github.com/snowbench/snowbench/core/builders"
)

// Register client
func init() {
	_ = register(&RestJSON{}, "rest-json")
}

var _ core.Adapter = (*RestJSON)(nil)

// RestJSON is the REST backend for status-shaped queries (SHOW, DESCRIBE
// and other DDL/DML-like statements), whose results come back as plain
// JSON rowsets.
type RestJSON struct {
	// BaseURL overrides the account-derived endpoint; used by tests.
	BaseURL string
}

const restJSONBackend = "rest-json"

func (a *RestJSON) Connect(profile *core.Profile) (core.Driver, error) {
	client, err := newRESTClient(restJSONBackend, a.BaseURL, profile)
	if err != nil {
		return nil, err
	}

	return &restJSONDriver{client: client}, nil
}

func (a *RestJSON) Shape() core.ResultShape {
	return core.ShapeStatus
}

var _ core.Driver = (*restJSONDriver)(nil)

type restJSONDriver struct {
	client *restClient
}

func (d *restJSONDriver) Query(ctx context.Context, query string) (core.ResultStream, error) {
	resp, err := d.client.query(ctx, query)
	if err != nil {
		return nil, err
	}

	if resp.Data.QueryResultFormat == "arrow" {
		return nil, core.NewExecError(restJSONBackend, core.ExecQueryFailed,
			fmt.Errorf("expected json result but got arrow; use the rest-arrow backend for this query"))
	}

	rows := make([]core.Row, 0, len(resp.Data.RowSet))
	for _, raw := range resp.Data.RowSet {
		rows = append(rows, core.Row(raw))
	}

	next, hasNext := builders.NextRows(rows)
	return builders.NewResultStreamBuilder().
		WithNextFunc(next, hasNext).
		WithHeader(headerFromRowType(resp.Data.RowType)).
		Build(), nil
}

func (d *restJSONDriver) Close() {
	d.client.close()
}
