package adapters

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/ipc"

	"github.com/snowbench/snowbench/core"
	"github.com/snowbench/snowbench/core/builders"
)

// Register client
func init() {
	_ = register(&RestArrow{}, "rest-arrow")
}

var _ core.Adapter = (*RestArrow)(nil)

// RestArrow is the REST backend for SELECT-like queries. Result payloads
// arrive as base64 Arrow IPC streams and are decoded column-wise.
type RestArrow struct {
	// BaseURL overrides the account-derived endpoint; used by tests.
	BaseURL string
}

const restArrowBackend = "rest-arrow"

func (a *RestArrow) Connect(profile *core.Profile) (core.Driver, error) {
	client, err := newRESTClient(restArrowBackend, a.BaseURL, profile)
	if err != nil {
		return nil, err
	}

	return &restArrowDriver{client: client}, nil
}

func (a *RestArrow) Shape() core.ResultShape {
	return core.ShapeTabular
}

var _ core.Driver = (*restArrowDriver)(nil)

type restArrowDriver struct {
	client *restClient
}

func (d *restArrowDriver) Query(ctx context.Context, query string) (core.ResultStream, error) {
	resp, err := d.client.query(ctx, query)
	if err != nil {
		return nil, err
	}

	if resp.Data.QueryResultFormat != "arrow" || resp.Data.RowSetBase64 == "" {
		if resp.Data.QueryResultFormat == "json" {
			return nil, core.NewExecError(restArrowBackend, core.ExecQueryFailed,
				fmt.Errorf("expected arrow result but got json; use the rest-json backend for this query"))
		}

		// statements with no result payload (e.g. USE) produce an empty set
		next, hasNext := builders.NextNil()
		return builders.NewResultStreamBuilder().
			WithNextFunc(next, hasNext).
			WithHeader(headerFromRowType(resp.Data.RowType)).
			Build(), nil
	}

	header, rows, err := decodeArrowRowSet(resp.Data.RowSetBase64)
	if err != nil {
		return nil, core.NewExecError(restArrowBackend, core.ExecQueryFailed, err)
	}
	if len(header) == 0 {
		header = headerFromRowType(resp.Data.RowType)
	}

	next, hasNext := builders.NextRows(rows)
	return builders.NewResultStreamBuilder().
		WithNextFunc(next, hasNext).
		WithHeader(header).
		Build(), nil
}

func (d *restArrowDriver) Close() {
	d.client.close()
}

// decodeArrowRowSet materializes an Arrow IPC stream into generic rows.
// Records are released as soon as their cells are copied out.
func decodeArrowRowSet(encoded string) (core.Header, []core.Row, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, nil, fmt.Errorf("decode arrow payload: %w", err)
	}

	reader, err := ipc.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("open arrow stream: %w", err)
	}
	defer reader.Release()

	var header core.Header
	for _, field := range reader.Schema().Fields() {
		header = append(header, field.Name)
	}

	var rows []core.Row
	for reader.Next() {
		record := reader.Record()

		numRows := int(record.NumRows())
		numCols := int(record.NumCols())

		for i := 0; i < numRows; i++ {
			row := make(core.Row, numCols)
			for j := 0; j < numCols; j++ {
				col := record.Column(j)
				if col.IsNull(i) {
					row[j] = nil
					continue
				}
				row[j] = col.ValueStr(i)
			}
			rows = append(rows, row)
		}
	}
	if err := reader.Err(); err != nil {
		return nil, nil, fmt.Errorf("read arrow stream: %w", err)
	}

	return header, rows, nil
}

func headerFromRowType(rowTypes []rowType) core.Header {
	var header core.Header
	for _, rt := range rowTypes {
		header = append(header, rt.Name)
	}
	return header
}
