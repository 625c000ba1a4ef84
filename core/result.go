package core

import (
	"fmt"
)

// Result is the drained, backend-agnostic form of a ResultStream: ordered
// column names plus rows of stringified cells. Both the formatter and the
// benchmark accounting consume this representation, regardless of the
// backend's native wire format.
type Result struct {
	header   Header
	rows     []Row
	byteSize int
}

// DrainStream consumes a ResultStream into a Result and closes it. The
// stream is closed even when draining fails midway.
func DrainStream(stream ResultStream) (*Result, error) {
	defer stream.Close()

	result := &Result{
		header: stream.Header(),
	}

	for stream.HasNext() {
		row, err := stream.Next()
		if err != nil {
			return nil, err
		}

		normalized := make(Row, len(row))
		for i, cell := range row {
			s := stringifyCell(cell)
			normalized[i] = s
			result.byteSize += len(s)
		}
		result.rows = append(result.rows, normalized)
	}

	return result, nil
}

func stringifyCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return "NULL"
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func (r *Result) Header() Header {
	return r.header
}

func (r *Result) Rows() []Row {
	return r.rows
}

// RowCount is the number of rows the stream produced.
func (r *Result) RowCount() int {
	return len(r.rows)
}

// ByteSize is the total size of all stringified cells. It is a comparable
// payload-volume measure across backends, not the native wire size.
func (r *Result) ByteSize() int {
	return r.byteSize
}

func (r *Result) Format(formatter Formatter, opts *FormatterOptions) ([]byte, error) {
	if opts == nil {
		opts = &FormatterOptions{}
	}

	out, err := formatter.Format(r.header, r.rows, opts)
	if err != nil {
		return nil, fmt.Errorf("formatter.Format: %w", err)
	}

	return out, nil
}
