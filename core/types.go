package core

// ResultShape describes the kind of result a query is expected to produce.
// Tabular covers SELECT-like queries, Status covers SHOW/DESCRIBE/DDL-like
// queries. This is a usage contract between a query and a backend, not a
// parsed property of the SQL text.
type ResultShape int

const (
	ShapeTabular ResultShape = iota
	ShapeStatus
)

func (s ResultShape) String() string {
	switch s {
	case ShapeTabular:
		return "tabular"
	case ShapeStatus:
		return "status"
	default:
		return "unknown"
	}
}

// ResultShapeFromString parses a shape name. The second return value is
// false for unknown names.
func ResultShapeFromString(s string) (ResultShape, bool) {
	switch s {
	case "tabular":
		return ShapeTabular, true
	case "status":
		return ShapeStatus, true
	default:
		return ShapeTabular, false
	}
}

// QuerySpec is a single query together with its expected result shape.
type QuerySpec struct {
	SQL   string
	Shape ResultShape
}

type (
	// Row and Header are attributes of the ResultStream iterator
	Row    []any
	Header []string

	// ResultStream is a result from an executed query in form of an iterator
	ResultStream interface {
		Header() Header
		Next() (Row, error)
		HasNext() bool
		Close()
	}
)

type (
	// FormatterOptions provide various options for formatters
	FormatterOptions struct {
		// MaxRows caps the number of rendered rows (0 means no cap).
		MaxRows int
	}

	// Formatter converts header and rows to bytes
	Formatter interface {
		Format(header Header, rows []Row, opts *FormatterOptions) ([]byte, error)
	}
)
