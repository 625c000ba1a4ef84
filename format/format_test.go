package format_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snowbench/snowbench/core"
	"github.com/snowbench/snowbench/format"
)

var (
	testHeader = core.Header{"id", "name"}
	testRows   = []core.Row{
		{"1", "alpha"},
		{"2", "beta"},
		{"3", "gamma"},
	}
)

func TestTable_Format(t *testing.T) {
	r := require.New(t)

	out, err := format.NewTable().Format(testHeader, testRows, &core.FormatterOptions{})
	r.NoError(err)

	rendered := string(out)
	r.Contains(rendered, "id")
	r.Contains(rendered, "name")
	r.Contains(rendered, "alpha")
	r.Contains(rendered, "gamma")
}

func TestTable_FormatCapsRows(t *testing.T) {
	r := require.New(t)

	out, err := format.NewTable().Format(testHeader, testRows, &core.FormatterOptions{MaxRows: 2})
	r.NoError(err)

	rendered := string(out)
	r.Contains(rendered, "beta")
	r.NotContains(rendered, "gamma")
	r.Contains(rendered, "... (showing first 2 of 3 rows)")
}

func TestCSV_Format(t *testing.T) {
	r := require.New(t)

	out, err := format.NewCSV().Format(testHeader, testRows, &core.FormatterOptions{})
	r.NoError(err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	r.Len(lines, 4)
	r.Equal("id,name", lines[0])
	r.Equal("1,alpha", lines[1])
}

func TestJSON_Format(t *testing.T) {
	r := require.New(t)

	out, err := format.NewJSON().Format(testHeader, testRows, &core.FormatterOptions{})
	r.NoError(err)

	r.Contains(string(out), `"id": "1"`)
	r.Contains(string(out), `"name": "alpha"`)
}
