package format

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/snowbench/snowbench/core"
)

var _ core.Formatter = (*Table)(nil)

type Table struct{}

func NewTable() *Table {
	return &Table{}
}

func (tf *Table) Format(header core.Header, rows []core.Row, opts *core.FormatterOptions) ([]byte, error) {
	total := len(rows)
	if opts.MaxRows > 0 && total > opts.MaxRows {
		rows = rows[:opts.MaxRows]
	}

	tableHeaders := make([]any, 0, len(header))
	for _, k := range header {
		tableHeaders = append(tableHeaders, k)
	}

	var tableRows []table.Row
	for _, row := range rows {
		tableRows = append(tableRows, table.Row(row))
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row(tableHeaders))
	t.AppendRows(tableRows)
	t.AppendSeparator()
	t.SetStyle(table.StyleLight)
	t.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	t.Style().Options.DrawBorder = false
	t.SuppressTrailingSpaces()
	render := t.Render()

	if opts.MaxRows > 0 && total > opts.MaxRows {
		render += fmt.Sprintf("\n\n... (showing first %d of %d rows)", opts.MaxRows, total)
	}

	return []byte(render), nil
}
