package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/snowbench/snowbench/core"
)

// maxRenderedRows caps table output for interactive use.
const maxRenderedRows = 1000

// Session executes queries over a single connection and renders results.
// The connection is owned by the caller, which releases it exactly once
// regardless of how many queries ran or how the session ended.
type Session struct {
	conn      *core.Connection
	formatter core.Formatter
	out       io.Writer
}

func NewSession(conn *core.Connection, formatter core.Formatter, out io.Writer) *Session {
	return &Session{
		conn:      conn,
		formatter: formatter,
		out:       out,
	}
}

// RunOnce executes a single query and renders the result.
func (s *Session) RunOnce(ctx context.Context, query string) error {
	result, err := s.conn.Execute(ctx, query)
	if err != nil {
		return err
	}

	return s.render(result)
}

// REPL reads queries line by line over one long-lived connection until an
// explicit exit command, end of input or context cancellation. Individual
// query failures are reported and the loop continues.
func (s *Session) REPL(ctx context.Context, in io.Reader, errOut io.Writer) error {
	fmt.Fprintf(s.out, "%s - interactive mode\n", s.conn.Backend())
	fmt.Fprintf(s.out, "Enter SQL queries (or 'exit' to quit):\n\n")

	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(s.out, "snowbench> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			break
		}

		if err := s.RunOnce(ctx, query); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
	}

	return scanner.Err()
}

func (s *Session) render(result *core.Result) error {
	if result.RowCount() == 0 {
		fmt.Fprintln(s.out, "Query returned no rows.")
		return nil
	}

	out, err := result.Format(s.formatter, &core.FormatterOptions{MaxRows: maxRenderedRows})
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, string(out))
	return nil
}
