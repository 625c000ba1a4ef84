package cli_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snowbench/snowbench/cli"
	"github.com/snowbench/snowbench/core"
	"github.com/snowbench/snowbench/core/mock"
	"github.com/snowbench/snowbench/format"
)

func newTestSession(t *testing.T, adapter *mock.Adapter, out *bytes.Buffer) *cli.Session {
	t.Helper()

	conn, err := core.Connect(adapter, "mock", &core.Profile{})
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	return cli.NewSession(conn, format.NewTable(), out)
}

func TestSession_RunOnce(t *testing.T) {
	r := require.New(t)

	var out bytes.Buffer
	session := newTestSession(t, mock.NewAdapter(mock.NewRows(0, 2)), &out)

	r.NoError(session.RunOnce(context.Background(), "select 1"))

	r.Contains(out.String(), "row_0")
	r.Contains(out.String(), "row_1")
}

func TestSession_RunOnceNoRows(t *testing.T) {
	r := require.New(t)

	var out bytes.Buffer
	session := newTestSession(t, mock.NewAdapter(nil), &out)

	r.NoError(session.RunOnce(context.Background(), "select 1 where false"))
	r.Contains(out.String(), "Query returned no rows.")
}

func TestSession_REPL(t *testing.T) {
	r := require.New(t)

	var out, errOut bytes.Buffer
	session := newTestSession(t, mock.NewAdapter(mock.NewRows(0, 1)), &out)

	in := strings.NewReader("select 1\n\nexit\n")
	r.NoError(session.REPL(context.Background(), in, &errOut))

	r.Contains(out.String(), "snowbench> ")
	r.Contains(out.String(), "row_0")
	r.Empty(errOut.String())
}

func TestSession_REPLContinuesAfterQueryError(t *testing.T) {
	r := require.New(t)

	adapter := mock.NewAdapter(mock.NewRows(0, 1),
		mock.AdapterWithQuerySideEffect("boom", func(_ context.Context) error {
			return errors.New("statement rejected")
		}),
	)

	var out, errOut bytes.Buffer
	session := newTestSession(t, adapter, &out)

	in := strings.NewReader("boom\nselect 1\nquit\n")
	r.NoError(session.REPL(context.Background(), in, &errOut))

	// the failed query is reported and the next one still runs
	r.Contains(errOut.String(), "statement rejected")
	r.Contains(out.String(), "row_0")
}

func TestSession_REPLStopsOnEOF(t *testing.T) {
	r := require.New(t)

	var out, errOut bytes.Buffer
	session := newTestSession(t, mock.NewAdapter(mock.NewRows(0, 1)), &out)

	r.NoError(session.REPL(context.Background(), strings.NewReader(""), &errOut))
	r.Contains(out.String(), "snowbench> ")
}

func TestSession_REPLStopsOnCanceledContext(t *testing.T) {
	r := require.New(t)

	var out, errOut bytes.Buffer
	session := newTestSession(t, mock.NewAdapter(mock.NewRows(0, 1)), &out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r.NoError(session.REPL(ctx, strings.NewReader("select 1\n"), &errOut))
	r.NotContains(out.String(), "row_0")
}
