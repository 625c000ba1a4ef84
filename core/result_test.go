package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snowbench/snowbench/core"
	"github.com/snowbench/snowbench/core/mock"
)

func TestDrainStream(t *testing.T) {
	r := require.New(t)

	stream := mock.NewResultStream([]core.Row{
		{1, "alpha", nil},
		{2, "beta", []byte("raw")},
	}, mock.ResultStreamWithHeader(core.Header{"ID", "NAME", "BLOB"}))

	result, err := core.DrainStream(stream)
	r.NoError(err)

	r.Equal(core.Header{"ID", "NAME", "BLOB"}, result.Header())
	r.Equal(2, result.RowCount())

	rows := result.Rows()
	r.Equal(core.Row{"1", "alpha", "NULL"}, rows[0])
	r.Equal(core.Row{"2", "beta", "raw"}, rows[1])

	// byte size accounts for every stringified cell
	r.Equal(len("1alphaNULL")+len("2betaraw"), result.ByteSize())
}

func TestDrainStream_Error(t *testing.T) {
	r := require.New(t)

	stream := mock.NewResultStream(mock.NewRows(0, 3),
		mock.ResultStreamWithNextError(errors.New("stream broke")),
	)

	result, err := core.DrainStream(stream)
	r.Error(err)
	r.Nil(result)
}

func TestConnection_CloseIdempotent(t *testing.T) {
	r := require.New(t)

	adapter := mock.NewAdapter(mock.NewRows(0, 3))

	conn, err := core.Connect(adapter, "mock", &core.Profile{})
	r.NoError(err)

	conn.Close()
	conn.Close()
	conn.Close()

	r.Equal(1, adapter.ConnectCount())
	r.Equal(1, adapter.CloseCount())
}

func TestConnection_Execute(t *testing.T) {
	r := require.New(t)

	adapter := mock.NewAdapter(mock.NewRows(0, 5))

	conn, err := core.Connect(adapter, "mock", &core.Profile{})
	r.NoError(err)
	defer conn.Close()

	result, err := conn.Execute(context.Background(), "select 1")
	r.NoError(err)
	r.Equal(5, result.RowCount())
}

func TestConnection_ExecuteError(t *testing.T) {
	r := require.New(t)

	adapter := mock.NewAdapter(mock.NewRows(0, 5),
		mock.AdapterWithQuerySideEffect("boom", func(_ context.Context) error {
			return errors.New("query failed")
		}),
	)

	conn, err := core.Connect(adapter, "mock", &core.Profile{})
	r.NoError(err)
	defer conn.Close()

	_, err = conn.Execute(context.Background(), "boom")
	r.Error(err)

	var execErr *core.ExecError
	r.ErrorAs(err, &execErr)
	r.Equal("mock", execErr.Backend)
	r.Equal(core.ExecQueryFailed, execErr.Kind)
}
