package builders_test

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/snowbench/snowbench/core"
	"github.com/snowbench/snowbench/core/builders"
)

func newClient(t *testing.T) (*builders.Client, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	client := builders.NewClient(db)
	t.Cleanup(client.Close)

	return client, mock
}

func TestClient_Query(t *testing.T) {
	r := require.New(t)

	client, mock := newClient(t)

	mock.ExpectQuery("select id, name from t").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "alpha").
			AddRow(int64(2), []byte("beta")),
	)

	stream, err := client.Query(context.Background(), "select id, name from t")
	r.NoError(err)

	result, err := core.DrainStream(stream)
	r.NoError(err)

	r.Equal(core.Header{"id", "name"}, result.Header())
	r.Equal(core.Row{"1", "alpha"}, result.Rows()[0])
	// byte cells come out as strings
	r.Equal(core.Row{"2", "beta"}, result.Rows()[1])

	r.NoError(mock.ExpectationsWereMet())
}

func TestClient_QueryError(t *testing.T) {
	r := require.New(t)

	client, mock := newClient(t)

	mock.ExpectQuery("select oops").WillReturnError(errors.New("table not found"))

	_, err := client.Query(context.Background(), "select oops")
	r.Error(err)
	r.NoError(mock.ExpectationsWereMet())
}

func TestClient_Exec(t *testing.T) {
	r := require.New(t)

	client, mock := newClient(t)

	mock.ExpectExec("delete from t").WillReturnResult(sqlmock.NewResult(0, 3))

	stream, err := client.Exec(context.Background(), "delete from t")
	r.NoError(err)

	result, err := core.DrainStream(stream)
	r.NoError(err)

	r.Equal(core.Header{"Rows Affected"}, result.Header())
	r.Equal(core.Row{"3"}, result.Rows()[0])

	r.NoError(mock.ExpectationsWereMet())
}

func TestClient_Ping(t *testing.T) {
	r := require.New(t)

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	r.NoError(err)

	client := builders.NewClient(db)
	defer client.Close()

	mock.ExpectPing()
	r.NoError(client.Ping(context.Background()))
	r.NoError(mock.ExpectationsWereMet())
}
