package adapters_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snowbench/snowbench/adapters"
	"github.com/snowbench/snowbench/core"
)

const passwordConfig = `
prod:
  account: acc
  user: bench
  password: hunter2
`

// restServer fakes the legacy login-request/query-request endpoints.
type restServer struct {
	*httptest.Server

	loginCalls  int
	logoutCalls int
	queryCalls  int

	lastAuthHeader   string
	lastTokenTypeHdr string
	lastHadRequestID bool

	loginResponse map[string]any
	queryResponse map[string]any
}

func newRESTServer(t *testing.T) *restServer {
	t.Helper()

	s := &restServer{
		loginResponse: map[string]any{
			"data":    map[string]any{"token": "session-token"},
			"success": true,
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/session/v1/login-request", func(w http.ResponseWriter, r *http.Request) {
		s.loginCalls++
		writeJSON(t, w, s.loginResponse)
	})
	mux.HandleFunc("/session/logout-request", func(w http.ResponseWriter, r *http.Request) {
		s.logoutCalls++
		writeJSON(t, w, map[string]any{"success": true})
	})
	mux.HandleFunc("/queries/v1/query-request", func(w http.ResponseWriter, r *http.Request) {
		s.queryCalls++
		s.lastAuthHeader = r.Header.Get("Authorization")
		s.lastTokenTypeHdr = r.Header.Get("X-Snowflake-Authorization-Token-Type")
		s.lastHadRequestID = r.URL.Query().Get("requestId") != ""
		writeJSON(t, w, s.queryResponse)
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func writeJSON(t *testing.T, w http.ResponseWriter, body map[string]any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestRestJSON_Query(t *testing.T) {
	r := require.New(t)

	server := newRESTServer(t)
	server.queryResponse = map[string]any{
		"data": map[string]any{
			"rowtype": []map[string]any{
				{"name": "name"},
				{"name": "kind"},
			},
			"rowset": [][]any{
				{"ANALYTICS", "STANDARD"},
				{"STAGING", nil},
			},
			"queryResultFormat": "json",
		},
		"success": true,
	}

	adapter := &adapters.RestJSON{BaseURL: server.URL}
	profile := resolveProfile(t, passwordConfig, "prod")

	driver, err := adapter.Connect(profile)
	r.NoError(err)
	defer driver.Close()

	stream, err := driver.Query(context.Background(), "show databases")
	r.NoError(err)

	result, err := core.DrainStream(stream)
	r.NoError(err)

	r.Equal(core.Header{"name", "kind"}, result.Header())
	r.Equal(core.Row{"ANALYTICS", "STANDARD"}, result.Rows()[0])
	r.Equal(core.Row{"STAGING", "NULL"}, result.Rows()[1])

	r.Equal(1, server.loginCalls)
	r.Equal(1, server.queryCalls)
	r.True(server.lastHadRequestID)
	r.Equal(`Snowflake Token="session-token"`, server.lastAuthHeader)
}

func TestRestJSON_LoginRejected(t *testing.T) {
	r := require.New(t)

	server := newRESTServer(t)
	server.loginResponse = map[string]any{
		"success": false,
		"message": "Incorrect username or password was specified.",
	}

	adapter := &adapters.RestJSON{BaseURL: server.URL}
	profile := resolveProfile(t, passwordConfig, "prod")

	_, err := adapter.Connect(profile)
	r.Error(err)

	var connErr *core.ConnectError
	r.ErrorAs(err, &connErr)
	r.Equal(core.ConnectAuthRejected, connErr.Kind)

	// the password never leaks into the error text
	r.NotContains(err.Error(), "hunter2")
	r.Equal(0, server.queryCalls)
}

func TestRestJSON_QueryFailed(t *testing.T) {
	r := require.New(t)

	server := newRESTServer(t)
	server.queryResponse = map[string]any{
		"success": false,
		"message": "SQL compilation error: syntax error",
		"code":    "001003",
	}

	adapter := &adapters.RestJSON{BaseURL: server.URL}
	profile := resolveProfile(t, passwordConfig, "prod")

	driver, err := adapter.Connect(profile)
	r.NoError(err)
	defer driver.Close()

	_, err = driver.Query(context.Background(), "select oops")
	r.Error(err)

	var execErr *core.ExecError
	r.ErrorAs(err, &execErr)
	r.Equal(core.ExecQueryFailed, execErr.Kind)
	r.Contains(err.Error(), "001003")
}

func TestRestJSON_ArrowFormatMismatch(t *testing.T) {
	r := require.New(t)

	server := newRESTServer(t)
	server.queryResponse = map[string]any{
		"data": map[string]any{
			"rowsetBase64":      "QUJD",
			"queryResultFormat": "arrow",
		},
		"success": true,
	}

	adapter := &adapters.RestJSON{BaseURL: server.URL}
	profile := resolveProfile(t, passwordConfig, "prod")

	driver, err := adapter.Connect(profile)
	r.NoError(err)
	defer driver.Close()

	_, err = driver.Query(context.Background(), "select 1")
	r.Error(err)

	var execErr *core.ExecError
	r.ErrorAs(err, &execErr)
	r.Equal(core.ExecQueryFailed, execErr.Kind)
	r.True(strings.Contains(err.Error(), "rest-arrow"))
}

func TestRestJSON_CloseLogsOut(t *testing.T) {
	r := require.New(t)

	server := newRESTServer(t)

	adapter := &adapters.RestJSON{BaseURL: server.URL}
	profile := resolveProfile(t, passwordConfig, "prod")

	driver, err := adapter.Connect(profile)
	r.NoError(err)

	driver.Close()
	r.Equal(1, server.logoutCalls)
}
