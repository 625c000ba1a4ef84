package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/snowbench/snowbench/core"
	"github.com/snowbench/snowbench/snowauth"
)

const (
	clientAppID      = "snowbench"
	clientAppVersion = "0.1.0"

	loginPath  = "/session/v1/login-request"
	logoutPath = "/session/logout-request"
	queryPath  = "/queries/v1/query-request"
)

// restClient is the transport shared by the REST backends. It owns one
// authenticated session: a key-pair session presents a freshly signed JWT,
// a password session holds the token returned by the login endpoint.
type restClient struct {
	backend    string
	httpClient *http.Client
	baseURL    string
	profile    *core.Profile

	// authorization header value; set during connect
	authorization string
	keyPairAuth   bool
}

// newRESTClient establishes an authenticated session. baseURL overrides the
// account-derived endpoint, used by tests.
func newRESTClient(backend, baseURL string, profile *core.Profile) (*restClient, error) {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.snowflakecomputing.com", profile.Account)
	}

	c := &restClient{
		backend:    backend,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		profile:    profile,
	}

	switch profile.Auth() {
	case core.AuthKeyPair:
		// Credential material is validated and signed before any network
		// call; a malformed PEM never reaches the wire.
		key, err := snowauth.ParsePrivateKey(profile.PrivateKey, profile.PrivateKeyPassphrase)
		if err != nil {
			return nil, core.NewConnectError(backend, core.ConnectMalformedCredential, err)
		}
		token, err := snowauth.SignToken(key, profile.Account, profile.User, time.Now())
		if err != nil {
			return nil, core.NewConnectError(backend, core.ConnectMalformedCredential, err)
		}
		c.authorization = "Bearer " + token
		c.keyPairAuth = true

	default:
		if err := c.login(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

type loginRequest struct {
	Data loginRequestData `json:"data"`
}

type loginRequestData struct {
	AccountName      string `json:"ACCOUNT_NAME"`
	LoginName        string `json:"LOGIN_NAME"`
	Password         string `json:"PASSWORD"`
	ClientAppID      string `json:"CLIENT_APP_ID"`
	ClientAppVersion string `json:"CLIENT_APP_VERSION"`
}

type loginResponse struct {
	Data struct {
		Token       string `json:"token"`
		MasterToken string `json:"masterToken"`
	} `json:"data"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// login exchanges the password for a session token on the legacy login
// endpoint.
func (c *restClient) login() error {
	params := url.Values{}
	if c.profile.Warehouse != "" {
		params.Set("warehouse", c.profile.Warehouse)
	}
	if c.profile.Database != "" {
		params.Set("databaseName", c.profile.Database)
	}
	if c.profile.Schema != "" {
		params.Set("schemaName", c.profile.Schema)
	}
	if c.profile.Role != "" {
		params.Set("roleName", c.profile.Role)
	}

	reqBody := loginRequest{
		Data: loginRequestData{
			AccountName:      c.profile.Account,
			LoginName:        c.profile.User,
			Password:         c.profile.Password,
			ClientAppID:      clientAppID,
			ClientAppVersion: clientAppVersion,
		},
	}

	var resp loginResponse
	status, err := c.postJSON(context.Background(), loginPath, params, reqBody, &resp)
	if err != nil {
		return core.NewConnectError(c.backend, core.ConnectNetwork, err)
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden || (status == http.StatusOK && !resp.Success) {
		return core.NewConnectError(c.backend, core.ConnectAuthRejected, errors.New(scrub(resp.Message, "login rejected")))
	}
	if status != http.StatusOK {
		return core.NewConnectError(c.backend, core.ConnectUnknown, fmt.Errorf("login returned status %d", status))
	}

	c.authorization = fmt.Sprintf("Snowflake Token=%q", resp.Data.Token)
	return nil
}

type queryRequest struct {
	SQLText    string `json:"sqlText"`
	AsyncExec  bool   `json:"asyncExec"`
	SequenceID int    `json:"sequenceId"`
	IsInternal bool   `json:"isInternal"`
}

// rowType mirrors the column metadata of a query response.
type rowType struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
	Scale    int64  `json:"scale"`
	Length   int64  `json:"length"`
}

type queryResponseData struct {
	RowType           []rowType  `json:"rowtype"`
	RowSet            [][]any    `json:"rowset"`
	RowSetBase64      string     `json:"rowsetBase64"`
	QueryResultFormat string     `json:"queryResultFormat"`
	Total             int64      `json:"total"`
	Returned          int64      `json:"returned"`
	SQLState          string     `json:"sqlState"`
	ErrorCode         string     `json:"errorCode"`
}

type queryResponse struct {
	Data    queryResponseData `json:"data"`
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Code    string            `json:"code"`
}

// query submits a statement and returns the raw response. Transport
// failures and rejected statements map onto distinct error kinds so the
// benchmark runner can tell retryable from fatal.
func (c *restClient) query(ctx context.Context, sqlText string) (*queryResponse, error) {
	params := url.Values{}
	params.Set("requestId", uuid.New().String())

	reqBody := queryRequest{
		SQLText:    sqlText,
		AsyncExec:  false,
		SequenceID: 1,
	}

	var resp queryResponse
	status, err := c.postJSON(ctx, queryPath, params, reqBody, &resp)
	if err != nil {
		kind := core.ExecTransport
		if ctx.Err() != nil {
			kind = core.ExecCanceled
		}
		return nil, core.NewExecError(c.backend, kind, err)
	}
	if status != http.StatusOK {
		return nil, core.NewExecError(c.backend, core.ExecTransport, fmt.Errorf("query returned status %d", status))
	}
	if !resp.Success {
		return nil, core.NewExecError(c.backend, core.ExecQueryFailed,
			fmt.Errorf("%s (code %s)", scrub(resp.Message, "statement rejected"), resp.Code))
	}

	return &resp, nil
}

// close releases the session. Password sessions log out explicitly; JWT
// sessions are stateless, so only idle transport connections are dropped.
func (c *restClient) close() {
	if !c.keyPairAuth && c.authorization != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = c.postJSON(ctx, logoutPath, nil, struct{}{}, &struct{}{})
	}
	c.httpClient.CloseIdleConnections()
}

func (c *restClient) postJSON(ctx context.Context, path string, params url.Values, in, out any) (int, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", clientAppID+"/"+clientAppVersion)
	if c.authorization != "" {
		req.Header.Set("Authorization", c.authorization)
		if c.keyPairAuth {
			req.Header.Set("X-Snowflake-Authorization-Token-Type", "KEYPAIR_JWT")
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, classifyNetErr(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

func classifyNetErr(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("request timed out: %w", err)
	}
	return err
}

// scrub substitutes a fallback for empty server messages. Server messages
// never echo credentials, so they are safe to surface as-is.
func scrub(message, fallback string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return fallback
	}
	return message
}
