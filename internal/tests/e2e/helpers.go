package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/DanielPopoola/coursepay/internal/adapters/handler"
	"github.com/stretchr/testify/require"
)

// TestClient wraps HTTP calls to a running coursepay server.
type TestClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response is the decoded envelope with Data left raw.
type Response struct {
	Status  int
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   *handler.APIError `json:"error"`
}

func (r *Response) Err() error {
	if r.Status < 400 {
		return nil
	}
	if r.Error == nil {
		return fmt.Errorf("status %d", r.Status)
	}
	return fmt.Errorf("status %d: %s: %s", r.Status, r.Error.Code, r.Error.Message)
}

func (c *TestClient) Do(t *testing.T, method, path, token string, body any) *Response {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := &Response{Status: resp.StatusCode}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
	}
	return out
}

func (c *TestClient) Initialize(t *testing.T, token string, req handler.InitializeRequest) (*handler.TransactionResponse, *Response) {
	resp := c.Do(t, http.MethodPost, "/api/v1/payments/initialize", token, req)
	return decodeTransaction(t, resp), resp
}

func (c *TestClient) Verify(t *testing.T, token, id string) (*handler.TransactionResponse, *Response) {
	resp := c.Do(t, http.MethodPost, "/api/v1/payments/"+id+"/verify", token, handler.VerifyRequest{})
	return decodeTransaction(t, resp), resp
}

func (c *TestClient) Refund(t *testing.T, token, id, reason string) (*handler.TransactionResponse, *Response) {
	resp := c.Do(t, http.MethodPost, "/api/v1/payments/"+id+"/refund", token, handler.RefundRequest{Reason: reason})
	return decodeTransaction(t, resp), resp
}

func (c *TestClient) Get(t *testing.T, token, id string) (*handler.TransactionResponse, *Response) {
	resp := c.Do(t, http.MethodGet, "/api/v1/payments/"+id, token, nil)
	return decodeTransaction(t, resp), resp
}

func (c *TestClient) List(t *testing.T, token, query string) (*handler.TransactionListResponse, *Response) {
	resp := c.Do(t, http.MethodGet, "/api/v1/payments"+query, token, nil)
	if resp.Err() != nil {
		return nil, resp
	}
	var list handler.TransactionListResponse
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	return &list, resp
}

func decodeTransaction(t *testing.T, resp *Response) *handler.TransactionResponse {
	if resp.Err() != nil {
		return nil
	}
	var tx handler.TransactionResponse
	require.NoError(t, json.Unmarshal(resp.Data, &tx))
	return &tx
}
