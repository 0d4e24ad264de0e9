package printify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedRequest is what the fake API saw.
type recordedRequest struct {
	Method      string
	Path        string
	RawQuery    string
	Auth        string
	ContentType string
	Body        []byte
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  http.HandlerFunc
}

func (f *fakeAPI) calls() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

// newTestClient starts a server that records every request and answers with
// handler, and returns a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *fakeAPI) {
	t.Helper()
	f := &fakeAPI{handler: handler}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawQuery:    r.URL.RawQuery,
			Auth:        r.Header.Get("Authorization"),
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		})
		f.mu.Unlock()
		f.handler(w, r)
	}))
	t.Cleanup(srv.Close)

	opts = append([]Option{WithBaseURL(srv.URL)}, opts...)
	return New("test-token", opts...), f
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New("tok")
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c = New("tok", WithBaseURL("http://localhost:9000/"))
	assert.Equal(t, "http://localhost:9000", c.BaseURL())
}

func TestTransport_SendsBearerToken(t *testing.T) {
	c, api := newTestClient(t, respond(http.StatusOK, `[]`))

	shops, err := c.Shops.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, shops)
	assert.NotNil(t, shops)

	calls := api.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodGet, calls[0].Method)
	assert.Equal(t, "/v1/shops.json", calls[0].Path)
	assert.Equal(t, "Bearer test-token", calls[0].Auth)
	assert.Empty(t, calls[0].ContentType)
	assert.Empty(t, calls[0].Body)
}

func TestTransport_StatusMapping(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		kind    error
		message string
	}{
		{
			name:    "bad request with reason",
			status:  http.StatusBadRequest,
			body:    `{"message":"Validation failed.","errors":{"reason":"title is required"}}`,
			kind:    ErrBadRequest,
			message: "Validation failed. title is required",
		},
		{
			name:    "bad request without reason",
			status:  http.StatusBadRequest,
			body:    `{"message":"nope"}`,
			kind:    ErrBadRequest,
			message: "bad request to ",
		},
		{
			name:   "forbidden",
			status: http.StatusForbidden,
			body:   `{}`,
			kind:   ErrForbidden,
		},
		{
			name:    "forbidden wins over error key",
			status:  http.StatusForbidden,
			body:    `{"error":"x"}`,
			kind:    ErrForbidden,
			message: "not permitted",
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `oops`,
			kind:    ErrServer,
			message: "bad request to ",
		},
		{
			name:    "error key on success status",
			status:  http.StatusOK,
			body:    `{"error":"Shop not found"}`,
			kind:    ErrAPI,
			message: "Shop not found",
		},
		{
			name:    "unexpected status",
			status:  http.StatusNotFound,
			body:    `{"status":"missing"}`,
			kind:    ErrAPI,
			message: "unexpected status 404",
		},
		{
			name:   "invalid json",
			status: http.StatusOK,
			body:   `{not json`,
			kind:   ErrParse,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, respond(tc.status, tc.body))

			_, err := c.Shops.List(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.kind)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.StatusCode)
			if tc.message != "" {
				assert.Contains(t, apiErr.Message, tc.message)
			}
		})
	}
}

func TestTransport_EmptyBodyIsNoContent(t *testing.T) {
	c, api := newTestClient(t, respond(http.StatusOK, ``))

	err := c.Shops.Disconnect(context.Background(), Shop{ID: 42})
	require.NoError(t, err)

	calls := api.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodDelete, calls[0].Method)
	assert.Equal(t, "/v1/shops/42/connection.json", calls[0].Path)
}

func TestTransport_JSONBodyHasContentType(t *testing.T) {
	c, api := newTestClient(t, respond(http.StatusOK, `{}`), WithShopID("7"))

	err := c.Products.Publish(context.Background(), "", "p1", DefaultPublish())
	require.NoError(t, err)

	calls := api.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "application/json", calls[0].ContentType)

	var got map[string]bool
	require.NoError(t, json.Unmarshal(calls[0].Body, &got))
	assert.True(t, got["keyFeatures"])
	assert.True(t, got["shipping_template"])
}

func TestDecode_MissingRequiredFieldIsParseError(t *testing.T) {
	c, _ := newTestClient(t, respond(http.StatusOK, `[{"id":1,"title":"Store"}]`))

	_, err := c.Shops.List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "sales_channel")
}

func TestDecode_WrongTypeIsParseError(t *testing.T) {
	c, _ := newTestClient(t, respond(http.StatusOK, `[{"id":"one","title":"Store","sales_channel":"etsy"}]`))

	_, err := c.Shops.List(context.Background())
	assert.ErrorIs(t, err, ErrParse)
}

func TestRateLimit_DoesNotBlockWithinBurst(t *testing.T) {
	c, api := newTestClient(t, respond(http.StatusOK, `[]`), WithRateLimit(60, 3))

	for i := 0; i < 3; i++ {
		_, err := c.Shops.List(context.Background())
		require.NoError(t, err)
	}
	assert.Len(t, api.calls(), 3)
}

func TestRateLimit_HonoursContext(t *testing.T) {
	c, api := newTestClient(t, respond(http.StatusOK, `[]`), WithRateLimit(1, 1))

	_, err := c.Shops.List(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Shops.List(ctx)
	require.Error(t, err)
	assert.Len(t, api.calls(), 1)
}
