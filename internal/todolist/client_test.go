package todolist

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tododaemon/internal/auth"
	"tododaemon/internal/testing/mock"
)

func testToken() *auth.AccessToken {
	return &auth.AccessToken{Value: auth.NewRedactedToken("secret"), Type: "Bearer", Resource: "api://todo"}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := NewClient(server.URL+"/", WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return c
}

func TestNewClient_InvalidAddress(t *testing.T) {
	for _, addr := range []string{"", "localhost:8080", "://bad", "/relative"} {
		_, err := NewClient(addr)
		assert.Error(t, err, "address %q", addr)
	}
}

func TestCreateItem_StatusCodes(t *testing.T) {
	tests := []struct {
		status  int
		success bool
		reason  string
	}{
		{http.StatusOK, true, ""},
		{http.StatusCreated, true, ""},
		{http.StatusNoContent, true, ""},
		{299, true, ""},
		{http.StatusMultipleChoices, false, "Multiple Choices"},
		{http.StatusUnauthorized, false, "Unauthorized"},
		{http.StatusInternalServerError, false, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			err := c.CreateItem(context.Background(), testToken(), "title")
			if tt.success {
				assert.NoError(t, err)
				return
			}

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "create", apiErr.Op)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.reason, apiErr.Reason)
			assert.True(t, IsAPIError(err))
		})
	}
}

func TestCreateItem_Request(t *testing.T) {
	var got *http.Request
	var title string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got = r
		title = r.PostFormValue("Title")
		w.WriteHeader(http.StatusCreated)
	})
	c.newID = func() string { return "request-1" }

	require.NoError(t, c.CreateItem(context.Background(), testToken(), "Task at time: now & then"))

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/todolist", got.URL.Path)
	assert.Equal(t, "application/x-www-form-urlencoded", got.Header.Get("Content-Type"))
	assert.Equal(t, "Bearer secret", got.Header.Get("Authorization"))
	assert.Equal(t, "request-1", got.Header.Get(RequestIDHeader))
	assert.Equal(t, "Task at time: now & then", title)
}

func TestListItems_PreservesOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"Title":"A"},{"Title":"B"}]`)
	})

	items, err := c.ListItems(context.Background(), testToken())
	require.NoError(t, err)
	assert.Equal(t, []Item{{Title: "A"}, {Title: "B"}}, items)
}

func TestListItems_Failures(t *testing.T) {
	t.Run("reason phrase", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := c.ListItems(context.Background(), testToken())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "list", apiErr.Op)
		assert.Equal(t, "Service Unavailable", apiErr.Reason)
		assert.EqualError(t, err, "list failed: 503 Service Unavailable")
	})

	t.Run("malformed body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"Title":`)
		})

		_, err := c.ListItems(context.Background(), testToken())
		require.Error(t, err)
		assert.False(t, IsAPIError(err))
	})

	t.Run("transport error", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		c, err := NewClient(server.URL)
		require.NoError(t, err)
		server.Close()

		_, err = c.ListItems(context.Background(), testToken())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list request failed")
		assert.False(t, IsAPIError(err))
	})
}

func TestClient_RequiresToken(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	assert.Error(t, c.CreateItem(context.Background(), nil, "title"))
	_, err := c.ListItems(context.Background(), &auth.AccessToken{Type: "Bearer"})
	assert.Error(t, err)
	assert.Zero(t, calls)
}

func TestClient_AgainstTodoServer(t *testing.T) {
	server := mock.NewTodoServer()
	defer server.Close()

	c, err := NewClient(server.URL())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.CreateItem(ctx, testToken(), "first"))
	require.NoError(t, c.CreateItem(ctx, testToken(), "second"))

	items, err := c.ListItems(ctx, testToken())
	require.NoError(t, err)
	assert.Equal(t, []Item{{Title: "first"}, {Title: "second"}}, items)

	calls := server.Calls()
	require.Len(t, calls, 3)
	seen := make(map[string]bool)
	for _, call := range calls {
		assert.Equal(t, "secret", call.Token)
		assert.NotEmpty(t, call.RequestID)
		seen[call.RequestID] = true
	}
	assert.Len(t, seen, 3)
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(&APIError{Op: "list", StatusCode: http.StatusUnauthorized}))
	assert.True(t, IsUnauthorized(fmt.Errorf("iteration 2: %w", &APIError{Op: "create", StatusCode: http.StatusUnauthorized})))
	assert.False(t, IsUnauthorized(&APIError{Op: "list", StatusCode: http.StatusForbidden}))
	assert.False(t, IsUnauthorized(fmt.Errorf("connection refused")))
	assert.False(t, IsUnauthorized(nil))
}
