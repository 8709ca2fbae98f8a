package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New("test", srv.URL, map[string]string{"Accept": "application/json", "X-Default": "base"})
}

func TestRequestJSONResolvesForSuccessStatuses(t *testing.T) {
	for _, status := range []int{200, 201, 204, 299, 304, 399} {
		t.Run(fmt.Sprintf("status %d", status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				w.Write([]byte(`{"ok":true,"n":3}`))
			})

			var out struct {
				OK bool `json:"ok"`
				N  int  `json:"n"`
			}
			err := c.RequestJSON(context.Background(), "/x", Options{}, &out)
			require.NoError(t, err)
			// 204 and 304 carry no body over the wire.
			if status != http.StatusNoContent && status != http.StatusNotModified {
				assert.True(t, out.OK)
				assert.Equal(t, 3, out.N)
			}
		})
	}
}

func TestRequestJSONRejectsFailureStatuses(t *testing.T) {
	for _, status := range []int{400, 401, 404, 429, 500, 503} {
		t.Run(fmt.Sprintf("status %d", status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				w.Write([]byte(`{"error":"boom"}`))
			})

			var out map[string]interface{}
			err := c.RequestJSON(context.Background(), "/x", Options{}, &out)

			var reqErr *RequestError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, status, reqErr.Status)
			assert.Equal(t, http.StatusText(status), reqErr.StatusText)
			assert.Equal(t, `{"error":"boom"}`, reqErr.Body)
			assert.Nil(t, out)
		})
	}
}

func TestRequestJSONMalformedBody(t *testing.T) {
	for _, body := range []string{"{", "not json", `{"a":}`, "<html></html>"} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})

		var out map[string]interface{}
		err := c.RequestJSON(context.Background(), "/x", Options{}, &out)

		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr), "body %q", body)
		assert.NotEmpty(t, parseErr.Message)
	}
}

func TestRequestJSONEmptyBodyIsNull(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	var out map[string]interface{}
	require.NoError(t, c.RequestJSON(context.Background(), "/x", Options{}, &out))
	assert.Nil(t, out)
}

func TestRequestTextReturnsRawBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	text, err := c.RequestText(context.Background(), "/page", Options{ResponseType: Text})
	require.NoError(t, err)
	assert.Equal(t, "<html>not json</html>", text)

	var s string
	require.NoError(t, c.RequestJSON(context.Background(), "/page", Options{ResponseType: Text}, &s))
	assert.Equal(t, "<html>not json</html>", s)
}

func TestRequestJSONTextNeverParses(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>x</html>"))
	})
	opts := Options{ResponseType: Text}

	var iface interface{}
	require.NoError(t, c.RequestJSON(context.Background(), "/p", opts, &iface))
	assert.Equal(t, "<html>x</html>", iface)

	var raw []byte
	require.NoError(t, c.RequestJSON(context.Background(), "/p", opts, &raw))
	assert.Equal(t, []byte("<html>x</html>"), raw)

	require.NoError(t, c.RequestJSON(context.Background(), "/p", opts, nil))

	var wrong map[string]interface{}
	err := c.RequestJSON(context.Background(), "/p", opts, &wrong)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, parseErr.Message, "map[string]interface {}")
	assert.Nil(t, wrong)
}

func TestRequestMergesHeadersCallerWins(t *testing.T) {
	var got http.Header
	var method, path, body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		method = r.Method
		path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.Write([]byte("null"))
	})

	err := c.RequestJSON(context.Background(), "/v1/thing", Options{
		Method:  http.MethodPost,
		Headers: map[string]string{"x-default": "caller", "X-Extra": "1"},
		Body:    "a=b",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "caller", got.Get("X-Default"))
	assert.Equal(t, "1", got.Get("X-Extra"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/v1/thing", path)
	assert.Equal(t, "a=b", body)
	assert.Equal(t, "base", c.Headers["X-Default"], "defaults must not be mutated")
}

func TestRequestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New("test", url, nil)
	_, err := c.RequestText(context.Background(), "/x", Options{})

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.NotEmpty(t, netErr.StatusText)
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	err := errors.Wrap(ErrMissingCredential, "kite")
	assert.True(t, errors.Is(err, ErrMissingCredential))
	assert.False(t, errors.Is(err, ErrNotFound))
}
