package bokun

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRoundTripper allows us to mock the HTTP response
type MockRoundTripper func(req *http.Request) *http.Response

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

type MockRoundTripperWithError func(req *http.Request) (*http.Response, error)

func (f MockRoundTripperWithError) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func testOptions() Options {
	return Options{
		BaseURL:   "https://api.bokun.test/",
		AccessKey: "access",
		SecretKey: "secret",
	}
}

func newTestClient(rt http.RoundTripper) *Client {
	c := NewClient(testOptions(), &http.Client{Transport: rt}, nil)
	c.now = func() time.Time { return fixedNow }
	return c
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func readBody(t *testing.T, req *http.Request) string {
	t.Helper()
	if req.Body == nil {
		return ""
	}
	b, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	return string(b)
}

func TestSign(t *testing.T) {
	got := Sign("2024-01-02 03:04:05", "access", "get", "/activity.json/42?currency=USD", "secret")
	assert.Equal(t, "TxNb/QCDLRAV9J3eCtFGe5m7ZZc=", got)

	post := Sign("2024-01-02 03:04:05", "access", "POST", "/activity.json/search", "secret")
	assert.Equal(t, "SI0msayy7imucmPYKVtGt9UnnC4=", post)
}

func TestClient_SignedHeaders(t *testing.T) {
	t.Run("GET without body", func(t *testing.T) {
		c := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, "https://api.bokun.test/activity.json/42?currency=USD", req.URL.String())
			assert.Equal(t, "2024-01-02 03:04:05", req.Header.Get("X-Bokun-Date"))
			assert.Equal(t, "access", req.Header.Get("X-Bokun-AccessKey"))
			assert.Equal(t, "TxNb/QCDLRAV9J3eCtFGe5m7ZZc=", req.Header.Get("X-Bokun-Signature"))
			assert.Equal(t, "application/json", req.Header.Get("Accept"))
			assert.Empty(t, req.Header.Get("Content-Type"))
			assert.Empty(t, req.Header.Get("X-Octo-Token"))
			return jsonResponse(http.StatusOK, `{}`)
		}))

		_, err := c.send(context.Background(), "details", http.MethodGet, "/activity.json/42?currency=USD", nil)
		require.NoError(t, err)
	})

	t.Run("POST with body and octo token", func(t *testing.T) {
		opts := testOptions()
		opts.OctoToken = "octo"
		c := NewClient(opts, &http.Client{Transport: MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "SI0msayy7imucmPYKVtGt9UnnC4=", req.Header.Get("X-Bokun-Signature"))
			assert.Equal(t, "application/json; charset=utf-8", req.Header.Get("Content-Type"))
			assert.Equal(t, "octo", req.Header.Get("X-Octo-Token"))
			assert.JSONEq(t, `{"page":0,"pageSize":10}`, readBody(t, req))
			return jsonResponse(http.StatusOK, `[]`)
		})}, nil)
		c.now = func() time.Time { return fixedNow }

		_, err := c.send(context.Background(), "search", http.MethodPost, "/activity.json/search", map[string]int{"page": 0, "pageSize": 10})
		require.NoError(t, err)
	})
}

func TestClient_NotConfigured(t *testing.T) {
	calls := 0
	rt := MockRoundTripper(func(req *http.Request) *http.Response {
		calls++
		return jsonResponse(http.StatusOK, `{}`)
	})

	for name, opts := range map[string]Options{
		"missing base url":   {AccessKey: "a", SecretKey: "s"},
		"blank access key":   {BaseURL: "https://x", AccessKey: "  ", SecretKey: "s"},
		"missing secret key": {BaseURL: "https://x", AccessKey: "a"},
	} {
		t.Run(name, func(t *testing.T) {
			c := NewClient(opts, &http.Client{Transport: rt}, nil)
			ctx := context.Background()

			_, err := c.ListPackages(ctx, 0, 10)
			assert.ErrorIs(t, err, ErrNotConfigured)
			_, err = c.GetPackageDetails(ctx, "1")
			assert.ErrorIs(t, err, ErrNotConfigured)
			_, err = c.GetAvailability(ctx, "1", AvailabilityQuery{})
			assert.ErrorIs(t, err, ErrNotConfigured)
			_, err = c.GetCheckoutOptions(ctx, CheckoutSelection{})
			assert.ErrorIs(t, err, ErrNotConfigured)
			_, err = c.SubmitCheckout(ctx, CheckoutSubmitRequest{})
			assert.ErrorIs(t, err, ErrNotConfigured)
		})
	}

	assert.Zero(t, calls)
}

func TestClient_ProviderError(t *testing.T) {
	long := strings.Repeat("é", 700)
	c := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusBadRequest, long)
	}))

	_, err := c.send(context.Background(), "search", http.MethodPost, "/activity.json/search", nil)
	require.Error(t, err)

	pe, ok := AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, pe.StatusCode)
	assert.Equal(t, "Bad Request", pe.Reason)
	assert.True(t, pe.Truncated)
	assert.Equal(t, 600, len([]rune(pe.Body)))
	assert.Equal(t, long, pe.RawBody())
	assert.True(t, strings.HasSuffix(pe.Error(), "..."))
	assert.Contains(t, pe.Error(), "bokun returned 400: Bad Request. Body: ")
}

func TestClient_ShortProviderErrorNotTruncated(t *testing.T) {
	c := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusUnauthorized, `{"message":"bad signature"}`)
	}))

	_, err := c.send(context.Background(), "search", http.MethodPost, "/activity.json/search", nil)
	pe, ok := AsProviderError(err)
	require.True(t, ok)
	assert.False(t, pe.Truncated)
	assert.Equal(t, "bokun returned 401: Unauthorized. Body: {\"message\":\"bad signature\"}", pe.Error())
}

func TestClient_TransportError(t *testing.T) {
	c := newTestClient(MockRoundTripperWithError(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection reset")
	}))

	_, err := c.send(context.Background(), "search", http.MethodPost, "/activity.json/search", nil)
	require.Error(t, err)
	_, isProvider := AsProviderError(err)
	assert.False(t, isProvider)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestClient_Cancellation(t *testing.T) {
	calls := 0
	c := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
		calls++
		return jsonResponse(http.StatusOK, `[]`)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListPackages(ctx, 0, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestClient_BreakerIgnoresClientErrors(t *testing.T) {
	calls := 0
	opts := testOptions()
	opts.BreakerMaxFailures = 3
	c := NewClient(opts, &http.Client{Transport: MockRoundTripper(func(req *http.Request) *http.Response {
		calls++
		return jsonResponse(http.StatusBadRequest, `{}`)
	})}, nil)

	for i := 0; i < 8; i++ {
		_, err := c.send(context.Background(), "search", http.MethodPost, "/activity.json/search", nil)
		_, ok := AsProviderError(err)
		assert.True(t, ok)
	}
	assert.Equal(t, 8, calls)
	assert.Equal(t, gobreaker.StateClosed, c.breaker.State())
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	calls := 0
	opts := testOptions()
	opts.BreakerMaxFailures = 3
	c := NewClient(opts, &http.Client{Transport: MockRoundTripper(func(req *http.Request) *http.Response {
		calls++
		return jsonResponse(http.StatusBadGateway, `upstream down`)
	})}, nil)

	for i := 0; i < 3; i++ {
		_, err := c.send(context.Background(), "search", http.MethodPost, "/activity.json/search", nil)
		pe, ok := AsProviderError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadGateway, pe.StatusCode)
	}

	_, err := c.send(context.Background(), "search", http.MethodPost, "/activity.json/search", nil)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, calls)
}

func TestClient_BreakerIgnoresCancelledCalls(t *testing.T) {
	opts := testOptions()
	opts.BreakerMaxFailures = 3

	calls := 0
	var cancelCurrent context.CancelFunc
	c := NewClient(opts, &http.Client{Transport: MockRoundTripperWithError(func(req *http.Request) (*http.Response, error) {
		calls++
		if cancelCurrent != nil {
			cancelCurrent()
			return nil, errors.New("connection closed")
		}
		return jsonResponse(http.StatusOK, `[{"id":1,"title":"Falls walk"}]`), nil
	})}, nil)

	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancelCurrent = cancel
		_, err := c.ListPackages(ctx, 0, 10)
		assert.ErrorIs(t, err, context.Canceled)
		cancel()
	}
	cancelCurrent = nil

	assert.Equal(t, gobreaker.StateClosed, c.breaker.State())

	items, err := c.ListPackages(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 6, calls)
}

func TestClient_BreakerIgnoresDeadlines(t *testing.T) {
	opts := testOptions()
	opts.BreakerMaxFailures = 1
	c := NewClient(opts, &http.Client{Transport: MockRoundTripperWithError(func(req *http.Request) (*http.Response, error) {
		return nil, context.DeadlineExceeded
	})}, nil)

	for i := 0; i < 3; i++ {
		_, err := c.send(context.Background(), "search", http.MethodPost, "/activity.json/search", nil)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}
	assert.Equal(t, gobreaker.StateClosed, c.breaker.State())
}

func TestClient_BreakerDisabled(t *testing.T) {
	calls := 0
	c := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
		calls++
		return jsonResponse(http.StatusBadGateway, `upstream down`)
	}))
	require.Nil(t, c.breaker)

	for i := 0; i < 10; i++ {
		_, err := c.send(context.Background(), "search", http.MethodPost, "/activity.json/search", nil)
		_, ok := AsProviderError(err)
		assert.True(t, ok)
	}
	assert.Equal(t, 10, calls)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "4xx", statusLabel(newProviderError(404, "Not Found", nil)))
	assert.Equal(t, "5xx", statusLabel(newProviderError(503, "Service Unavailable", nil)))
	assert.Equal(t, "error", statusLabel(errors.New("boom")))
}
