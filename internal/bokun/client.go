package bokun

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tours-be/internal/logger"
	"tours-be/internal/metrics"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	headerDate      = "X-Bokun-Date"
	headerAccessKey = "X-Bokun-AccessKey"
	headerSignature = "X-Bokun-Signature"
	headerOctoToken = "X-Octo-Token"

	dateHeaderLayout = "2006-01-02 15:04:05"
)

// Options configures the provider client. BaseURL, AccessKey and SecretKey
// are required by every operation; the rest are optional.
type Options struct {
	BaseURL   string
	AccessKey string
	SecretKey string
	OctoToken string

	// RateLimit caps outbound requests per second; zero disables the limiter.
	RateLimit float64
	Burst     int

	// BreakerMaxFailures opens the circuit after that many consecutive
	// failures; zero disables the breaker.
	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

// Client talks to the provider API. It holds no per-call state and is safe
// for concurrent use.
type Client struct {
	opts       Options
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	metrics    *metrics.ProviderMetrics
	now        func() time.Time
}

// ----------------- Constructor -----------------

func NewClient(opts Options, httpClient *http.Client, m *metrics.ProviderMetrics) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	var breaker *gobreaker.CircuitBreaker
	if opts.BreakerMaxFailures > 0 {
		breaker = newBreaker(opts.BreakerMaxFailures, opts.BreakerTimeout)
	}

	return &Client{
		opts:       opts,
		httpClient: httpClient,
		limiter:    limiter,
		breaker:    breaker,
		metrics:    m,
		now:        time.Now,
	}
}

// newBreaker trips after maxFailures consecutive transport errors or 5xx
// answers. Calls aborted by their own context do not count.
func newBreaker(maxFailures uint32, timeout time.Duration) *gobreaker.CircuitBreaker {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "bokun-api",
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.L().Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// execute runs fn through the breaker when one is configured.
func (c *Client) execute(fn func() (interface{}, error)) (interface{}, error) {
	if c.breaker == nil {
		return fn()
	}
	return c.breaker.Execute(fn)
}

// Sign computes Base64(HMAC-SHA1(secretKey, date+accessKey+METHOD+pathAndQuery)).
func Sign(date, accessKey, method, pathAndQuery, secretKey string) string {
	mac := hmac.New(sha1.New, []byte(secretKey))
	mac.Write([]byte(date + accessKey + strings.ToUpper(method) + pathAndQuery))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (c *Client) ensureConfigured() error {
	if strings.TrimSpace(c.opts.BaseURL) == "" ||
		strings.TrimSpace(c.opts.AccessKey) == "" ||
		strings.TrimSpace(c.opts.SecretKey) == "" {
		return ErrNotConfigured
	}
	return nil
}

// newSignedRequest builds an authenticated request for relativePath, which
// may carry a query string. A nil body sends no content.
func (c *Client) newSignedRequest(ctx context.Context, method, relativePath string, body []byte) (*http.Request, error) {
	base := strings.TrimRight(strings.TrimSpace(c.opts.BaseURL), "/")
	target, err := url.Parse(base + relativePath)
	if err != nil {
		return nil, fmt.Errorf("invalid provider url: %w", err)
	}

	pathAndQuery := target.EscapedPath()
	if target.RawQuery != "" {
		pathAndQuery += "?" + target.RawQuery
	}

	date := c.now().UTC().Format(dateHeaderLayout)
	signature := Sign(date, c.opts.AccessKey, method, pathAndQuery, c.opts.SecretKey)

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerDate, date)
	req.Header.Set(headerAccessKey, c.opts.AccessKey)
	req.Header.Set(headerSignature, signature)
	if strings.TrimSpace(c.opts.OctoToken) != "" {
		req.Header.Set(headerOctoToken, c.opts.OctoToken)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	return req, nil
}

// clientFailure carries a 4xx answer through the breaker without counting it
// as a breaker failure.
type clientFailure struct {
	err *ProviderError
}

// send performs one signed call and returns the body of a 2xx answer.
// Non-2xx answers come back as *ProviderError.
func (c *Client) send(ctx context.Context, operation, method, relativePath string, payload any) ([]byte, error) {
	if err := c.ensureConfigured(); err != nil {
		return nil, err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("component", "bokun"),
		zap.String("operation", operation),
		zap.String("http_method", method),
		zap.String("path", relativePath),
	)

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			log.Error("failed to marshal provider request", zap.Error(err))
			return nil, fmt.Errorf("marshal %s request: %w", operation, err)
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	timer := metrics.StartTimer()
	result, err := c.execute(func() (interface{}, error) {
		req, err := c.newSignedRequest(ctx, method, relativePath, body)
		if err != nil {
			return nil, err
		}

		log.Debug("sending provider request", zap.String("access_key", logger.MaskSecret(c.opts.AccessKey)))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, withContextErr(ctx, fmt.Errorf("bokun request failed: %w", err))
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, withContextErr(ctx, fmt.Errorf("failed to read bokun response: %w", err))
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			perr := newProviderError(resp.StatusCode, reasonPhrase(resp), respBody)
			if resp.StatusCode >= http.StatusInternalServerError {
				return nil, perr
			}
			return &clientFailure{err: perr}, nil
		}
		return respBody, nil
	})

	if err != nil {
		c.metrics.ObserveRequest(operation, statusLabel(err), timer.Duration())
		if pe, ok := AsProviderError(err); ok {
			log.Warn("bokun request failed",
				zap.Int("status", pe.StatusCode),
				zap.String("body", pe.Body),
			)
		} else {
			log.Error("bokun request error", zap.Error(err))
		}
		return nil, err
	}

	if failure, ok := result.(*clientFailure); ok {
		c.metrics.ObserveRequest(operation, statusLabel(failure.err), timer.Duration())
		log.Warn("bokun request failed",
			zap.Int("status", failure.err.StatusCode),
			zap.String("body", failure.err.Body),
		)
		return nil, failure.err
	}

	c.metrics.ObserveRequest(operation, "2xx", timer.Duration())
	return result.([]byte), nil
}

// withContextErr attaches the caller's context error, if any, so an aborted
// call is recognised as such.
func withContextErr(ctx context.Context, err error) error {
	ctxErr := ctx.Err()
	if ctxErr == nil || errors.Is(err, ctxErr) {
		return err
	}
	return fmt.Errorf("%w: %w", err, ctxErr)
}

func reasonPhrase(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode)))
}

func statusLabel(err error) string {
	if pe, ok := AsProviderError(err); ok {
		return fmt.Sprintf("%dxx", pe.StatusCode/100)
	}
	return "error"
}
