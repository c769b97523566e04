package bokun

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxErrorBody caps the diagnostic body carried by a ProviderError.
const maxErrorBody = 600

var ErrNotConfigured = errors.New("bokun configuration is missing: set BOKUN_BASE_URL, BOKUN_ACCESS_KEY, BOKUN_SECRET_KEY")

// ProviderError is a non-2xx answer from the provider.
type ProviderError struct {
	StatusCode int
	Reason     string
	Body       string
	Truncated  bool

	// full body, kept for pattern checks that must see past the cap
	raw string
}

func newProviderError(status int, reason string, body []byte) *ProviderError {
	raw := string(body)
	short, truncated := truncate(raw, maxErrorBody)
	return &ProviderError{
		StatusCode: status,
		Reason:     reason,
		Body:       short,
		Truncated:  truncated,
		raw:        raw,
	}
}

func (e *ProviderError) Error() string {
	body := e.Body
	if e.Truncated {
		body += "..."
	}
	return fmt.Sprintf("bokun returned %d: %s. Body: %s", e.StatusCode, e.Reason, body)
}

// RawBody returns the untruncated response body.
func (e *ProviderError) RawBody() string {
	if e.raw == "" {
		return e.Body
	}
	return e.raw
}

// AsProviderError unwraps err into a ProviderError if it carries one.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func truncate(s string, limit int) (string, bool) {
	if utf8.RuneCountInString(s) <= limit {
		return s, false
	}
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n == limit {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String(), true
}
