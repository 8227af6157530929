package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/nurl/pkg/buildinfo"
)

const httpTimeout = 10 * time.Second

// UserAgent identifies nurl to registries that require one (crates.io).
var UserAgent = buildinfo.UserAgent()

var (
	// ErrNotFound is returned when a repository or package doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrRateLimited is returned when the API refuses further requests.
	ErrRateLimited = errors.New("rate limited")

	// ErrEmpty is returned when an API answers successfully but without data,
	// e.g. a repository with no commits.
	ErrEmpty = errors.New("empty response")
)

// NewHTTPClient creates an HTTP client with a standard timeout for API requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// PathEscape percent-encodes each element and joins them with an encoded
// slash, producing a single path segment. GitLab addresses projects this way:
// "group/sub/owner/repo" becomes "group%2Fsub%2Fowner%2Frepo".
func PathEscape(parts ...string) string {
	escaped := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		for _, s := range strings.Split(p, "/") {
			escaped = append(escaped, url.PathEscape(s))
		}
	}
	return strings.Join(escaped, "%2F")
}

// BearerHeaders returns headers carrying token as a bearer credential, or
// just base when token is empty.
func BearerHeaders(base map[string]string, token string) map[string]string {
	headers := make(map[string]string, len(base)+1)
	for k, v := range base {
		headers[k] = v
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return headers
}
