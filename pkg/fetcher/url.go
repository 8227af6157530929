package fetcher

import (
	"net/url"
	"strings"

	"github.com/matzehuels/nurl/pkg/errors"
)

// URL is a parsed source URL.
type URL struct {
	Raw    string // as given by the user
	Scheme string
	Host   string // host[:port]; empty for host-less URLs such as file:///x
	Path   string // without leading slash, query or fragment
}

// ParseURL parses raw into a URL. Only absolute URLs are accepted.
func ParseURL(raw string) (URL, error) {
	if err := errors.ValidateURL(raw); err != nil {
		return URL{}, err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return URL{}, errors.Wrap(errors.ErrCodeInvalidURL, err, "invalid URL %q", raw)
	}
	if u.Scheme == "" {
		return URL{}, errors.New(errors.ErrCodeInvalidURL, "invalid URL %q: missing scheme", raw)
	}
	if u.Opaque != "" {
		return URL{}, errors.New(errors.ErrCodeInvalidURL, "invalid URL %q: expected scheme://host/path", raw)
	}

	return URL{
		Raw:    raw,
		Scheme: strings.ToLower(u.Scheme),
		Host:   strings.ToLower(u.Host),
		Path:   strings.TrimPrefix(u.Path, "/"),
	}, nil
}

// Hostname returns the host without any port.
func (u URL) Hostname() string {
	if i := strings.LastIndexByte(u.Host, ':'); i >= 0 && !strings.HasSuffix(u.Host, "]") {
		return u.Host[:i]
	}
	return u.Host
}

// Segments returns the slash-separated path segments. A trailing slash
// yields a final empty segment; an empty path yields none.
func (u URL) Segments() []string {
	if u.Path == "" {
		return nil
	}
	return strings.Split(u.Path, "/")
}

// lastSegment returns the final path segment, or "".
func (u URL) lastSegment() string {
	segs := u.Segments()
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}
