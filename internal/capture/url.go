package capture

import (
	"net/url"
	"strings"
)

// NormalizeURL reduces a posting URL to its canonical deduplication form:
// scheme and host are lowercased, the query string and fragment are stripped,
// and any trailing slash is removed. Normalization is idempotent.
func NormalizeURL(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", &ErrInvalidURL{URL: rawURL, Cause: err}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", &ErrInvalidURL{URL: rawURL}
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.RawQuery = ""
	parsed.Fragment = ""
	parsed.RawFragment = ""

	normalized := parsed.String()
	normalized = strings.TrimSuffix(normalized, "/")
	return normalized, nil
}
