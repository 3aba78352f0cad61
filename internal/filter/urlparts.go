package filter

import "strings"

// URL fields are derived from the raw request URL text rather than a
// parsed net/url.URL, so malformed URLs still yield values.

func stripScheme(rawURL string) string {
	if rest, ok := strings.CutPrefix(rawURL, "https://"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(rawURL, "http://"); ok {
		return rest
	}
	return rawURL
}

// urlHost returns the authority up to the first '/' with any port removed.
func urlHost(rawURL string) string {
	rest := stripScheme(rawURL)
	host, _, _ := strings.Cut(rest, "/")
	host, _, _ = strings.Cut(host, ":")
	return host
}

// urlPath returns the path without its query string, or "/" when the URL
// has no path.
func urlPath(rawURL string) string {
	rest := stripScheme(rawURL)
	i := strings.IndexByte(rest, '/')
	if i < 0 {
		return "/"
	}
	path, _, _ := strings.Cut(rest[i:], "?")
	return path
}

func urlScheme(rawURL string) string {
	switch {
	case strings.HasPrefix(rawURL, "https://"):
		return "https"
	case strings.HasPrefix(rawURL, "http://"):
		return "http"
	}
	return ""
}

// urlQuery returns everything after the first '?'.
func urlQuery(rawURL string) (string, bool) {
	_, query, ok := strings.Cut(rawURL, "?")
	return query, ok
}
