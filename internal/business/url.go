package business

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	schemePattern = regexp.MustCompile(`(?i)^https?://`)
	// domainPattern matches bare domains such as "acme.com" or "www.acme.co.uk/about".
	domainPattern = regexp.MustCompile(`(?i)^([a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+[a-z]{2,}(:\d+)?([/?#]\S*)?$`)
)

// EnsureAbsoluteURL prefixes https:// to values without an http(s) scheme.
func EnsureAbsoluteURL(value string) string {
	trimmed := strings.TrimSpace(value)
	if !schemePattern.MatchString(trimmed) {
		return "https://" + trimmed
	}
	return trimmed
}

// NormalizeURL returns the canonical absolute form of a website address:
// scheme and host lower-cased and an empty path replaced by "/".
func NormalizeURL(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", &ParseError{Input: value, Message: "URL is required for extraction"}
	}

	u, err := url.Parse(EnsureAbsoluteURL(value))
	if err != nil {
		return "", &ParseError{Input: value, Message: "invalid URL", Cause: err}
	}
	if u.Host == "" || strings.ContainsAny(u.Host, " \t") {
		return "", &ParseError{Input: value, Message: "invalid URL: missing host"}
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

// LooksLikeURL reports whether free-text input is a website address rather
// than a business name.
func LooksLikeURL(input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || strings.ContainsAny(trimmed, " \t\n") {
		return false
	}
	if schemePattern.MatchString(trimmed) {
		u, err := url.Parse(trimmed)
		return err == nil && u.Host != ""
	}
	return domainPattern.MatchString(trimmed)
}

// Hostname returns the host part of an absolute URL without the port.
func Hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
