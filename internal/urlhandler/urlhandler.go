package urlhandler

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var (
	unsafeFilenameCharsRegex = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)
	multipleUnderscoresRegex = regexp.MustCompile(`_+`)
)

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ftp":   "21",
	"vnc":   "5900",
}

// NormalizeURL normalizes a URL string, ensuring it has a scheme, lowercase host, and no fragment.
func NormalizeURL(rawURL string) (string, error) {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return "", errors.New("URL is empty or only whitespace")
	}

	if !strings.Contains(trimmedURL, "://") && !strings.HasPrefix(trimmedURL, "//") {
		trimmedURL = "http://" + trimmedURL
	}

	parsedURL, err := url.Parse(trimmedURL)
	if err != nil {
		return "", fmt.Errorf("could not parse URL '%s': %w", trimmedURL, err)
	}
	if parsedURL.Host == "" {
		return "", errors.New("URL lacks a valid hostname")
	}
	if parsedURL.Scheme == "" {
		parsedURL.Scheme = "http"
	}

	parsedURL.Scheme = strings.ToLower(parsedURL.Scheme)
	parsedURL.Host = strings.ToLower(parsedURL.Host)
	parsedURL.Fragment = ""
	parsedURL.RawFragment = ""

	return parsedURL.String(), nil
}

// ResolveURL resolves a (possibly relative) URL string against a base URL.
// The returned URL is also normalized.
func ResolveURL(href string, base *url.URL) (string, error) {
	trimmedHref := strings.TrimSpace(href)
	if trimmedHref == "" {
		return "", fmt.Errorf("href is empty")
	}

	if base == nil {
		parsedHref, err := url.Parse(trimmedHref)
		if err != nil {
			return "", fmt.Errorf("error parsing base-less href '%s': %w", trimmedHref, err)
		}
		if !parsedHref.IsAbs() {
			return "", fmt.Errorf("cannot process relative URL '%s' without a base URL", trimmedHref)
		}
		return NormalizeURL(parsedHref.String())
	}

	resolved, err := base.Parse(trimmedHref)
	if err != nil {
		return "", fmt.Errorf("error resolving href '%s' with base '%s': %w", trimmedHref, base.String(), err)
	}
	return NormalizeURL(resolved.String())
}

// SameNetloc reports whether two URLs share scheme-independent host and
// port exactly as written, e.g. example.com:8080.
func SameNetloc(a, b *url.URL) bool {
	return strings.EqualFold(a.Host, b.Host)
}

// GetBaseDomain returns the registrable domain of hostname using the public
// suffix list, e.g. "example.co.uk" for "www.example.co.uk". IP addresses and
// single labels are returned unchanged.
func GetBaseDomain(hostname string) (string, error) {
	hostname = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(hostname)), ".")
	if hostname == "" {
		return "", errors.New("hostname is empty")
	}

	if host, _, err := net.SplitHostPort(hostname); err == nil {
		hostname = host
	}
	hostname = strings.Trim(hostname, "[]")

	if net.ParseIP(hostname) != nil || !strings.Contains(hostname, ".") {
		return hostname, nil
	}

	base, err := publicsuffix.EffectiveTLDPlusOne(hostname)
	if err != nil {
		// hostname is itself a public suffix
		return hostname, nil
	}
	return base, nil
}

// HostOf returns the lower-cased host (without port) of a URL, or the input
// itself when it is a bare host or host:port.
func HostOf(target string) string {
	target = strings.TrimSpace(target)
	if strings.Contains(target, "://") {
		if u, err := url.Parse(target); err == nil {
			return strings.ToLower(u.Hostname())
		}
	}
	if host, _, err := net.SplitHostPort(target); err == nil {
		return strings.ToLower(host)
	}
	return strings.ToLower(strings.Trim(target, "[]"))
}

// AddPortToURL makes the scheme's default port explicit, e.g.
// http://example.com/a becomes http://example.com:80/a. URLs that already
// carry a port, or whose scheme has no known default, are returned as is.
func AddPortToURL(rawURL string) (string, error) {
	parsedURL, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("could not parse URL '%s': %w", rawURL, err)
	}
	if parsedURL.Host == "" || parsedURL.Port() != "" {
		return parsedURL.String(), nil
	}
	port, ok := defaultPorts[strings.ToLower(parsedURL.Scheme)]
	if !ok {
		return parsedURL.String(), nil
	}
	parsedURL.Host = net.JoinHostPort(parsedURL.Hostname(), port)
	return parsedURL.String(), nil
}

// ExtractHostnameWithPort extracts hostname:port from a URL string
// For URLs without explicit port, it returns hostname:default_port (80 for http, 443 for https)
func ExtractHostnameWithPort(urlString string) (string, error) {
	if strings.TrimSpace(urlString) == "" {
		return "", fmt.Errorf("URL string is empty")
	}

	parsedURL, err := url.Parse(urlString)
	if err != nil {
		return "", fmt.Errorf("could not parse URL '%s': %w", urlString, err)
	}

	hostname := parsedURL.Hostname()
	if hostname == "" {
		return "", fmt.Errorf("URL has no hostname component: %s", urlString)
	}

	port := parsedURL.Port()
	if port == "" {
		var ok bool
		if port, ok = defaultPorts[strings.ToLower(parsedURL.Scheme)]; !ok {
			port = "80"
		}
	}

	return net.JoinHostPort(strings.ToLower(hostname), port), nil
}

// SanitizeFilename creates a safe filename string from a URL or any input string.
// It removes the protocol, replaces unsafe characters with underscores, and cleans up underscores.
func SanitizeFilename(input string) string {
	name := input
	if i := strings.Index(name, "://"); i != -1 {
		name = name[i+3:]
	}

	name = unsafeFilenameCharsRegex.ReplaceAllString(name, "_")
	name = multipleUnderscoresRegex.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")

	if name == "" {
		return "sanitized_empty_input"
	}
	return name
}

// ValidateURLFormat validates URL format using net/url parsing
func ValidateURLFormat(rawURL string) error {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return fmt.Errorf("URL is empty")
	}

	if _, err := url.ParseRequestURI(trimmedURL); err != nil {
		return fmt.Errorf("invalid URL format '%s': %w", trimmedURL, err)
	}
	return nil
}
