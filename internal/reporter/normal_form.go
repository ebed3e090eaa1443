package reporter

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/aleister1102/artemis-extras/internal/models"
	"github.com/aleister1102/artemis-extras/internal/urlhandler"
	"github.com/spaolacci/murmur3"
)

// NormalForm identifies what a report is about. Two reports with equal
// normal forms describe the same problem.
type NormalForm map[string]any

// Hash returns a stable hex digest of the normal form.
func (nf NormalForm) Hash() (string, error) {
	// encoding/json sorts map keys, which makes the encoding canonical.
	encoded, err := json.Marshal(nf)
	if err != nil {
		return "", fmt.Errorf("failed to encode normal form: %w", err)
	}
	h1, h2 := murmur3.Sum128(encoded)
	return fmt.Sprintf("%016x%016x", h1, h2), nil
}

// maxDomainScore is the score of a registrable domain. Every label below it
// costs one point, down to 1.
const maxDomainScore = 5

// DomainNormalForm lower-cases domain and removes a trailing dot.
func DomainNormalForm(domain string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), ".")
}

// URLNormalForm lower-cases the scheme and host, makes the default port
// explicit and drops the fragment. Unparsable input is only trimmed and
// lower-cased.
func URLNormalForm(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return strings.ToLower(trimmed)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	withPort, err := urlhandler.AddPortToURL(u.String())
	if err != nil {
		return u.String()
	}
	return withPort
}

// TargetNormalForm picks the URL or the domain normal form depending on the
// shape of target.
func TargetNormalForm(target string) string {
	if strings.Contains(target, "://") {
		return URLNormalForm(target)
	}
	return DomainNormalForm(target)
}

// DomainScore ranks domains: the registrable domain (and its www. alias)
// scores highest, deeper subdomains lower.
func DomainScore(domain string) int {
	normalized := strings.TrimPrefix(DomainNormalForm(urlhandler.HostOf(domain)), "www.")
	if normalized == "" {
		return 1
	}
	base, err := urlhandler.GetBaseDomain(normalized)
	if err != nil {
		return 1
	}
	extraLabels := strings.Count(normalized, ".") - strings.Count(base, ".")
	return max(1, maxDomainScore-extraLabels)
}

// URLScore is the domain score of the URL host.
func URLScore(rawURL string) int {
	return DomainScore(urlhandler.HostOf(rawURL))
}

// TargetScore scores target as a URL or as a domain.
func TargetScore(target string) int {
	if strings.Contains(target, "://") {
		return URLScore(target)
	}
	return DomainScore(target)
}

// originalDomainKey is the persistent payload field carrying the domain the
// scan started from.
const originalDomainKey = "original_domain"

// TopLevelTarget is the domain a finding is attributed to: the domain the
// scan started from when known, otherwise the registrable domain of the
// result target.
func TopLevelTarget(result models.TaskResult) string {
	if original := result.PersistentString(originalDomainKey); original != "" {
		return original
	}
	host := urlhandler.HostOf(result.TargetString)
	if host == "" {
		return result.TargetString
	}
	base, err := urlhandler.GetBaseDomain(host)
	if err != nil {
		return host
	}
	return base
}
