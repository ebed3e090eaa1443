// Package injection turns a crawled URL into the single-point injection
// candidates a blind SQL injection scanner probes: one candidate per query
// parameter value and one per clean-URL path segment, each carrying the
// value the marker replaced.
package injection

import (
	"cmp"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Marker is the literal injection marker understood by sqlmap-style scanners.
const Marker = "*"

// placeholderBase is alphanumeric so neither query nor path encoding touches it.
const placeholderBase = "ARTEMISINJECTIONPOINT"

// Candidate is a URL with exactly one position replaced by Marker, paired
// with the text that occupied that position.
type Candidate struct {
	URL           string `json:"url"`
	OriginalValue string `json:"original_value"`
}

func parseTarget(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, newMalformedURLError(rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, newMalformedURLError(rawURL, errMissingSchemeOrHost)
	}
	return u, nil
}

// substituteMarker serializes a URL with a placeholder at the injection point
// and swaps the placeholder for a raw Marker afterwards, so encoders never
// see the asterisk. build must place token exactly once.
func substituteMarker(build func(token string) string) string {
	token := placeholderBase
	for i := 0; ; i++ {
		serialized := build(token)
		if strings.Count(serialized, token) == 1 {
			return strings.Replace(serialized, token, Marker, 1)
		}
		// The URL itself contains the token text; pick another one.
		token = placeholderBase + strconv.Itoa(i)
	}
}

// escapedMarker is Marker as it must appear outside the injection point.
const escapedMarker = "%2A"

func escapeMarker(s string) string {
	return strings.ReplaceAll(s, Marker, escapedMarker)
}

// withoutMarkers copies u with every literal Marker already present in the
// path, query or fragment percent-encoded, so the only raw Marker in a
// candidate is the one substituteMarker places.
func withoutMarkers(u *url.URL) *url.URL {
	clone := *u
	if strings.Contains(u.EscapedPath(), Marker) {
		clone.RawPath = escapeMarker(u.EscapedPath())
	}
	clone.RawQuery = escapeMarker(u.RawQuery)
	if strings.Contains(u.EscapedFragment(), Marker) {
		clone.RawFragment = escapeMarker(u.EscapedFragment())
	}
	return &clone
}

func dedupAndSort(candidates []Candidate) []Candidate {
	seen := make(map[Candidate]struct{}, len(candidates))
	unique := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, exists := seen[c]; exists {
			continue
		}
		seen[c] = struct{}{}
		unique = append(unique, c)
	}

	slices.SortFunc(unique, func(a, b Candidate) int {
		if c := cmp.Compare(a.URL, b.URL); c != 0 {
			return c
		}
		return cmp.Compare(a.OriginalValue, b.OriginalValue)
	})
	return unique
}
