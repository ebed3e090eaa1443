package injection

import "strings"

// Expand returns every query-parameter and path-segment candidate of rawURL,
// deduplicated by (URL, OriginalValue) and sorted by URL then value.
//
// Expand is pure: it does no I/O and keeps no state, so it may be called
// from any number of goroutines.
func Expand(rawURL string) ([]Candidate, error) {
	u, err := parseTarget(rawURL)
	if err != nil {
		return nil, err
	}

	candidates := append(queryCandidates(u), pathCandidates(u)...)
	return dedupAndSort(candidates), nil
}

// RootCandidate is the probe placed directly after the URL path, e.g.
// https://example.com/* for https://example.com/.
func RootCandidate(rawURL string) (string, error) {
	u, err := parseTarget(rawURL)
	if err != nil {
		return "", err
	}

	path := escapeMarker(u.EscapedPath())
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	base := withoutMarkers(u)
	return substituteMarker(func(token string) string {
		return withEscapedPath(base, path+token).String()
	}), nil
}
