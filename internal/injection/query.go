package injection

import (
	"net/url"
	"strings"
)

type queryParam struct {
	key   string
	value string
}

// parseOrderedQuery keeps parameters in order of first appearance. Only the
// first value of a repeated name is kept; blank values are kept.
func parseOrderedQuery(rawQuery string) []queryParam {
	var params []queryParam
	seen := make(map[string]struct{})

	for _, field := range strings.Split(rawQuery, "&") {
		if field == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(field, "=")
		key := unescapeQueryComponent(rawKey)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		params = append(params, queryParam{key: key, value: unescapeQueryComponent(rawValue)})
	}
	return params
}

// unescapeQueryComponent falls back to the raw text for invalid escapes.
func unescapeQueryComponent(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

func encodeQuery(params []queryParam, markedIndex int, token string) string {
	var sb strings.Builder
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.key))
		sb.WriteByte('=')
		if i == markedIndex {
			sb.WriteString(token)
		} else {
			sb.WriteString(url.QueryEscape(p.value))
		}
	}
	return sb.String()
}

// ExpandQueryParameters returns one candidate per distinct query parameter,
// with that parameter's value replaced by Marker.
func ExpandQueryParameters(rawURL string) ([]Candidate, error) {
	u, err := parseTarget(rawURL)
	if err != nil {
		return nil, err
	}
	return queryCandidates(u), nil
}

func queryCandidates(u *url.URL) []Candidate {
	params := parseOrderedQuery(u.RawQuery)
	if len(params) == 0 {
		return nil
	}

	base := withoutMarkers(u)
	candidates := make([]Candidate, 0, len(params))
	for i, p := range params {
		if p.value == Marker {
			// Already marked; the candidate would be the input itself.
			continue
		}
		candidateURL := substituteMarker(func(token string) string {
			marked := *base
			marked.RawQuery = encodeQuery(params, i, token)
			return marked.String()
		})
		candidates = append(candidates, Candidate{URL: candidateURL, OriginalValue: p.value})
	}
	return candidates
}
