package injection

import (
	"net/url"
	"regexp"
	"slices"
	"strings"
)

// phpExtension paths are treated as file names rather than clean-URL routes.
const phpExtension = ".php"

var extensionRegex = regexp.MustCompile(`\.[A-Za-z]{2,}$`)

// chooseSeparator picks ',' only when commas strictly outnumber slashes.
func chooseSeparator(path string) string {
	if strings.Count(path, ",") > strings.Count(path, "/") {
		return ","
	}
	return "/"
}

// ExpandPathSegments returns one candidate per non-empty path segment, with
// that segment replaced by Marker and any trailing extension kept.
func ExpandPathSegments(rawURL string) ([]Candidate, error) {
	u, err := parseTarget(rawURL)
	if err != nil {
		return nil, err
	}
	return pathCandidates(u), nil
}

func pathCandidates(u *url.URL) []Candidate {
	body := strings.TrimPrefix(u.EscapedPath(), "/")
	separator := chooseSeparator(body)

	extension := extensionRegex.FindString(body)
	if extension == phpExtension {
		return nil
	}

	stem := strings.TrimSuffix(body, extension)
	if stem == "" {
		return nil
	}

	segments := strings.Split(stem, separator)
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = escapeMarker(segment)
	}
	base := withoutMarkers(u)

	var candidates []Candidate
	for i, segment := range segments {
		if segment == "" || segment == Marker {
			continue
		}
		candidateURL := substituteMarker(func(token string) string {
			marked := slices.Clone(escaped)
			marked[i] = token
			return withEscapedPath(base, "/"+strings.Join(marked, separator)+extension).String()
		})
		candidates = append(candidates, Candidate{URL: candidateURL, OriginalValue: segment})
	}
	return candidates
}

// withEscapedPath copies u with a new path given in escaped form, keeping the
// original percent-encoding of untouched segments.
func withEscapedPath(u *url.URL, escapedPath string) *url.URL {
	clone := *u
	decoded, err := url.PathUnescape(escapedPath)
	if err != nil {
		clone.Path = escapedPath
		clone.RawPath = ""
		return &clone
	}
	clone.Path = decoded
	clone.RawPath = escapedPath
	return &clone
}
