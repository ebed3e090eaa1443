// Package linkextractor finds the links of an already fetched HTML page
// that point back to the same host.
package linkextractor

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/BishopFox/jsluice"
	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/artemis-extras/internal/config"
	"github.com/aleister1102/artemis-extras/internal/models"
	"github.com/aleister1102/artemis-extras/internal/urlhandler"
	"github.com/rs/zerolog"
)

// linkAttributes are read from every element, whatever its tag.
var linkAttributes = []string{"src", "href"}

// Extractor pulls same-host links out of HTML documents.
type Extractor struct {
	logger          zerolog.Logger
	maxLinks        int
	includeInlineJS bool
	sameHostOnly    bool
}

// NewExtractor creates an extractor configured by cfg.
func NewExtractor(cfg config.DiscoveryConfig, logger zerolog.Logger) *Extractor {
	return &Extractor{
		logger:          logger.With().Str("component", "LinkExtractor").Logger(),
		maxLinks:        cfg.MaxLinks,
		includeInlineJS: cfg.IncludeInlineJS,
		sameHostOnly:    cfg.SameHostOnly,
	}
}

// Extract returns the links of htmlContent resolved against pageURL, in
// document order, without fragments and without duplicates. Attribute links
// come first, then URLs found in inline scripts.
func (e *Extractor) Extract(pageURL string, htmlContent []byte) ([]models.ExtractedLink, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	collector := newLinkCollector(base, e.sameHostOnly, e.maxLinks)

	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		tag := goquery.NodeName(s)
		for _, attr := range linkAttributes {
			value, exists := s.Attr(attr)
			if !exists {
				continue
			}
			collector.add(value, tag, attr)
		}
		return !collector.full()
	})

	if e.includeInlineJS && !collector.full() {
		e.extractInlineScripts(doc, collector)
	}

	e.logger.Debug().
		Str("page_url", pageURL).
		Int("links", len(collector.links)).
		Int("rejected", collector.rejected).
		Msg("Extracted links")

	return collector.links, nil
}

// extractInlineScripts runs jsluice over <script> bodies without src.
func (e *Extractor) extractInlineScripts(doc *goquery.Document, collector *linkCollector) {
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if _, hasSrc := s.Attr("src"); hasSrc {
			return true
		}
		body := strings.TrimSpace(s.Text())
		if body == "" {
			return true
		}

		for _, found := range jsluice.NewAnalyzer([]byte(body)).GetURLs() {
			collector.add(found.URL, "script", "inline")
			if collector.full() {
				return false
			}
		}
		return true
	})
}

type linkCollector struct {
	base         *url.URL
	sameHostOnly bool
	maxLinks     int
	seen         map[string]struct{}
	links        []models.ExtractedLink
	rejected     int
}

func newLinkCollector(base *url.URL, sameHostOnly bool, maxLinks int) *linkCollector {
	return &linkCollector{
		base:         base,
		sameHostOnly: sameHostOnly,
		maxLinks:     maxLinks,
		seen:         make(map[string]struct{}),
	}
}

func (c *linkCollector) full() bool {
	return c.maxLinks > 0 && len(c.links) >= c.maxLinks
}

func (c *linkCollector) add(raw, tag, attr string) {
	if c.full() {
		return
	}

	resolved, err := urlhandler.ResolveURL(raw, c.base)
	if err != nil {
		c.rejected++
		return
	}
	parsed, err := url.Parse(resolved)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		c.rejected++
		return
	}
	if c.sameHostOnly && !urlhandler.SameNetloc(parsed, c.base) {
		c.rejected++
		return
	}

	if _, dup := c.seen[resolved]; dup {
		return
	}
	c.seen[resolved] = struct{}{}
	c.links = append(c.links, models.ExtractedLink{
		AbsoluteURL: resolved,
		SourceTag:   tag,
		SourceAttr:  attr,
	})
}

// URLs flattens links to their absolute URLs.
func URLs(links []models.ExtractedLink) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.AbsoluteURL
	}
	return out
}
