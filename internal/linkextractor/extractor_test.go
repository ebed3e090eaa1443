package linkextractor

import (
	"testing"

	"github.com/aleister1102/artemis-extras/internal/config"
	"github.com/aleister1102/artemis-extras/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageURL = "https://example.com/shop/"

const samplePage = `<html>
<head>
  <link rel="stylesheet" href="/style.css">
  <script src="https://example.com/app.js"></script>
  <script>fetch('/api/items?id=7')</script>
</head>
<body>
  <a href="/products/42?ref=home#reviews">Product</a>
  <a href="https://other.com/x">External</a>
  <a href="mailto:shop@example.com">Mail</a>
  <img src="img/logo.png">
  <a href="/products/42?ref=home">Duplicate</a>
  <a href="http://example.com:8080/x">Other port</a>
</body>
</html>`

func newTestExtractor(mutate func(*config.DiscoveryConfig)) *Extractor {
	cfg := config.NewDefaultDiscoveryConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	return NewExtractor(cfg, zerolog.Nop())
}

func TestExtractor_SameHostLinksInDocumentOrder(t *testing.T) {
	links, err := newTestExtractor(func(c *config.DiscoveryConfig) { c.IncludeInlineJS = false }).
		Extract(pageURL, []byte(samplePage))
	require.NoError(t, err)

	assert.Equal(t, []models.ExtractedLink{
		{AbsoluteURL: "https://example.com/style.css", SourceTag: "link", SourceAttr: "href"},
		{AbsoluteURL: "https://example.com/app.js", SourceTag: "script", SourceAttr: "src"},
		{AbsoluteURL: "https://example.com/products/42?ref=home", SourceTag: "a", SourceAttr: "href"},
		{AbsoluteURL: "https://example.com/shop/img/logo.png", SourceTag: "img", SourceAttr: "src"},
	}, links)
}

func TestExtractor_InlineScripts(t *testing.T) {
	links, err := newTestExtractor(nil).Extract(pageURL, []byte(samplePage))
	require.NoError(t, err)

	assert.Contains(t, links, models.ExtractedLink{
		AbsoluteURL: "https://example.com/api/items?id=7",
		SourceTag:   "script",
		SourceAttr:  "inline",
	})
	// attribute links still come first
	assert.Equal(t, "https://example.com/style.css", links[0].AbsoluteURL)
}

func TestExtractor_MaxLinks(t *testing.T) {
	links, err := newTestExtractor(func(c *config.DiscoveryConfig) { c.MaxLinks = 2 }).
		Extract(pageURL, []byte(samplePage))
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com/style.css", "https://example.com/app.js"}, URLs(links))
}

func TestExtractor_AnyHost(t *testing.T) {
	links, err := newTestExtractor(func(c *config.DiscoveryConfig) {
		c.SameHostOnly = false
		c.IncludeInlineJS = false
	}).Extract(pageURL, []byte(samplePage))
	require.NoError(t, err)

	urls := URLs(links)
	assert.Contains(t, urls, "https://other.com/x")
	assert.Contains(t, urls, "http://example.com:8080/x")
	assert.NotContains(t, urls, "mailto:shop@example.com")
}

func TestExtractor_EmptyAndBrokenDocuments(t *testing.T) {
	extractor := newTestExtractor(nil)

	links, err := extractor.Extract(pageURL, nil)
	require.NoError(t, err)
	assert.Empty(t, links)

	links, err = extractor.Extract(pageURL, []byte(`<a href="/ok"><div><p>unclosed`))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/ok"}, URLs(links))
}

func TestExtractor_InvalidPageURL(t *testing.T) {
	_, err := newTestExtractor(nil).Extract("http://[::1", []byte(samplePage))
	assert.Error(t, err)
}
