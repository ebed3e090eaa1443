package urlhandler

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "adds scheme", input: "example.com/path", expected: "http://example.com/path"},
		{name: "lowercases host", input: "HTTPS://Example.COM/Path", expected: "https://example.com/Path"},
		{name: "drops fragment", input: "https://example.com/a#frag", expected: "https://example.com/a"},
		{name: "keeps query", input: " https://example.com/?q=1 ", expected: "https://example.com/?q=1"},
		{name: "empty", input: "   ", wantErr: true},
		{name: "no host", input: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveURL(t *testing.T) {
	base, err := url.Parse("https://example.com/dir/page.html")
	require.NoError(t, err)

	got, err := ResolveURL("../other?x=1#top", base)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/other?x=1", got)

	got, err = ResolveURL("//cdn.example.net/app.js", base)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.net/app.js", got)

	_, err = ResolveURL("relative", nil)
	assert.Error(t, err)

	_, err = ResolveURL("  ", base)
	assert.Error(t, err)
}

func TestGetBaseDomain(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"www.example.com", "example.com"},
		{"a.b.example.co.uk", "example.co.uk"},
		{"Example.COM.", "example.com"},
		{"shop.example.com:8443", "example.com"},
		{"localhost", "localhost"},
		{"10.0.0.1", "10.0.0.1"},
		{"co.uk", "co.uk"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := GetBaseDomain(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := GetBaseDomain("")
	assert.Error(t, err)
}

func TestAddPortToURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"http://example.com/a?id=1", "http://example.com:80/a?id=1"},
		{"https://example.com", "https://example.com:443"},
		{"https://example.com:8443/x", "https://example.com:8443/x"},
		{"gopher://example.com/", "gopher://example.com/"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := AddPortToURL(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractHostnameWithPort(t *testing.T) {
	got, err := ExtractHostnameWithPort("https://Example.com/path")
	require.NoError(t, err)
	assert.Equal(t, "example.com:443", got)

	got, err = ExtractHostnameWithPort("http://example.com:8080")
	require.NoError(t, err)
	assert.Equal(t, "example.com:8080", got)

	_, err = ExtractHostnameWithPort("")
	assert.Error(t, err)
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "example.com", HostOf("https://Example.com:8443/x"))
	assert.Equal(t, "10.0.0.1", HostOf("10.0.0.1:5900"))
	assert.Equal(t, "example.com", HostOf("EXAMPLE.com"))
}

func TestSameNetloc(t *testing.T) {
	a, _ := url.Parse("https://example.com:8080/a")
	b, _ := url.Parse("http://EXAMPLE.com:8080/b")
	c, _ := url.Parse("https://example.com/c")
	assert.True(t, SameNetloc(a, b))
	assert.False(t, SameNetloc(a, c))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "example.com_path_a_1", SanitizeFilename("https://example.com/path?a=1"))
	assert.Equal(t, "sanitized_empty_input", SanitizeFilename("https://"))
}

func TestReadURLsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "targets.txt")
	content := "https://a.example.com/\n\n# comment\nb.example.com/x\nhttp://\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	urls, err := ReadURLsFromFile(path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com/", "http://b.example.com/x"}, urls)
}

func TestReadURLsFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadURLsFromFile(filepath.Join(dir, "missing.txt"), zerolog.Nop())
	assert.True(t, errors.Is(err, ErrFileNotFound))

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = ReadURLsFromFile(empty, zerolog.Nop())
	assert.True(t, errors.Is(err, ErrFileEmpty))

	invalid := filepath.Join(dir, "invalid.txt")
	require.NoError(t, os.WriteFile(invalid, []byte("http://\n   \n"), 0644))
	_, err = ReadURLsFromFile(invalid, zerolog.Nop())
	assert.True(t, errors.Is(err, ErrFileEmpty))
}

func TestReadURLs_FromReader(t *testing.T) {
	urls, err := ReadURLs(strings.NewReader("https://example.com/a\n"), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/a"}, urls)
}
