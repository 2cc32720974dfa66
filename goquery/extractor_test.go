package goquery_test

import (
	"testing"

	"github.com/fwojciec/webclip"
	"github.com/fwojciec/webclip/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("prefers main and strips noise", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Page</title><script>var x = 1;</script></head>
<body>
<nav>Top menu</nav>
<main><h1>Heading</h1><p>Body text</p><aside>Related links</aside><script>track()</script></main>
<footer>Footer text</footer>
</body></html>`

		result, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "<main>")
		assert.Contains(t, result.ContentHTML, "Body text")
		assert.NotContains(t, result.ContentHTML, "Related links")
		assert.NotContains(t, result.ContentHTML, "track()")
		assert.NotContains(t, result.ContentHTML, "Top menu")
		assert.Equal(t, "Page", result.Title)
	})

	t.Run("falls back to article then body", func(t *testing.T) {
		t.Parallel()

		result, err := goquery.NewExtractor().Extract(`<body><article><p>Story</p></article></body>`)
		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "<article>")

		result, err = goquery.NewExtractor().Extract(`<body><div><p>Loose text</p></div><footer>f</footer></body>`)
		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "Loose text")
		assert.NotContains(t, result.ContentHTML, "<footer>")
	})

	t.Run("skips empty main", func(t *testing.T) {
		t.Parallel()

		result, err := goquery.NewExtractor().Extract(`<body><main><nav>only nav</nav></main><article>Real</article></body>`)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "Real")
	})

	t.Run("reads open graph metadata", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Fallback</title>
<meta property="og:title" content="OG Title">
<meta property="og:image" content="https://example.com/og.png">
</head><body><p>x</p></body></html>`

		result, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "OG Title", result.Title)
		assert.Equal(t, "https://example.com/og.png", result.Image)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewExtractor().Extract("")

		assert.Equal(t, webclip.EINVALID, webclip.ErrorCode(err))
	})
}
