package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/webclip"
	"github.com/fwojciec/webclip/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlePage = `<!DOCTYPE html>
<html>
<head>
<title>Why Go Channels Matter | Example Blog</title>
<meta property="og:title" content="Why Go Channels Matter">
<meta property="og:image" content="https://example.com/cover.png">
</head>
<body>
<nav class="site-nav"><a href="/">Home</a><a href="/archive">Archive</a></nav>
<article>
<h1>Why Go Channels Matter</h1>
<p>Channels let goroutines communicate by sharing memory through message passing rather than locks.
This paragraph is long enough that a content extractor treats it as the article body.</p>
<p>Buffered channels decouple producers from consumers, and the select statement multiplexes them.</p>
</article>
<aside>Related posts you may like</aside>
<footer>Copyright 2026 Example Blog</footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts article body", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(articlePage)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "message passing")
		assert.NotContains(t, result.ContentHTML, "site-nav")
		assert.NotContains(t, result.ContentHTML, "Copyright 2026")
	})

	t.Run("extracts metadata title", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(articlePage)

		require.NoError(t, err)
		assert.Contains(t, result.Title, "Why Go Channels Matter")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract("  ")

		require.Error(t, err)
		assert.Equal(t, webclip.EINVALID, webclip.ErrorCode(err))
	})
}
