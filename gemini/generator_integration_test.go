//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/webclip"
	"github.com/fwojciec/webclip/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGenerator_Integration_ReturnsContentKey(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	g := gemini.NewGenerator(client, "")
	item, err := g.GenerateItem(ctx, webclip.GenerateRequest{
		URL:         "https://go.dev/blog/go1.22",
		PageContent: "# Go 1.22 is released!\n\nPublished 6 February 2024. Today the Go team is happy to release Go 1.22.",
		Schema: &webclip.Schema{
			ContentKey: "title",
			Properties: []webclip.Property{
				{Key: "published", DisplayName: "Published", Type: webclip.PropertyDate},
			},
		},
	})

	require.NoError(t, err)
	assert.True(t, item.Has("title"))
}
