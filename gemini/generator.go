// Package gemini implements webclip.Generator using Google Gemini.
package gemini

import (
	"context"
	"errors"
	"strings"

	"github.com/fwojciec/webclip"
	"github.com/fwojciec/webclip/prompt"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Generator implements webclip.Generator at compile time.
var _ webclip.Generator = (*Generator)(nil)

// Generator implements webclip.Generator using Google Gemini.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a new Generator. An empty model selects DefaultModel.
func NewGenerator(client *genai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}
}

// GenerateItem asks the model to fill the schema from the page content.
func (g *Generator) GenerateItem(ctx context.Context, req webclip.GenerateRequest) (webclip.DraftItem, error) {
	if req.Schema == nil {
		return nil, webclip.Errorf(webclip.EINVALID, "schema required")
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: prompt.Build(req)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return nil, mapError(ctx, err)
	}

	text := responseText(result)
	if text == "" {
		return nil, webclip.Errorf(webclip.EDECODE, "gemini returned no candidates")
	}
	return prompt.Parse(text)
}

// BuildConfig returns the GenerateContentConfig for extraction calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.1)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: prompt.SystemInstruction}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}

// responseText joins the text parts of the first candidate.
func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 {
		return ""
	}
	c := result.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range c.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String())
}

func mapError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return webclip.Errorf(webclip.ENETWORK, "gemini request failed: %v", err)
	}
	switch {
	case apiErr.Code == 429:
		return webclip.Errorf(webclip.ERATELIMITED, "Rate limited. Try again later.")
	case apiErr.Code >= 500:
		return webclip.Errorf(webclip.ESERVER, "AI service unavailable (HTTP %d)", apiErr.Code)
	case apiErr.Message != "":
		return webclip.Errorf(webclip.EHTTP, "%s", apiErr.Message)
	default:
		return &webclip.HTTPError{Status: apiErr.Code}
	}
}
