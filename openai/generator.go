// Package openai implements webclip.Generator over the OpenAI chat
// completions API. It is the alternative to the gemini provider.
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fwojciec/webclip"
	"github.com/fwojciec/webclip/prompt"
	"github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = openai.GPT4oMini

var _ webclip.Generator = (*Generator)(nil)

// Generator implements webclip.Generator using OpenAI chat completions.
type Generator struct {
	client *openai.Client
	model  string
}

// NewGenerator creates a new Generator. An empty model selects DefaultModel.
func NewGenerator(client *openai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}
}

// NewClient returns a client authenticating with a bearer key. A non-empty
// baseURL replaces the public endpoint; a non-nil httpClient carries the
// requests, typically one from http.Executor.HTTPClient.
func NewClient(apiKey, baseURL string, httpClient *http.Client) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return openai.NewClientWithConfig(cfg)
}

// GenerateItem asks the model to fill the schema from the page content.
func (g *Generator) GenerateItem(ctx context.Context, req webclip.GenerateRequest) (webclip.DraftItem, error) {
	if req.Schema == nil {
		return nil, webclip.Errorf(webclip.EINVALID, "schema required")
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: prompt.SystemInstruction,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt.Build(req),
			},
		},
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, mapError(ctx, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, webclip.Errorf(webclip.EDECODE, "openai returned no choices")
	}
	return prompt.Parse(resp.Choices[0].Message.Content)
}

func mapError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status, message, body := 0, "", ""
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status, message = apiErr.HTTPStatusCode, apiErr.Message
	case errors.As(err, &reqErr):
		status, body = reqErr.HTTPStatusCode, webclip.Snippet(string(reqErr.Body), 1000)
	default:
		return webclip.Errorf(webclip.ENETWORK, "openai request failed: %v", err)
	}

	switch {
	case status == 429:
		return webclip.Errorf(webclip.ERATELIMITED, "Rate limited. Try again later.")
	case status >= 500:
		return webclip.Errorf(webclip.ESERVER, "AI service unavailable (HTTP %d)", status)
	case message != "":
		return webclip.Errorf(webclip.EHTTP, "%s", message)
	default:
		return &webclip.HTTPError{Status: status, Body: body}
	}
}
