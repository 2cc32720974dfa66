// Package prompt builds schema-aware extraction prompts and parses the
// model's textual JSON output into a draft item. It is shared by every
// generative model provider.
package prompt

import (
	"fmt"
	"strings"

	"github.com/fwojciec/webclip"
)

// SystemInstruction frames the model as a structured-data extractor.
const SystemInstruction = "You extract structured records from web pages. " +
	"Respond with a single JSON object and nothing else. " +
	"Use only the keys you are given."

// Build returns the user prompt for an extraction request.
func Build(req webclip.GenerateRequest) string {
	var sb strings.Builder

	sb.WriteString("Extract a record from the web page below.\n\n")
	sb.WriteString("Fields:\n")
	if req.Schema != nil {
		contentName := req.Schema.ContentDisplayName
		if contentName == "" {
			contentName = req.Schema.ContentKey
		}
		fmt.Fprintf(&sb, "- %q (%s): text, the primary title of the page\n", req.Schema.ContentKey, contentName)
		for _, p := range req.Schema.Properties {
			writeProperty(&sb, p)
		}
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "The JSON object MUST include the key %q.\n", req.Schema.ContentKey)
	}
	sb.WriteString("Omit a field rather than guessing when the page does not support a value.\n")

	if req.SuggestedImageURL != "" {
		fmt.Fprintf(&sb, "\nSuggested image URL: %s\n", req.SuggestedImageURL)
		sb.WriteString("Place this URL into any image, url, cover or thumbnail-like field.\n")
	}

	if hints := Hints(req.URL); hints != "" {
		sb.WriteString("\nSource-specific instructions:\n")
		sb.WriteString(hints)
	}

	if g := strings.TrimSpace(req.Guidance); g != "" {
		sb.WriteString("\nUser guidance:\n")
		sb.WriteString(g)
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\nSource URL: %s\n", req.URL)
	sb.WriteString("\n<page>\n")
	sb.WriteString(Truncate(req.PageContent, webclip.MaxPromptContent))
	sb.WriteString("\n</page>\n")

	return sb.String()
}

func writeProperty(sb *strings.Builder, p webclip.Property) {
	name := p.DisplayName
	if name == "" {
		name = p.Key
	}
	fmt.Fprintf(sb, "- %q (%s): %s", p.Key, name, p.Type)
	switch {
	case p.Type == webclip.PropertyDate:
		sb.WriteString(", format YYYY-MM-DD")
	case p.Type == webclip.PropertyNumber:
		sb.WriteString(", a JSON number")
	case p.Type == webclip.PropertyMultiSelect:
		sb.WriteString(", a JSON array of strings")
	}
	if (p.Type.IsSelect() || p.Type == webclip.PropertyMultiSelect) && len(p.Options) > 0 {
		quoted := make([]string, len(p.Options))
		for i, o := range p.Options {
			quoted[i] = fmt.Sprintf("%q", o)
		}
		fmt.Fprintf(sb, ", allowed values: %s", strings.Join(quoted, ", "))
	}
	sb.WriteString("\n")
}

// Truncate returns at most n characters of s.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
