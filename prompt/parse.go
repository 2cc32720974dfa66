package prompt

import (
	"strings"

	"github.com/fwojciec/webclip"
)

// snippetLen bounds the excerpt of unparseable model output in errors.
const snippetLen = 200

// Parse converts model output into a draft item. Markdown code fences are
// stripped; if the remainder is not a JSON object, the outermost braces are
// tried before failing with EDECODE.
func Parse(text string) (webclip.DraftItem, error) {
	cleaned := StripCodeFence(text)
	if cleaned == "" {
		return nil, webclip.Errorf(webclip.EDECODE, "model returned empty text")
	}

	item, err := webclip.ParseDraftItem([]byte(cleaned))
	if err == nil {
		return item, nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if item, err := webclip.ParseDraftItem([]byte(cleaned[start : end+1])); err == nil {
			return item, nil
		}
	}

	return nil, webclip.Errorf(webclip.EDECODE, "model output is not a JSON object: %s", webclip.Snippet(cleaned, snippetLen))
}

// StripCodeFence removes a surrounding Markdown code fence such as ```json.
func StripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			// Drop the info string ("json", "JSON", ...) on the opening line.
			if info := strings.TrimSpace(s[:nl]); !strings.ContainsAny(info, "{[") {
				s = s[nl+1:]
			}
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
