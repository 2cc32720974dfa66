// Package meta scans raw page markup for metadata without a structural
// parse. Pages are not assumed to be well-formed.
package meta

import (
	"html"
	"regexp"
	"strings"
)

// Preview image patterns in priority order. Attribute names must follow
// whitespace so that names like data-content don't match, and a value may
// contain the other quote character.
var imagePatterns = []*regexp.Regexp{
	metaPattern(`(?:property|name)`, `og:image(?::url|:secure_url)?`),
	metaPattern(`(?:name|property)`, `twitter:image(?::src)?`),
}

// metaPattern matches a <meta> tag whose key attribute equals key, with the
// content attribute on either side of it. The value is in group 1 or 2 when
// content comes after the key, 3 or 4 when it comes before.
func metaPattern(attr, key string) *regexp.Regexp {
	const (
		open  = `<meta\s+(?:[^>]*?\s)?`
		gap   = `(?:[^>]*?\s)?`
		value = `\s*=\s*(?:"([^"]*)"|'([^']*)')`
	)
	keyed := attr + `\s*=\s*["']` + key + `["']`
	return regexp.MustCompile(`(?is)` + open + `(?:` +
		keyed + `\s` + gap + `content` + value +
		`|` +
		`content` + value + `\s` + gap + keyed +
		`)`)
}

var (
	titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	tagPattern   = regexp.MustCompile(`(?s)<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// ExtractPreviewImage returns the first Open Graph or Twitter card image URL
// found in markup, or an empty string.
func ExtractPreviewImage(markup string) string {
	for _, re := range imagePatterns {
		for _, m := range re.FindAllStringSubmatch(markup, -1) {
			for _, v := range m[1:] {
				if u := strings.TrimSpace(html.UnescapeString(v)); u != "" {
					return u
				}
			}
		}
	}
	return ""
}

// ExtractTitle returns the text of the first <title> element with any
// embedded markup removed, or an empty string.
func ExtractTitle(markup string) string {
	m := titlePattern.FindStringSubmatch(markup)
	if m == nil {
		return ""
	}
	text := tagPattern.ReplaceAllString(m[1], "")
	text = html.UnescapeString(text)
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}
