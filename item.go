package webclip

import (
	"encoding/json"
	"strings"
)

// DraftItem maps property keys, including the content key, to draft values.
// It lives for the duration of one share operation.
type DraftItem map[string]Value

// Clone returns a shallow copy of d.
func (d DraftItem) Clone() DraftItem {
	if d == nil {
		return nil
	}
	out := make(DraftItem, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Has reports whether key holds a present, non-blank value.
func (d DraftItem) Has(key string) bool {
	v, ok := d[key]
	if !ok || v.IsAbsent() {
		return false
	}
	if s, isStr := v.Str(); isStr {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// ParseDraftItem decodes a JSON object into a DraftItem.
func ParseDraftItem(data []byte) (DraftItem, error) {
	var item DraftItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, Errorf(EDECODE, "expected a JSON object")
	}
	return item, nil
}

// SanitizedItem is a DraftItem whose values conform to its schema.
type SanitizedItem map[string]Value

// Only returns the subset of s whose keys are listed.
func (s SanitizedItem) Only(keys []string) SanitizedItem {
	out := make(SanitizedItem, len(keys))
	for _, k := range keys {
		if v, ok := s[k]; ok && !v.IsAbsent() {
			out[k] = v
		}
	}
	return out
}
