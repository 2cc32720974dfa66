package webclip

// PropertyType identifies the value type of a schema property.
type PropertyType string

// Supported property types. PropertySelect is accepted as an alias of
// PropertySingleSelect because some collections report it that way.
const (
	PropertyText         PropertyType = "text"
	PropertyDate         PropertyType = "date"
	PropertySingleSelect PropertyType = "singleSelect"
	PropertySelect       PropertyType = "select"
	PropertyMultiSelect  PropertyType = "multiSelect"
	PropertyNumber       PropertyType = "number"
	PropertyURL          PropertyType = "url"
	PropertyImage        PropertyType = "image"
)

// DateLayout is the canonical date format accepted by the store.
const DateLayout = "2006-01-02"

// IsSelect reports whether t is a single-choice select type.
func (t PropertyType) IsSelect() bool {
	return t == PropertySingleSelect || t == PropertySelect
}

// Property describes one typed field of a collection schema.
type Property struct {
	Key         string       `json:"key"`
	DisplayName string       `json:"name"`
	Type        PropertyType `json:"type"`

	// Options lists the allowed values for select types.
	// Nil means the store declared no option set.
	Options []string `json:"options,omitempty"`
}

// Schema is the ordered property list of a collection plus the key of its
// primary title field. The content key is never part of Properties.
type Schema struct {
	ContentKey         string     `json:"contentKey"`
	ContentDisplayName string     `json:"contentName"`
	Properties         []Property `json:"properties"`
}

// Validate returns an error if the schema is malformed.
func (s *Schema) Validate() error {
	if s.ContentKey == "" {
		return Errorf(EINVALID, "schema content key required")
	}
	seen := make(map[string]bool, len(s.Properties))
	for _, p := range s.Properties {
		if p.Key == "" {
			return Errorf(EINVALID, "schema property key required")
		}
		if p.Key == s.ContentKey {
			return Errorf(EINVALID, "content key %q must not appear in properties", p.Key)
		}
		if seen[p.Key] {
			return Errorf(EINVALID, "duplicate schema property key %q", p.Key)
		}
		seen[p.Key] = true
	}
	return nil
}

// Property returns the property with the given key.
func (s *Schema) Property(key string) (Property, bool) {
	for _, p := range s.Properties {
		if p.Key == key {
			return p, true
		}
	}
	return Property{}, false
}

// Keys returns the content key followed by every property key in order.
func (s *Schema) Keys() []string {
	keys := make([]string, 0, len(s.Properties)+1)
	keys = append(keys, s.ContentKey)
	for _, p := range s.Properties {
		keys = append(keys, p.Key)
	}
	return keys
}
