// Package sanitize coerces untyped draft values into schema-conformant
// values. Everything here is pure and performs no I/O.
package sanitize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/fwojciec/webclip"
)

var (
	canonicalDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	// dateparse reads bare digit runs as years, timestamps or YYYYMMDD.
	allDigits = regexp.MustCompile(`^\d+$`)
)

// Sanitize returns a copy of draft in which every schema property holds a
// value satisfying its type, or is absent. Keys unknown to the schema are
// copied unchanged.
func Sanitize(draft webclip.DraftItem, schema *webclip.Schema) webclip.SanitizedItem {
	out := make(webclip.SanitizedItem, len(draft))
	for k, v := range draft {
		if v.IsAbsent() {
			continue
		}
		out[k] = v
	}
	if schema == nil {
		return out
	}
	for _, p := range schema.Properties {
		v, ok := draft[p.Key]
		if !ok {
			continue
		}
		if c, ok := Coerce(p, v); ok {
			out[p.Key] = c
		} else {
			delete(out, p.Key)
		}
	}
	return out
}

// Coerce converts v to the type declared by p. It reports false when the
// key should be dropped.
func Coerce(p webclip.Property, v webclip.Value) (webclip.Value, bool) {
	if v.IsAbsent() {
		return webclip.Absent, false
	}
	switch {
	case p.Type == webclip.PropertyNumber:
		return Number(v)
	case p.Type.IsSelect():
		return Select(v, p.Options)
	case p.Type == webclip.PropertyMultiSelect:
		return MultiSelect(v, p.Options)
	case p.Type == webclip.PropertyDate:
		return Date(v)
	case p.Type == webclip.PropertyText:
		return Text(v)
	default:
		return nonEmptyString(v)
	}
}

// Number accepts numbers and numeric-looking strings.
func Number(v webclip.Value) (webclip.Value, bool) {
	if n, ok := v.Num(); ok {
		return v, finite(n)
	}
	s, ok := v.Str()
	if !ok {
		return webclip.Absent, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !finite(n) {
		return webclip.Absent, false
	}
	return webclip.Number(n), true
}

// Select matches v against options, case-sensitively first and then
// case-insensitively, returning the canonical option. A nil option set
// accepts any non-empty string.
func Select(v webclip.Value, options []string) (webclip.Value, bool) {
	var s string
	switch v.Kind() {
	case webclip.KindString, webclip.KindNumber:
		s = v.Text()
	default:
		return webclip.Absent, false
	}
	match, ok := matchOption(s, options)
	if !ok {
		return webclip.Absent, false
	}
	return webclip.String(match), true
}

// MultiSelect accepts a list of strings or a single string and keeps the
// entries that match options. An empty result is dropped.
func MultiSelect(v webclip.Value, options []string) (webclip.Value, bool) {
	var entries []string
	switch v.Kind() {
	case webclip.KindStrings:
		entries, _ = v.List()
	case webclip.KindString, webclip.KindNumber:
		entries = []string{v.Text()}
	default:
		return webclip.Absent, false
	}

	seen := make(map[string]bool, len(entries))
	kept := make([]string, 0, len(entries))
	for _, e := range entries {
		match, ok := matchOption(e, options)
		if !ok || seen[match] {
			continue
		}
		seen[match] = true
		kept = append(kept, match)
	}
	if len(kept) == 0 {
		return webclip.Absent, false
	}
	return webclip.Strings(kept), true
}

// Date accepts canonical YYYY-MM-DD strings and reformats natural-language
// dates into that form. Strings of digits alone are not dates.
func Date(v webclip.Value) (webclip.Value, bool) {
	s, ok := v.Str()
	if !ok {
		return webclip.Absent, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return webclip.Absent, false
	}
	if canonicalDate.MatchString(s) {
		if _, err := time.Parse(webclip.DateLayout, s); err == nil {
			return webclip.String(s), true
		}
		return webclip.Absent, false
	}
	if allDigits.MatchString(s) {
		return webclip.Absent, false
	}
	t, ok := parseDate(s)
	if !ok {
		return webclip.Absent, false
	}
	return webclip.String(t.Format(webclip.DateLayout)), true
}

// Text renders any present value as a non-empty string.
func Text(v webclip.Value) (webclip.Value, bool) {
	s := strings.TrimSpace(v.Text())
	if s == "" {
		return webclip.Absent, false
	}
	if _, isStr := v.Str(); isStr {
		return v, true
	}
	return webclip.String(s), true
}

func nonEmptyString(v webclip.Value) (webclip.Value, bool) {
	s, ok := v.Str()
	if !ok || strings.TrimSpace(s) == "" {
		return webclip.Absent, false
	}
	return v, true
}

func matchOption(s string, options []string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if options == nil {
		return s, true
	}
	for _, o := range options {
		if o == s {
			return o, true
		}
	}
	for _, o := range options {
		if strings.EqualFold(o, s) {
			return o, true
		}
	}
	return "", false
}

// parseDate wraps dateparse, which panics on some malformed inputs.
func parseDate(s string) (t time.Time, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
