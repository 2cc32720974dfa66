package sanitize_test

import (
	"testing"

	"github.com/fwojciec/webclip"
	"github.com/fwojciec/webclip/sanitize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValue(t *testing.T, want webclip.Value, got webclip.Value, ok bool) {
	t.Helper()
	require.True(t, ok, "expected value to be kept")
	assert.True(t, want.Equal(got), "want %#v, got %#v", want, got)
}

func TestNumber(t *testing.T) {
	t.Parallel()

	got, ok := sanitize.Number(webclip.String(" 42.5 "))
	assertValue(t, webclip.Number(42.5), got, ok)

	got, ok = sanitize.Number(webclip.Number(7))
	assertValue(t, webclip.Number(7), got, ok)

	for _, v := range []webclip.Value{
		webclip.String("forty two"),
		webclip.String(""),
		webclip.String("NaN"),
		webclip.Strings([]string{"1"}),
		webclip.Absent,
	} {
		_, ok := sanitize.Number(v)
		assert.False(t, ok, "%#v", v)
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	options := []string{"Todo", "Done", "todo"}

	t.Run("exact match wins over case-insensitive", func(t *testing.T) {
		t.Parallel()
		got, ok := sanitize.Select(webclip.String("todo"), options)
		assertValue(t, webclip.String("todo"), got, ok)
	})

	t.Run("normalizes casing", func(t *testing.T) {
		t.Parallel()
		got, ok := sanitize.Select(webclip.String("DONE"), options)
		assertValue(t, webclip.String("Done"), got, ok)
	})

	t.Run("drops unmatched and empty", func(t *testing.T) {
		t.Parallel()
		_, ok := sanitize.Select(webclip.String("Blocked"), options)
		assert.False(t, ok)
		_, ok = sanitize.Select(webclip.String("  "), options)
		assert.False(t, ok)
		_, ok = sanitize.Select(webclip.Strings([]string{"Todo"}), options)
		assert.False(t, ok)
	})

	t.Run("nil options accept any string", func(t *testing.T) {
		t.Parallel()
		got, ok := sanitize.Select(webclip.String("Anything"), nil)
		assertValue(t, webclip.String("Anything"), got, ok)
	})

	t.Run("matches numeric options", func(t *testing.T) {
		t.Parallel()
		got, ok := sanitize.Select(webclip.Number(5), []string{"5", "10"})
		assertValue(t, webclip.String("5"), got, ok)
	})
}

func TestMultiSelect(t *testing.T) {
	t.Parallel()

	options := []string{"A", "B"}

	got, ok := sanitize.MultiSelect(webclip.Strings([]string{"a", "C"}), options)
	assertValue(t, webclip.Strings([]string{"A"}), got, ok)

	_, ok = sanitize.MultiSelect(webclip.Strings([]string{"c"}), options)
	assert.False(t, ok)

	got, ok = sanitize.MultiSelect(webclip.String("b"), options)
	assertValue(t, webclip.Strings([]string{"B"}), got, ok)

	got, ok = sanitize.MultiSelect(webclip.Strings([]string{"A", "a", "B"}), options)
	assertValue(t, webclip.Strings([]string{"A", "B"}), got, ok)

	_, ok = sanitize.MultiSelect(webclip.Strings(nil), options)
	assert.False(t, ok)
}

func TestDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"2023-10-05", "2023-10-05"},
		{"Oct 5, 2023", "2023-10-05"},
		{"October 5, 2023", "2023-10-05"},
		{"2023-10-05T14:30:00Z", "2023-10-05"},
		{"2023/10/05", "2023-10-05"},
	}
	for _, tt := range tests {
		got, ok := sanitize.Date(webclip.String(tt.in))
		assertValue(t, webclip.String(tt.want), got, ok)
	}

	for _, in := range []string{"not a date", "", "2023-13-45", "1696500000", "2023", "20231005", " 42 "} {
		_, ok := sanitize.Date(webclip.String(in))
		assert.False(t, ok, in)
	}

	_, ok := sanitize.Date(webclip.Number(20231005))
	assert.False(t, ok)
}

func TestText(t *testing.T) {
	t.Parallel()

	got, ok := sanitize.Text(webclip.String("hello"))
	assertValue(t, webclip.String("hello"), got, ok)

	got, ok = sanitize.Text(webclip.Number(3))
	assertValue(t, webclip.String("3"), got, ok)

	got, ok = sanitize.Text(webclip.Strings([]string{"a", "b"}))
	assertValue(t, webclip.String("a, b"), got, ok)

	_, ok = sanitize.Text(webclip.String(" "))
	assert.False(t, ok)
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	schema := &webclip.Schema{
		ContentKey: "title",
		Properties: []webclip.Property{
			{Key: "status", Type: webclip.PropertySingleSelect, Options: []string{"Todo", "Done"}},
			{Key: "tags", Type: webclip.PropertyMultiSelect, Options: []string{"A", "B"}},
			{Key: "published", Type: webclip.PropertyDate},
			{Key: "rating", Type: webclip.PropertyNumber},
			{Key: "link", Type: webclip.PropertyURL},
			{Key: "cover", Type: webclip.PropertyImage},
			{Key: "notes", Type: webclip.PropertyText},
		},
	}

	draft := webclip.DraftItem{
		"title":     webclip.String("Foo"),
		"status":    webclip.String("todo"),
		"tags":      webclip.Strings([]string{"c"}),
		"published": webclip.String("Oct 5, 2023"),
		"rating":    webclip.String("abc"),
		"link":      webclip.String(""),
		"cover":     webclip.String("https://example.com/c.png"),
		"notes":     webclip.Absent,
		"extra":     webclip.Number(1),
	}

	got := sanitize.Sanitize(draft, schema)

	assert.True(t, got["title"].Equal(webclip.String("Foo")))
	assert.True(t, got["status"].Equal(webclip.String("Todo")))
	assert.True(t, got["published"].Equal(webclip.String("2023-10-05")))
	assert.True(t, got["cover"].Equal(webclip.String("https://example.com/c.png")))
	assert.True(t, got["extra"].Equal(webclip.Number(1)))
	for _, k := range []string{"tags", "rating", "link", "notes"} {
		assert.NotContains(t, got, k)
	}

	assert.True(t, draft["status"].Equal(webclip.String("todo")), "draft must not be mutated")
}

func TestSanitize_NilSchemaCopiesValues(t *testing.T) {
	t.Parallel()

	got := sanitize.Sanitize(webclip.DraftItem{"x": webclip.String("y")}, nil)

	assert.True(t, got["x"].Equal(webclip.String("y")))
}
