package webclip_test

import (
	"testing"

	"github.com/fwojciec/webclip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts valid schema", func(t *testing.T) {
		t.Parallel()

		s := &webclip.Schema{
			ContentKey: "title",
			Properties: []webclip.Property{
				{Key: "status", Type: webclip.PropertySingleSelect, Options: []string{"Todo", "Done"}},
				{Key: "due", Type: webclip.PropertyDate},
			},
		}

		require.NoError(t, s.Validate())
	})

	t.Run("rejects missing content key", func(t *testing.T) {
		t.Parallel()

		s := &webclip.Schema{}

		err := s.Validate()
		assert.Equal(t, webclip.EINVALID, webclip.ErrorCode(err))
	})

	t.Run("rejects content key inside properties", func(t *testing.T) {
		t.Parallel()

		s := &webclip.Schema{
			ContentKey: "title",
			Properties: []webclip.Property{{Key: "title", Type: webclip.PropertyText}},
		}

		err := s.Validate()
		assert.Equal(t, webclip.EINVALID, webclip.ErrorCode(err))
		assert.Contains(t, webclip.ErrorMessage(err), "must not appear")
	})

	t.Run("rejects duplicate keys", func(t *testing.T) {
		t.Parallel()

		s := &webclip.Schema{
			ContentKey: "title",
			Properties: []webclip.Property{
				{Key: "a", Type: webclip.PropertyText},
				{Key: "a", Type: webclip.PropertyNumber},
			},
		}

		err := s.Validate()
		assert.Contains(t, webclip.ErrorMessage(err), "duplicate")
	})
}

func TestSchema_Keys(t *testing.T) {
	t.Parallel()

	s := &webclip.Schema{
		ContentKey: "title",
		Properties: []webclip.Property{{Key: "a"}, {Key: "b"}},
	}

	assert.Equal(t, []string{"title", "a", "b"}, s.Keys())

	p, ok := s.Property("b")
	require.True(t, ok)
	assert.Equal(t, "b", p.Key)

	_, ok = s.Property("title")
	assert.False(t, ok)
}

func TestPropertyType_IsSelect(t *testing.T) {
	t.Parallel()

	assert.True(t, webclip.PropertySingleSelect.IsSelect())
	assert.True(t, webclip.PropertySelect.IsSelect())
	assert.False(t, webclip.PropertyMultiSelect.IsSelect())
}
