package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/webclip"
	main "github.com/fwojciec/webclip/cmd/webclip"
	"github.com/fwojciec/webclip/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists id name and count", func(t *testing.T) {
		t.Parallel()

		collections := &mock.CollectionService{
			ListCollectionsFn: func(context.Context) ([]*webclip.Collection, error) {
				return []*webclip.Collection{
					{ID: "c1", Name: "Reading", ItemCount: 4},
					{ID: "c2", Name: "Recipes", ItemCount: 0},
				}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Collections: collections}

		err := (&main.CollectionsCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "c1  Reading  (4 items)")
		assert.Contains(t, stdout.String(), "c2  Recipes  (0 items)")
	})

	t.Run("shows message when empty", func(t *testing.T) {
		t.Parallel()

		collections := &mock.CollectionService{
			ListCollectionsFn: func(context.Context) ([]*webclip.Collection, error) {
				return nil, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Collections: collections}

		require.NoError(t, (&main.CollectionsCmd{}).Run(deps))
		assert.Contains(t, stdout.String(), "No collections")
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()

		listErr := errors.New("boom")
		collections := &mock.CollectionService{
			ListCollectionsFn: func(context.Context) ([]*webclip.Collection, error) {
				return nil, listErr
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Collections: collections}

		err := (&main.CollectionsCmd{}).Run(deps)

		assert.Equal(t, listErr, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}

func TestSchemaCmd_Run(t *testing.T) {
	t.Parallel()

	var gotID string
	collections := &mock.CollectionService{
		FetchSchemaFn: func(_ context.Context, id string) (*webclip.Schema, error) {
			gotID = id
			return &webclip.Schema{
				ContentKey:         "title",
				ContentDisplayName: "Title",
				Properties: []webclip.Property{
					{Key: "status", DisplayName: "Status", Type: webclip.PropertySingleSelect, Options: []string{"Todo", "Done"}},
					{Key: "rating", DisplayName: "Rating", Type: webclip.PropertyNumber},
				},
			}, nil
		},
	}
	stdout := &bytes.Buffer{}
	deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Collections: collections}

	err := (&main.SchemaCmd{Collection: "c1"}).Run(deps)

	require.NoError(t, err)
	assert.Equal(t, "c1", gotID)
	assert.Equal(t, "title  content  Title\n"+
		"status  singleSelect  Status  [Todo, Done]\n"+
		"rating  number  Rating\n", stdout.String())
}
