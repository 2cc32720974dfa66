package pipeline_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/webclip"
	"github.com/fwojciec/webclip/docstore"
	webhttp "github.com/fwojciec/webclip/http"
	"github.com/fwojciec/webclip/mock"
	"github.com/fwojciec/webclip/pipeline"
	"github.com/fwojciec/webclip/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_ShareToDocumentStore(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var createBody, blocksBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "space", r.Header.Get("X-Space-Id"))
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")

		mu.Lock()
		defer mu.Unlock()
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/collections":
			_, _ = w.Write([]byte(`{"items":[{"id":"c1","name":"Reading","itemCount":0}]}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/collections/c1/schema":
			_, _ = w.Write([]byte(`{
				"contentPropDetails":{"key":"title","name":"Title"},
				"properties":[{"key":"status","name":"Status","type":"singleSelect","options":["Todo","Done"]}]
			}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/collections/c1/items":
			createBody = string(body)
			_, _ = w.Write([]byte(`{"items":[{"id":"item-9"}]}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/blocks":
			blocksBody = string(body)
			_, _ = w.Write([]byte(`{}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	exec := webhttp.NewExecutor(webhttp.WithSleep(func(context.Context, time.Duration) error { return nil }))
	gen := &mock.Generator{GenerateItemFn: func(_ context.Context, req webclip.GenerateRequest) (webclip.DraftItem, error) {
		require.NotNil(t, req.Schema)
		assert.Equal(t, "title", req.Schema.ContentKey)
		return prompt.Parse(`{"title":"Foo","status":"todo"}`)
	}}
	p := &pipeline.Pipeline{
		Collections: docstore.NewClient(exec, server.URL+"/api/v1/", "tok", "space"),
		Fetcher: &mock.Fetcher{FetchFn: func(context.Context, string) (string, error) {
			return `<html><head><meta property="og:image" content="https://example.com/i.png"></head><body>x</body></html>`, nil
		}},
		Generator: gen,
		SourceURL: pageURL,
	}
	t.Cleanup(func() { _ = p.Close() })

	require.NoError(t, p.Start())
	require.Equal(t, pipeline.Idle, wait(t, p).State)
	require.NoError(t, p.Select("c1", ""))
	require.Equal(t, pipeline.Editing, wait(t, p).State)
	require.NoError(t, p.Save())
	snap := wait(t, p)

	require.Equal(t, pipeline.Done, snap.State, snap.Err)
	assert.Equal(t, "item-9", snap.ItemID)

	mu.Lock()
	defer mu.Unlock()
	assert.JSONEq(t, `{"items":[{"title":"Foo","properties":{"status":"Todo"}}]}`, createBody)

	var blocks struct {
		Blocks []struct {
			Type string `json:"type"`
			URL  string `json:"url"`
		} `json:"blocks"`
		Position struct {
			Position string `json:"position"`
			PageID   string `json:"pageId"`
		} `json:"position"`
	}
	require.NoError(t, json.Unmarshal([]byte(blocksBody), &blocks))
	require.Len(t, blocks.Blocks, 2)
	assert.Equal(t, "richUrl", blocks.Blocks[0].Type)
	assert.Equal(t, pageURL, blocks.Blocks[0].URL)
	assert.Equal(t, "image", blocks.Blocks[1].Type)
	assert.Equal(t, "https://example.com/i.png", blocks.Blocks[1].URL)
	assert.Equal(t, "item-9", blocks.Position.PageID)
	assert.Equal(t, "end", blocks.Position.Position)
}
