// Package docstore implements webclip.CollectionService against the remote
// document-collection store's HTTP/JSON API.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/fwojciec/webclip"
	webhttp "github.com/fwojciec/webclip/http"
)

// Snippet bounds for decode-failure diagnostics.
const (
	listSnippetLen   = 200
	schemaSnippetLen = 500
	createSnippetLen = 200
)

// Ensure Client implements webclip.CollectionService at compile time.
var _ webclip.CollectionService = (*Client)(nil)

// Client talks to one space of the collection store. The bearer token and
// space id are sent as headers on every request and never appear in URLs.
type Client struct {
	exec    *webhttp.Executor
	baseURL string
	token   string
	spaceID string
}

// NewClient creates a new Client. If exec is nil a default Executor is used.
func NewClient(exec *webhttp.Executor, baseURL, token, spaceID string) *Client {
	if exec == nil {
		exec = webhttp.NewExecutor()
	}
	return &Client{
		exec:    exec,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		spaceID: spaceID,
	}
}

type collectionsResponse struct {
	Items *[]struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		ItemCount int    `json:"itemCount"`
	} `json:"items"`
}

// ListCollections returns every collection in the space.
func (c *Client) ListCollections(ctx context.Context) ([]*webclip.Collection, error) {
	body, err := c.do(ctx, http.MethodGet, "/collections", nil)
	if err != nil {
		return nil, err
	}

	var resp collectionsResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Items == nil {
		return nil, decodeError("collections", body, listSnippetLen)
	}

	collections := make([]*webclip.Collection, 0, len(*resp.Items))
	for _, item := range *resp.Items {
		collections = append(collections, &webclip.Collection{
			ID:        item.ID,
			Name:      item.Name,
			ItemCount: item.ItemCount,
		})
	}
	return collections, nil
}

type schemaResponse struct {
	ContentPropDetails *struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"contentPropDetails"`
	Properties []struct {
		Key     string               `json:"key"`
		Name    string               `json:"name"`
		Type    webclip.PropertyType `json:"type"`
		Options optionList           `json:"options"`
	} `json:"properties"`
}

// optionList accepts options as plain strings or as objects with a name.
type optionList []string

func (o *optionList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*o = nil
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(r, &obj); err != nil {
			return err
		}
		out = append(out, obj.Name)
	}
	*o = out
	return nil
}

// FetchSchema returns the schema of a collection.
func (c *Client) FetchSchema(ctx context.Context, collectionID string) (*webclip.Schema, error) {
	if collectionID == "" {
		return nil, webclip.Errorf(webclip.EINVALID, "collection ID required")
	}

	path := "/collections/" + url.PathEscape(collectionID) + "/schema?format=schema"
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp schemaResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.ContentPropDetails == nil || resp.ContentPropDetails.Key == "" {
		return nil, decodeError("schema", body, schemaSnippetLen)
	}

	schema := &webclip.Schema{
		ContentKey:         resp.ContentPropDetails.Key,
		ContentDisplayName: resp.ContentPropDetails.Name,
		Properties:         make([]webclip.Property, 0, len(resp.Properties)),
	}
	if schema.ContentDisplayName == "" {
		schema.ContentDisplayName = schema.ContentKey
	}
	seen := map[string]bool{schema.ContentKey: true}
	for _, p := range resp.Properties {
		// The content key and duplicates are dropped to keep the schema valid.
		if p.Key == "" || seen[p.Key] {
			continue
		}
		seen[p.Key] = true
		name := p.Name
		if name == "" {
			name = p.Key
		}
		schema.Properties = append(schema.Properties, webclip.Property{
			Key:         p.Key,
			DisplayName: name,
			Type:        p.Type,
			Options:     []string(p.Options),
		})
	}
	return schema, nil
}

type createResponse struct {
	Items []struct {
		ID string `json:"id"`
	} `json:"items"`
}

// CreateItem creates one item. The content key stays at the top level of the
// wire item and every other field moves under "properties".
func (c *Client) CreateItem(ctx context.Context, collectionID string, item webclip.SanitizedItem, contentKey string) (string, error) {
	if collectionID == "" {
		return "", webclip.Errorf(webclip.EINVALID, "collection ID required")
	}
	if contentKey == "" {
		return "", webclip.Errorf(webclip.EINVALID, "content key required")
	}

	wire := map[string]any{}
	properties := map[string]webclip.Value{}
	for k, v := range item {
		if v.IsAbsent() {
			continue
		}
		if k == contentKey {
			wire[k] = v
			continue
		}
		properties[k] = v
	}
	wire["properties"] = properties

	payload, err := json.Marshal(map[string]any{"items": []any{wire}})
	if err != nil {
		return "", err
	}

	path := "/collections/" + url.PathEscape(collectionID) + "/items"
	body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return "", err
	}

	var resp createResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", decodeError("create item", body, createSnippetLen)
	}
	if len(resp.Items) == 0 || resp.Items[0].ID == "" {
		return "", webclip.Errorf(webclip.EEMPTY, "store returned no item id")
	}
	return resp.Items[0].ID, nil
}

type block struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	Markdown string `json:"markdown,omitempty"`
}

type position struct {
	Position string `json:"position"`
	PageID   string `json:"pageId"`
}

// AppendContent appends a rich link to sourceURL and, when imageURL is
// non-empty, an image block to the end of the item's document.
func (c *Client) AppendContent(ctx context.Context, itemID, sourceURL, imageURL string) error {
	if itemID == "" {
		return webclip.Errorf(webclip.EINVALID, "item ID required")
	}

	blocks := []block{{Type: "richUrl", URL: sourceURL}}
	if strings.TrimSpace(imageURL) != "" {
		blocks = append(blocks, block{Type: "image", URL: imageURL, Markdown: "![Image](" + imageURL + ")"})
	}

	payload, err := json.Marshal(struct {
		Blocks   []block  `json:"blocks"`
		Position position `json:"position"`
	}{
		Blocks:   blocks,
		Position: position{Position: "end", PageID: itemID},
	})
	if err != nil {
		return err
	}

	_, err = c.do(ctx, http.MethodPost, "/blocks", payload)
	return err
}

// do sends an authenticated request through the executor and returns the body.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, webclip.Errorf(webclip.EINVALID, "invalid store URL: %v", err)
	}
	if payload == nil {
		req.Body = http.NoBody
		req.GetBody = nil
		req.ContentLength = 0
	} else {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Space-Id", c.spaceID)

	resp, err := c.exec.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func decodeError(what string, body []byte, n int) error {
	return webclip.Errorf(webclip.EDECODE, "unexpected %s response: %s", what, webclip.Snippet(string(body), n))
}
