package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// Ensure Transport implements http.RoundTripper at compile time.
var _ http.RoundTripper = (*Transport)(nil)

// Transport adapts an Executor to http.RoundTripper so that SDK clients
// share its timeout, rate limit and retry policy. Unlike Do, a non-2xx
// status left after retries is returned as a response for the SDK to decode.
type Transport struct {
	Executor *Executor
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		data, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, err
		}
		req = req.Clone(req.Context())
		req.Body = io.NopCloser(bytes.NewReader(data))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		}
	}

	resp, err := t.Executor.execute(req.Context(), req)
	if err != nil {
		return nil, err
	}

	header := resp.Header
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", resp.Status, http.StatusText(resp.Status)),
		StatusCode:    resp.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: int64(len(resp.Body)),
		Request:       req,
	}, nil
}

// HTTPClient returns an *http.Client whose requests go through e.
func (e *Executor) HTTPClient() *http.Client {
	return &http.Client{Transport: &Transport{Executor: e}}
}
