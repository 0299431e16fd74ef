package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/brimdata/zavro/zqe"
)

// HTTPEngine reads http and https URIs.  Responses are streamed, so
// readers do not support ReadAt.
type HTTPEngine struct {
	client *http.Client
}

var _ Engine = (*HTTPEngine)(nil)

func NewHTTP() *HTTPEngine {
	return NewHTTPWithClient(http.DefaultClient)
}

func NewHTTPWithClient(client *http.Client) *HTTPEngine {
	return &HTTPEngine{client: client}
}

func (h *HTTPEngine) do(ctx context.Context, method string, u *URI) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return resp, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, zqe.E(zqe.NotFound, "%s: not found", u)
	}
	resp.Body.Close()
	return nil, fmt.Errorf("%s: %s", u, resp.Status)
}

func (h *HTTPEngine) Get(ctx context.Context, u *URI) (Reader, error) {
	resp, err := h.do(ctx, http.MethodGet, u)
	if err != nil {
		return nil, err
	}
	return &httpReader{ReadCloser: resp.Body, size: resp.ContentLength}, nil
}

// Size is the Content-Length of a HEAD response.
func (h *HTTPEngine) Size(ctx context.Context, u *URI) (int64, error) {
	resp, err := h.do(ctx, http.MethodHead, u)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	if resp.ContentLength < 0 {
		return 0, ErrNotSupported
	}
	return resp.ContentLength, nil
}

type httpReader struct {
	io.ReadCloser
	size int64
}

var _ Sizer = (*httpReader)(nil)

func (*httpReader) ReadAt([]byte, int64) (int, error) { return 0, ErrNotSupported }

// Size is the response Content-Length.  Chunked responses have none.
func (h *httpReader) Size() (int64, error) {
	if h.size < 0 {
		return 0, ErrNotSupported
	}
	return h.size, nil
}
