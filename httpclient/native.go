package httpclient

import (
	"bytes"
	"crypto/tls"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single NativeClient exchange when no Timeout is configured.
const DefaultTimeout = 30 * time.Second

// NativeConfig configures a NativeClient.
type NativeConfig struct {
	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
	// InsecureSkipVerify disables TLS verification.
	InsecureSkipVerify bool
	// HTTPClient overrides the underlying client, e.g. an httptest server client.
	HTTPClient *http.Client
}

// NativeClient implements Client on top of net/http.
type NativeClient struct {
	client *http.Client
}

var _ Client = (*NativeClient)(nil)

// NewNative creates a net/http backed client.
func NewNative(cfg NativeConfig) *NativeClient {
	if cfg.HTTPClient != nil {
		return &NativeClient{client: cfg.HTTPClient}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for local mock servers
	}

	return &NativeClient{client: &http.Client{Timeout: timeout, Transport: transport}}
}

// Get issues a GET to the specified URL and returns the response.
func (c *NativeClient) Get(urlStr string) (*Response, error) {
	req, err := NewRequest(http.MethodGet, urlStr, nil)
	if err != nil {
		return &Response{}, err
	}
	return c.Do(req)
}

// Put issues a PUT to the URL with the provided contentType and body.
func (c *NativeClient) Put(urlStr, contentType string, body io.Reader) (*Response, error) {
	req, err := NewRequest(http.MethodPut, urlStr, body)
	if err != nil {
		return &Response{}, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.Do(req)
}

// Do sends the request and buffers the response body.
func (c *NativeClient) Do(req *Request) (*Response, error) {
	if req == nil {
		return &Response{}, ErrNilRequest
	}
	if req.URL == nil || req.URL.Host == "" {
		return &Response{}, ErrInvalidURL
	}

	body, err := readBody(req.Body)
	if err != nil {
		return &Response{}, err
	}

	hreq, err := http.NewRequest(req.Method, req.URL.String(), bytes.NewReader(body))
	if err != nil {
		return &Response{}, errors.Join(ErrMarshalRequest, err)
	}
	for key, values := range req.Header {
		hreq.Header[key] = append([]string(nil), values...)
	}

	hresp, err := c.client.Do(hreq)
	if err != nil {
		return &Response{}, errors.Join(ErrTransport, err)
	}
	defer func() { _ = hresp.Body.Close() }()

	respBody, err := io.ReadAll(hresp.Body)
	if err != nil {
		return &Response{}, errors.Join(ErrUnmarshalResponse, err)
	}

	out := &Response{
		Status:     statusText(hresp),
		StatusCode: hresp.StatusCode,
		Header:     hresp.Header.Clone(),
	}
	if len(respBody) > 0 {
		out.Body = io.NopCloser(bytes.NewReader(respBody))
	}

	return out, nil
}

// statusText strips the numeric prefix net/http keeps in Status ("200 OK" -> "OK").
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
