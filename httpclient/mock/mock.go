package mock

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/tarmac-project/fixtures/httpclient"
)

// Client implements httpclient.Client with configurable responses and call
// recording. It never performs network I/O and is safe for concurrent use.
type Client struct {
	mu sync.Mutex

	// responses maps "METHOD URL" keys to predefined responses.
	responses map[string]*Response

	defaultResponse *Response
	calls           []Call
}

// Response describes a synthetic HTTP response.
type Response struct {
	// StatusCode is the HTTP status code to return.
	StatusCode int
	// Status is the HTTP status text to return.
	Status string
	// Body is the raw payload returned to callers.
	Body []byte
	// Header holds headers to include in the response.
	Header http.Header
	// Error, when set, is returned instead of a response.
	Error error
}

// Call captures a single client operation issued through the mock.
type Call struct {
	Method string
	URL    string
	Body   []byte
	Header http.Header
}

// Config controls construction of a Client.
type Config struct {
	// DefaultResponse is used when no specific response has been configured.
	// Nil means 200 OK with an empty JSON object.
	DefaultResponse *Response
}

// New creates a new mock HTTP client.
func New(config Config) *Client {
	def := config.DefaultResponse
	if def == nil {
		def = &Response{
			StatusCode: http.StatusOK,
			Status:     "OK",
			Body:       []byte(`{}`),
		}
	}
	if def.Header == nil {
		def.Header = make(http.Header)
	}

	return &Client{
		responses:       make(map[string]*Response),
		defaultResponse: def,
	}
}

// On starts configuration of a response for a given method and URL.
func (m *Client) On(method, url string) *ResponseBuilder {
	return &ResponseBuilder{client: m, key: method + " " + url}
}

// Calls returns a copy of the recorded calls.
func (m *Client) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// Get records and returns the configured response for a GET request.
func (m *Client) Get(url string) (*httpclient.Response, error) {
	return m.record(Call{Method: http.MethodGet, URL: url})
}

// Put records and returns the configured response for a PUT request.
func (m *Client) Put(url, contentType string, body io.Reader) (*httpclient.Response, error) {
	b, err := readAll(body)
	if err != nil {
		return nil, err
	}
	return m.record(Call{
		Method: http.MethodPut,
		URL:    url,
		Body:   b,
		Header: http.Header{"Content-Type": []string{contentType}},
	})
}

// Do records and returns the configured response for an arbitrary request.
func (m *Client) Do(req *httpclient.Request) (*httpclient.Response, error) {
	if req == nil {
		return nil, httpclient.ErrNilRequest
	}
	if req.URL == nil {
		return nil, httpclient.ErrInvalidURL
	}
	var body io.Reader
	if req.Body != nil {
		defer func() { _ = req.Body.Close() }()
		body = req.Body
	}
	b, err := readAll(body)
	if err != nil {
		return nil, err
	}
	return m.record(Call{
		Method: req.Method,
		URL:    req.URL.String(),
		Body:   b,
		Header: req.Header,
	})
}

var _ httpclient.Client = (*Client)(nil)

func (m *Client) record(c Call) (*httpclient.Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	resp, ok := m.responses[c.Method+" "+c.URL]
	if !ok {
		resp = m.defaultResponse
	}
	m.mu.Unlock()

	if resp.Error != nil {
		return nil, resp.Error
	}
	return toResponse(resp), nil
}

// toResponse converts a mock Response into an httpclient.Response with copied headers.
func toResponse(r *Response) *httpclient.Response {
	resp := &httpclient.Response{
		StatusCode: r.StatusCode,
		Status:     r.Status,
		Header:     r.Header.Clone(),
	}
	if resp.Header == nil {
		resp.Header = make(http.Header)
	}
	if len(r.Body) > 0 {
		resp.Body = io.NopCloser(bytes.NewReader(r.Body))
	}
	return resp
}

func readAll(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(httpclient.ErrReadBody, err)
	}
	return b, nil
}

// ResponseBuilder configures a response for a specific method and URL.
type ResponseBuilder struct {
	client *Client
	key    string
}

// Return sets the response for the configured method and URL.
func (r *ResponseBuilder) Return(response *Response) *Client {
	if response.Header == nil {
		response.Header = make(http.Header)
	}
	r.client.mu.Lock()
	r.client.responses[r.key] = response
	r.client.mu.Unlock()
	return r.client
}

// ReturnError configures an error for the configured method and URL.
func (r *ResponseBuilder) ReturnError(err error) *Client {
	return r.Return(&Response{Error: err})
}
