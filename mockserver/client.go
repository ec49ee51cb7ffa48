package mockserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tarmac-project/fixtures/httpclient"
)

// DefaultAddress is where MockServer listens unless told otherwise.
const DefaultAddress = "localhost:1080"

// Administrative API paths.
const (
	ExpectationPath = "/mockserver/expectation"
	ResetPath       = "/mockserver/reset"
	ClearPath       = "/mockserver/clear"
	RetrievePath    = "/mockserver/retrieve"
)

var (
	// ErrNoExpectations is returned when CreateExpectation is called without expectations.
	ErrNoExpectations = errors.New("no expectations provided")

	// ErrRequestFailed wraps transport failures talking to the administrative API.
	ErrRequestFailed = errors.New("mockserver request failed")

	// ErrUnexpectedStatus is returned when the administrative API answers with a non-success status.
	ErrUnexpectedStatus = errors.New("unexpected mockserver status")

	// ErrDecodeResponse wraps failures decoding an administrative API reply.
	ErrDecodeResponse = errors.New("failed to decode mockserver response")
)

// Config controls how a Client reaches MockServer.
type Config struct {
	// Address is host:port or a full base URL. Empty means DefaultAddress.
	Address string

	// Secure selects https when Address carries no scheme.
	Secure bool

	// Transport performs the HTTP exchange. Nil means a native net/http client.
	Transport httpclient.Client
}

// Client talks to the MockServer administrative API.
type Client struct {
	base      string
	transport httpclient.Client
}

// New creates a Client with defaults applied.
func New(cfg Config) (*Client, error) {
	addr := cfg.Address
	if addr == "" {
		addr = DefaultAddress
	}
	if !strings.Contains(addr, "://") {
		scheme := "http"
		if cfg.Secure {
			scheme = "https"
		}
		addr = scheme + "://" + addr
	}

	transport := cfg.Transport
	if transport == nil {
		transport = httpclient.NewNative(httpclient.NativeConfig{})
	}

	return &Client{base: strings.TrimRight(addr, "/"), transport: transport}, nil
}

// BaseURL returns the administrative API base URL.
func (c *Client) BaseURL() string { return c.base }

// CreateExpectation registers expectations in a single request.
func (c *Client) CreateExpectation(exps ...Expectation) error {
	if len(exps) == 0 {
		return ErrNoExpectations
	}
	_, err := c.put(ExpectationPath, exps, http.StatusCreated, http.StatusOK)
	return err
}

// Reset removes every expectation and recorded request.
func (c *Client) Reset() error {
	_, err := c.put(ResetPath, nil, http.StatusOK)
	return err
}

// Clear removes the expectations and recorded requests selected by matcher.
func (c *Client) Clear(matcher *RequestMatcher) error {
	_, err := c.put(ClearPath, matcherPayload(matcher), http.StatusOK)
	return err
}

// RetrieveActiveExpectations lists active expectations, optionally filtered by matcher.
func (c *Client) RetrieveActiveExpectations(matcher *RequestMatcher) ([]Expectation, error) {
	body, err := c.put(RetrievePath+"?type=active_expectations&format=json", matcherPayload(matcher), http.StatusOK)
	if err != nil {
		return nil, err
	}

	var out []Expectation
	if len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, errors.Join(ErrDecodeResponse, err)
	}
	return out, nil
}

// put sends payload as JSON and returns the reply body when the status is one of ok.
func (c *Client) put(path string, payload any, ok ...int) ([]byte, error) {
	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Join(httpclient.ErrMarshalRequest, err)
		}
		body = b
	}

	resp, err := c.transport.Put(c.base+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}

	respBody, err := httpclient.ReadBody(resp)
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}

	for _, code := range ok {
		if resp.StatusCode == code {
			return respBody, nil
		}
	}

	detail := fmt.Sprintf("PUT %s: status %d", path, resp.StatusCode)
	if msg := strings.TrimSpace(string(respBody)); msg != "" {
		detail = fmt.Sprintf("%s: %s", detail, msg)
	}
	return nil, errors.Join(ErrUnexpectedStatus, errors.New(detail))
}

// matcherPayload keeps a nil matcher from being sent as a JSON null.
func matcherPayload(m *RequestMatcher) any {
	if m == nil {
		return nil
	}
	return m
}
