package httpclient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	fixtures "github.com/tarmac-project/fixtures"
	proto "github.com/tarmac-project/protobuf-go/sdk/http"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

const (
	capabilityName = "httpclient"
	functionName   = "call"
)

const (
	hostStatusOK       = int32(200)
	hostStatusPartial  = int32(206)
	hostStatusBadInput = int32(400)
	hostStatusMissing  = int32(404)
	hostStatusError    = int32(500)
)

// Config configures the host-backed client.
//
// SDKConfig supplies the namespace used when making waPC host calls; an empty
// Namespace defaults to fixtures.DefaultNamespace. HostCall allows tests to
// inject a custom host function; when nil, the client uses wapc.HostCall.
type Config struct {
	// SDKConfig provides the runtime namespace for host calls.
	SDKConfig fixtures.RuntimeConfig
	// InsecureSkipVerify disables TLS verification when supported by the host.
	InsecureSkipVerify bool
	// HostCall overrides the waPC host function used for requests.
	HostCall func(string, string, string, []byte) ([]byte, error)
}

// HostClient implements Client using waPC host calls.
type HostClient struct {
	cfg      Config
	hostCall func(string, string, string, []byte) ([]byte, error)
}

var _ Client = (*HostClient)(nil)

// New creates a host-backed client with the provided configuration.
func New(config Config) (*HostClient, error) {
	hc := &HostClient{cfg: config, hostCall: wapc.HostCall}

	if hc.cfg.SDKConfig.Namespace == "" {
		hc.cfg.SDKConfig.Namespace = fixtures.DefaultNamespace
	}
	if config.HostCall != nil {
		hc.hostCall = config.HostCall
	}

	return hc, nil
}

// Get issues a GET to the specified URL and returns the response.
func (c *HostClient) Get(urlStr string) (*Response, error) {
	req, err := NewRequest(http.MethodGet, urlStr, nil)
	if err != nil {
		return &Response{}, err
	}
	return c.Do(req)
}

// Put issues a PUT to the URL with the provided contentType and body.
func (c *HostClient) Put(urlStr, contentType string, body io.Reader) (*Response, error) {
	req, err := NewRequest(http.MethodPut, urlStr, body)
	if err != nil {
		return &Response{}, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.Do(req)
}

// Do issues a custom request built with NewRequest and returns the response.
func (c *HostClient) Do(req *Request) (*Response, error) {
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

	pbReq := &proto.HTTPClient{
		Method:   req.Method,
		Url:      req.URL.String(),
		Insecure: c.cfg.InsecureSkipVerify,
		Body:     body,
		Headers:  make(map[string]*proto.Header),
	}
	for key, values := range req.Header {
		pbReq.Headers[key] = &proto.Header{Values: values}
	}

	return c.call(pbReq)
}

// call marshals the protobuf request, performs the host call, and maps the
// host status onto sentinel errors.
func (c *HostClient) call(req *proto.HTTPClient) (*Response, error) {
	b, err := req.MarshalVT()
	if err != nil {
		return &Response{}, errors.Join(ErrMarshalRequest, err)
	}

	resp, err := c.hostCall(c.cfg.SDKConfig.Namespace, capabilityName, functionName, b)
	if err != nil {
		return &Response{}, errors.Join(fixtures.ErrHostCall, err)
	}

	var r proto.HTTPClientResponse
	if err := r.UnmarshalVT(resp); err != nil {
		return &Response{}, errors.Join(ErrUnmarshalResponse, err)
	}

	status := r.GetStatus()
	if status == nil {
		return &Response{}, fixtures.ErrHostResponseInvalid
	}

	switch code := status.GetCode(); code {
	case hostStatusOK, hostStatusPartial:
	case hostStatusBadInput, hostStatusMissing, hostStatusError:
		detail := fmt.Sprintf("host status %d", code)
		if msg := status.GetStatus(); msg != "" {
			detail = fmt.Sprintf("%s: %s", detail, msg)
		}
		return &Response{}, errors.Join(fixtures.ErrHostError, errors.New(detail))
	default:
		return &Response{}, errors.Join(
			fixtures.ErrHostResponseInvalid,
			fmt.Errorf("unexpected host status code %d", code),
		)
	}

	httpCode := int(r.GetCode())
	out := &Response{
		Status:     http.StatusText(httpCode),
		StatusCode: httpCode,
		Header:     make(http.Header),
	}
	for name, header := range r.GetHeaders() {
		out.Header[name] = header.GetValues()
	}
	if body := r.GetBody(); len(body) > 0 {
		out.Body = io.NopCloser(bytes.NewReader(body))
	}

	return out, nil
}
