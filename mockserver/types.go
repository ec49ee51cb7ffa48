package mockserver

import (
	"encoding/json"
	"errors"
)

// TemplateType selects the engine MockServer uses to render a ResponseTemplate.
type TemplateType string

const (
	// TemplateMustache renders with Mustache; the only type RenderTemplate supports.
	TemplateMustache TemplateType = "MUSTACHE"

	// TemplateVelocity renders with Apache Velocity on a real MockServer.
	TemplateVelocity TemplateType = "VELOCITY"

	// TemplateJavaScript renders with JavaScript on a real MockServer.
	TemplateJavaScript TemplateType = "JAVASCRIPT"
)

// Expectation is a rule pairing a request matcher with a canned response.
// Exactly one of HTTPResponse and HTTPResponseTemplate should be set.
type Expectation struct {
	ID                   string            `json:"id,omitempty"`
	Priority             int               `json:"priority,omitempty"`
	HTTPRequest          *RequestMatcher   `json:"httpRequest,omitempty"`
	HTTPResponse         *HTTPResponse     `json:"httpResponse,omitempty"`
	HTTPResponseTemplate *ResponseTemplate `json:"httpResponseTemplate,omitempty"`
	Times                *Times            `json:"times,omitempty"`
}

// RequestMatcher selects the requests an Expectation applies to. Empty fields
// match anything.
type RequestMatcher struct {
	Method                string              `json:"method,omitempty"`
	Path                  string              `json:"path,omitempty"`
	QueryStringParameters map[string][]string `json:"queryStringParameters,omitempty"`
	Headers               map[string][]string `json:"headers,omitempty"`
}

// ResponseTemplate is rendered per request into the JSON form of an HTTPResponse.
type ResponseTemplate struct {
	TemplateType TemplateType `json:"templateType"`
	Template     string       `json:"template"`
}

// HTTPResponse is a literal response. Body holds raw JSON: a string is sent
// as text, an object or array is sent as application/json.
type HTTPResponse struct {
	StatusCode   int                 `json:"statusCode,omitempty"`
	ReasonPhrase string              `json:"reasonPhrase,omitempty"`
	Headers      map[string][]string `json:"headers,omitempty"`
	Body         json.RawMessage     `json:"body,omitempty"`
}

// Times limits how often an Expectation matches.
type Times struct {
	RemainingTimes int  `json:"remainingTimes,omitempty"`
	Unlimited      bool `json:"unlimited,omitempty"`
}

// ErrInvalidBody is returned when an HTTPResponse body is not valid JSON.
var ErrInvalidBody = errors.New("response body is not valid JSON")

// typedBody is MockServer's explicit body form, e.g. {"type":"STRING","string":"x"}.
type typedBody struct {
	Type   string          `json:"type"`
	String string          `json:"string"`
	JSON   json.RawMessage `json:"json"`
}

// Payload returns the bytes to write and the content type implied by Body.
func (r *HTTPResponse) Payload() ([]byte, string, error) {
	if len(r.Body) == 0 {
		return nil, "", nil
	}

	switch r.Body[0] {
	case '"':
		var s string
		if err := json.Unmarshal(r.Body, &s); err != nil {
			return nil, "", errors.Join(ErrInvalidBody, err)
		}
		return []byte(s), "text/plain; charset=utf-8", nil
	case '{':
		var tb typedBody
		if err := json.Unmarshal(r.Body, &tb); err != nil {
			return nil, "", errors.Join(ErrInvalidBody, err)
		}
		switch tb.Type {
		case "STRING":
			return []byte(tb.String), "text/plain; charset=utf-8", nil
		case "JSON":
			var s string
			if err := json.Unmarshal(tb.JSON, &s); err == nil {
				return []byte(s), "application/json", nil
			}
			return tb.JSON, "application/json", nil
		}
	}

	if !json.Valid(r.Body) {
		return nil, "", ErrInvalidBody
	}
	return r.Body, "application/json", nil
}
