package mockserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbroglie/mustache"
)

var (
	// ErrUnsupportedTemplate is returned for template types other than MUSTACHE.
	ErrUnsupportedTemplate = errors.New("unsupported template type")

	// ErrRenderTemplate wraps template parse and render failures.
	ErrRenderTemplate = errors.New("failed to render response template")
)

// RenderTemplate renders t against r and decodes the result as an HTTPResponse.
//
// The template sees a single "request" object with method, path, headers,
// queryStringParameters and body, so "{{ request.method }}" renders to the
// request's HTTP method.
func RenderTemplate(t ResponseTemplate, r *http.Request, body []byte) (*HTTPResponse, error) {
	if t.TemplateType != TemplateMustache {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTemplate, t.TemplateType)
	}

	rendered, err := mustache.Render(t.Template, templateContext(r, body))
	if err != nil {
		return nil, errors.Join(ErrRenderTemplate, err)
	}

	var resp HTTPResponse
	if err := json.Unmarshal([]byte(rendered), &resp); err != nil {
		return nil, errors.Join(ErrRenderTemplate, err)
	}
	return &resp, nil
}

func templateContext(r *http.Request, body []byte) map[string]any {
	headers := make(map[string]any, len(r.Header))
	for k, v := range r.Header {
		headers[k] = v
	}
	query := make(map[string]any)
	for k, v := range r.URL.Query() {
		query[k] = v
	}

	return map[string]any{
		"request": map[string]any{
			"method":                r.Method,
			"path":                  r.URL.Path,
			"headers":               headers,
			"queryStringParameters": query,
			"body":                  string(body),
		},
	}
}
