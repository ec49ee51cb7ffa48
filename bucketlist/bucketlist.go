package bucketlist

import (
	"encoding/json"
	"net/http"

	"github.com/tarmac-project/fixtures/mockserver"
)

const (
	// Method and Path select the bucket listing request.
	Method = http.MethodGet
	Path   = "/storage/v1/b"

	// MethodPlaceholder is rendered by MockServer to the matched request method.
	MethodPlaceholder = "{{ request.method }}"
)

// BucketNames is the listing returned for every matched request, in order.
var BucketNames = []string{
	"this-is-fake",
	"116961867251-us-central1-blueprint-config",
	"clf-lz-pp2-" + MethodPlaceholder,
	"clf-lz-pp2-cool-dev",
	"clf-lz-pp2-my-cool-bucket-dev",
	"clf-lz-pp2-my-unique-bucket-dev",
	"clf-lz-pp2_blueprints",
}

// Bucket is one entry of a listing.
type Bucket struct {
	Name string `json:"name"`
}

// Listing mirrors the storage#buckets response body.
type Listing struct {
	Items []Bucket `json:"items"`
}

// templateResponse is the response shape MockServer expects a template to
// render to. Headers stays present even when empty.
type templateResponse struct {
	StatusCode   int                 `json:"statusCode"`
	ReasonPhrase string              `json:"reasonPhrase"`
	Headers      map[string][]string `json:"headers"`
	Body         Listing             `json:"body"`
}

// Template returns the MUSTACHE template text for the listing response.
func Template() string {
	l := Listing{Items: make([]Bucket, 0, len(BucketNames))}
	for _, n := range BucketNames {
		l.Items = append(l.Items, Bucket{Name: n})
	}

	b, err := json.MarshalIndent(templateResponse{
		StatusCode:   http.StatusOK,
		ReasonPhrase: "OK",
		Headers:      map[string][]string{},
		Body:         l,
	}, "", "  ")
	if err != nil {
		// Only plain strings and ints are marshalled.
		panic(err)
	}
	return string(b)
}

// Expectation returns the bucket listing rule. Query parameters and headers
// are left unconstrained.
func Expectation() mockserver.Expectation {
	return mockserver.Expectation{
		HTTPRequest: &mockserver.RequestMatcher{
			Method: Method,
			Path:   Path,
		},
		HTTPResponseTemplate: &mockserver.ResponseTemplate{
			TemplateType: mockserver.TemplateMustache,
			Template:     Template(),
		},
	}
}
