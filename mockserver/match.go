package mockserver

import (
	"net/http"
	"strings"
)

// Matches reports whether r satisfies m. A nil matcher matches every request.
// Query parameters and headers only constrain the request when listed, and
// every listed value must be present.
func Matches(m *RequestMatcher, r *http.Request) bool {
	if m == nil {
		return true
	}
	if m.Method != "" && !strings.EqualFold(m.Method, r.Method) {
		return false
	}
	if m.Path != "" && m.Path != r.URL.Path {
		return false
	}

	query := r.URL.Query()
	for key, want := range m.QueryStringParameters {
		if !containsAll(query[key], want) {
			return false
		}
	}
	for key, want := range m.Headers {
		if !containsAll(r.Header.Values(key), want) {
			return false
		}
	}
	return true
}

// Equal reports whether two matchers select on the same method and path.
func (m *RequestMatcher) Equal(o *RequestMatcher) bool {
	if m == nil || o == nil {
		return m == o
	}
	return strings.EqualFold(m.Method, o.Method) && m.Path == o.Path
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
