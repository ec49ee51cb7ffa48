package fake

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarmac-project/fixtures/mockserver"
)

func newServer(t *testing.T) (*Server, *httptest.Server, *mockserver.Client) {
	t.Helper()

	s := New(Config{})
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	c, err := mockserver.New(mockserver.Config{Address: srv.URL})
	require.NoError(t, err)
	return s, srv, c
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestLiteralResponse(t *testing.T) {
	s, srv, c := newServer(t)

	err := c.CreateExpectation(mockserver.Expectation{
		HTTPRequest: &mockserver.RequestMatcher{Method: "GET", Path: "/health"},
		HTTPResponse: &mockserver.HTTPResponse{
			StatusCode: http.StatusAccepted,
			Headers:    map[string][]string{"X-Fake": {"1"}},
			Body:       json.RawMessage(`"up"`),
		},
	})
	require.NoError(t, err)
	require.Len(t, s.Expectations(), 1)
	assert.NotEmpty(t, s.Expectations()[0].ID)

	resp, body := get(t, srv.URL+"/health")
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("X-Fake"))
	assert.Equal(t, "up", body)

	resp, _ = get(t, srv.URL+"/other")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTemplateResponse(t *testing.T) {
	_, srv, c := newServer(t)

	err := c.CreateExpectation(mockserver.Expectation{
		HTTPRequest: &mockserver.RequestMatcher{Path: "/echo"},
		HTTPResponseTemplate: &mockserver.ResponseTemplate{
			TemplateType: mockserver.TemplateMustache,
			Template:     `{"statusCode": 200, "body": {"method": "{{ request.method }}"}}`,
		},
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPatch, srv.URL+"/echo", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	b, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"method":"PATCH"}`, string(b))
}

func TestMatchOrder(t *testing.T) {
	_, srv, c := newServer(t)

	literal := func(status int, body string, priority int) mockserver.Expectation {
		return mockserver.Expectation{
			Priority:     priority,
			HTTPRequest:  &mockserver.RequestMatcher{Path: "/order"},
			HTTPResponse: &mockserver.HTTPResponse{StatusCode: status, Body: json.RawMessage(body)},
		}
	}

	require.NoError(t, c.CreateExpectation(literal(200, `"first"`, 0), literal(200, `"second"`, 0)))
	_, body := get(t, srv.URL+"/order")
	assert.Equal(t, "first", body, "oldest expectation wins at equal priority")

	require.NoError(t, c.CreateExpectation(literal(200, `"urgent"`, 10)))
	_, body = get(t, srv.URL+"/order")
	assert.Equal(t, "urgent", body, "higher priority wins")
}

func TestTimes(t *testing.T) {
	s, srv, c := newServer(t)

	require.NoError(t, c.CreateExpectation(mockserver.Expectation{
		HTTPRequest:  &mockserver.RequestMatcher{Path: "/once"},
		HTTPResponse: &mockserver.HTTPResponse{StatusCode: 200},
		Times:        &mockserver.Times{RemainingTimes: 1},
	}))

	resp, _ := get(t, srv.URL+"/once")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = get(t, srv.URL+"/once")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, s.Expectations())
}

func TestExpectationsSnapshot(t *testing.T) {
	s, srv, c := newServer(t)

	require.NoError(t, c.CreateExpectation(mockserver.Expectation{
		HTTPRequest:  &mockserver.RequestMatcher{Path: "/counted"},
		HTTPResponse: &mockserver.HTTPResponse{StatusCode: 200},
		Times:        &mockserver.Times{RemainingTimes: 3},
	}))

	before := s.Expectations()
	require.Len(t, before, 1)
	before[0].Times.RemainingTimes = 100

	resp, _ := get(t, srv.URL+"/counted")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 100, before[0].Times.RemainingTimes)
	after := s.Expectations()
	require.Len(t, after, 1)
	assert.Equal(t, 2, after[0].Times.RemainingTimes)
}

func TestConcurrentMatchAndRetrieve(t *testing.T) {
	_, srv, c := newServer(t)

	require.NoError(t, c.CreateExpectation(mockserver.Expectation{
		HTTPRequest:  &mockserver.RequestMatcher{Path: "/busy"},
		HTTPResponse: &mockserver.HTTPResponse{StatusCode: 200},
		Times:        &mockserver.Times{RemainingTimes: 1000},
	}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			resp, err := http.Get(srv.URL + "/busy")
			if err == nil {
				_ = resp.Body.Close()
			}
		}()
		go func() {
			defer wg.Done()
			_, _ = c.RetrieveActiveExpectations(nil)
		}()
	}
	wg.Wait()

	all, err := c.RetrieveActiveExpectations(nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 950, all[0].Times.RemainingTimes)
}

func TestUpsertByID(t *testing.T) {
	s, _, c := newServer(t)

	exp := mockserver.Expectation{
		ID:           "fixed",
		HTTPRequest:  &mockserver.RequestMatcher{Path: "/a"},
		HTTPResponse: &mockserver.HTTPResponse{StatusCode: 200},
	}
	require.NoError(t, c.CreateExpectation(exp))
	exp.HTTPResponse = &mockserver.HTTPResponse{StatusCode: 204}
	require.NoError(t, c.CreateExpectation(exp))

	got := s.Expectations()
	require.Len(t, got, 1)
	assert.Equal(t, 204, got[0].HTTPResponse.StatusCode)
}

func TestRetrieveClearReset(t *testing.T) {
	_, _, c := newServer(t)

	a := &mockserver.RequestMatcher{Method: "GET", Path: "/a"}
	b := &mockserver.RequestMatcher{Method: "GET", Path: "/b"}
	resp := &mockserver.HTTPResponse{StatusCode: 200}
	require.NoError(t, c.CreateExpectation(
		mockserver.Expectation{HTTPRequest: a, HTTPResponse: resp},
		mockserver.Expectation{HTTPRequest: b, HTTPResponse: resp},
	))

	all, err := c.RetrieveActiveExpectations(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyA, err := c.RetrieveActiveExpectations(a)
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, "/a", onlyA[0].HTTPRequest.Path)

	require.NoError(t, c.Clear(a))
	all, err = c.RetrieveActiveExpectations(nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "/b", all[0].HTTPRequest.Path)

	require.NoError(t, c.Reset())
	all, err = c.RetrieveActiveExpectations(nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAdminErrors(t *testing.T) {
	_, srv, c := newServer(t)

	tt := []struct {
		name string
		path string
		body string
		want int
	}{
		{"bad json", mockserver.ExpectationPath, `{not json`, http.StatusBadRequest},
		{"no action", mockserver.ExpectationPath, `{"httpRequest":{"path":"/x"}}`, http.StatusBadRequest},
		{"velocity", mockserver.ExpectationPath, `{"httpResponseTemplate":{"templateType":"VELOCITY","template":"{}"}}`, http.StatusNotImplemented},
		{"retrieve logs", mockserver.RetrievePath + "?type=logs", ``, http.StatusBadRequest},
		{"clear bad json", mockserver.ClearPath, `[`, http.StatusBadRequest},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPut, srv.URL+tc.path, strings.NewReader(tc.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			_ = resp.Body.Close()
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}

	// Surfaced through the client as a status error.
	err := c.CreateExpectation(mockserver.Expectation{HTTPRequest: &mockserver.RequestMatcher{Path: "/x"}})
	assert.ErrorIs(t, err, mockserver.ErrUnexpectedStatus)
}

type recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *recorder) add(m string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, m)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func (r *recorder) Info(m string)  { r.add(m) }
func (r *recorder) Warn(m string)  { r.add(m) }
func (r *recorder) Error(m string) { r.add(m) }
func (r *recorder) Debug(string)   {}
func (r *recorder) Trace(string)   {}

func TestLogging(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(New(Config{Logger: rec}))
	defer srv.Close()

	resp, _ := get(t, srv.URL+"/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	lines := rec.snapshot()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "no expectation matched GET /missing")
}
