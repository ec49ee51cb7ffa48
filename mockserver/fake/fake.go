package fake

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/tarmac-project/fixtures/logging"
	"github.com/tarmac-project/fixtures/mockserver"
)

// Config controls a Server.
type Config struct {
	// Logger receives one line per administrative call and unmatched request.
	// Nil disables logging.
	Logger logging.Client
}

// Server is an http.Handler emulating MockServer. It is safe for concurrent use.
type Server struct {
	log logging.Client

	mu           sync.Mutex
	seq          int
	expectations []entry
}

type entry struct {
	seq int
	exp mockserver.Expectation
}

// New creates an empty Server.
func New(cfg Config) *Server {
	return &Server{log: cfg.Logger}
}

// Expectations returns the active expectations in match order.
func (s *Server) Expectations() []mockserver.Expectation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]mockserver.Expectation, 0, len(s.expectations))
	for _, e := range s.expectations {
		out = append(out, snapshot(e.exp))
	}
	return out
}

// snapshot copies Times so callers never share the counter match decrements.
func snapshot(e mockserver.Expectation) mockserver.Expectation {
	if e.Times != nil {
		t := *e.Times
		e.Times = &t
	}
	return e
}

// ServeHTTP routes administrative calls and serves matched expectations.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	if r.Method == http.MethodPut {
		switch r.URL.Path {
		case mockserver.ExpectationPath:
			s.create(w, body)
			return
		case mockserver.RetrievePath:
			s.retrieve(w, r, body)
			return
		case mockserver.ClearPath:
			s.clear(w, body)
			return
		case mockserver.ResetPath:
			s.reset(w)
			return
		}
	}

	s.serve(w, r, body)
}

func (s *Server) create(w http.ResponseWriter, body []byte) {
	exps, err := decodeExpectations(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for i, e := range exps {
		if e.HTTPResponse == nil && e.HTTPResponseTemplate == nil {
			http.Error(w, fmt.Sprintf("expectation %d has no response action", i), http.StatusBadRequest)
			return
		}
		if e.HTTPResponseTemplate != nil && e.HTTPResponseTemplate.TemplateType != mockserver.TemplateMustache {
			http.Error(w, fmt.Sprintf("expectation %d uses unsupported template type %q", i, e.HTTPResponseTemplate.TemplateType), http.StatusNotImplemented)
			return
		}
	}

	s.mu.Lock()
	for i := range exps {
		s.seq++
		if exps[i].ID == "" {
			exps[i].ID = "fake-" + strconv.Itoa(s.seq)
		}
		s.upsert(entry{seq: s.seq, exp: exps[i]})
	}
	s.sortLocked()
	s.mu.Unlock()

	s.logf("created %d expectation(s)", len(exps))
	writeJSON(w, http.StatusCreated, exps)
}

// upsert replaces an expectation with the same ID, keeping its original order.
func (s *Server) upsert(e entry) {
	for i := range s.expectations {
		if s.expectations[i].exp.ID == e.exp.ID {
			e.seq = s.expectations[i].seq
			s.expectations[i] = e
			return
		}
	}
	s.expectations = append(s.expectations, e)
}

// sortLocked orders by priority (highest first), then creation order.
func (s *Server) sortLocked() {
	sort.SliceStable(s.expectations, func(i, j int) bool {
		a, b := s.expectations[i], s.expectations[j]
		if a.exp.Priority != b.exp.Priority {
			return a.exp.Priority > b.exp.Priority
		}
		return a.seq < b.seq
	})
}

func (s *Server) retrieve(w http.ResponseWriter, r *http.Request, body []byte) {
	if t := r.URL.Query().Get("type"); t != "active_expectations" {
		http.Error(w, fmt.Sprintf("unsupported retrieve type %q", t), http.StatusBadRequest)
		return
	}
	filter, err := decodeMatcher(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	out := []mockserver.Expectation{}
	for _, e := range s.Expectations() {
		if filter == nil || filter.Equal(e.HTTPRequest) {
			out = append(out, e)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) clear(w http.ResponseWriter, body []byte) {
	filter, err := decodeMatcher(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	kept := s.expectations[:0]
	for _, e := range s.expectations {
		if filter != nil && !filter.Equal(e.exp.HTTPRequest) {
			kept = append(kept, e)
		}
	}
	removed := len(s.expectations) - len(kept)
	s.expectations = kept
	s.mu.Unlock()

	s.logf("cleared %d expectation(s)", removed)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) reset(w http.ResponseWriter) {
	s.mu.Lock()
	s.expectations = nil
	s.mu.Unlock()

	s.logf("reset")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, body []byte) {
	exp, ok := s.match(r)
	if !ok {
		s.logf("no expectation matched %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		return
	}

	resp := exp.HTTPResponse
	if exp.HTTPResponseTemplate != nil {
		rendered, err := mockserver.RenderTemplate(*exp.HTTPResponseTemplate, r, body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		resp = rendered
	}

	payload, contentType, err := resp.Payload()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for k, values := range resp.Headers {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	if contentType != "" && w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", contentType)
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

// match returns the first matching expectation and consumes one of its Times.
func (s *Server) match(r *http.Request) (mockserver.Expectation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.expectations {
		if !mockserver.Matches(e.exp.HTTPRequest, r) {
			continue
		}
		if t := e.exp.Times; t != nil && !t.Unlimited && t.RemainingTimes > 0 {
			t.RemainingTimes--
			if t.RemainingTimes == 0 {
				s.expectations = append(s.expectations[:i], s.expectations[i+1:]...)
			}
		}
		return snapshot(e.exp), true
	}
	return mockserver.Expectation{}, false
}

func (s *Server) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Info(fmt.Sprintf("mockserver: "+format, args...))
	}
}

// decodeExpectations accepts a single expectation object or an array of them.
func decodeExpectations(body []byte) ([]mockserver.Expectation, error) {
	var list []mockserver.Expectation
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}
	var one mockserver.Expectation
	if err := json.Unmarshal(body, &one); err != nil {
		return nil, fmt.Errorf("incorrect expectation json format: %w", err)
	}
	return []mockserver.Expectation{one}, nil
}

func decodeMatcher(body []byte) (*mockserver.RequestMatcher, error) {
	if len(body) == 0 {
		return nil, nil
	}
	var m *mockserver.RequestMatcher
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("incorrect request matcher json format: %w", err)
	}
	return m, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
