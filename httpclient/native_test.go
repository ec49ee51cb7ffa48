package httpclient

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNativeClient(t *testing.T) {
	var gotMethod, gotPath, gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("X-Mock", "yes")
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusCreated)
			return
		}
		_, _ = w.Write([]byte("pong"))
	}))
	defer srv.Close()

	c := NewNative(NativeConfig{Timeout: time.Second})

	t.Run("GET", func(t *testing.T) {
		resp, err := c.Get(srv.URL + "/ping")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusOK || resp.Status != "OK" {
			t.Fatalf("status mismatch: %d %q", resp.StatusCode, resp.Status)
		}
		if resp.Header.Get("X-Mock") != "yes" {
			t.Fatalf("header mismatch: %v", resp.Header)
		}
		b, _ := ReadBody(resp)
		if string(b) != "pong" || gotMethod != http.MethodGet || gotPath != "/ping" {
			t.Fatalf("unexpected exchange: %s %s -> %q", gotMethod, gotPath, b)
		}
	})

	t.Run("PUT", func(t *testing.T) {
		resp, err := c.Put(srv.URL+"/mockserver/expectation", "application/json", strings.NewReader(`[]`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusCreated || resp.Status != "Created" {
			t.Fatalf("status mismatch: %d %q", resp.StatusCode, resp.Status)
		}
		if resp.Body != nil {
			t.Fatalf("expected nil body for empty response")
		}
		if gotBody != "[]" || gotType != "application/json" {
			t.Fatalf("request mismatch: body %q type %q", gotBody, gotType)
		}
	})
}

func TestNativeClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := NewNative(NativeConfig{Timeout: time.Second})
	_, err := c.Get(addr)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("want ErrTransport, got %v", err)
	}
}

func TestNativeClientOverride(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("secure"))
	}))
	defer srv.Close()

	c := NewNative(NativeConfig{HTTPClient: srv.Client()})
	resp, err := c.Get(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := ReadBody(resp)
	if string(b) != "secure" {
		t.Fatalf("body mismatch: %q", b)
	}
}
