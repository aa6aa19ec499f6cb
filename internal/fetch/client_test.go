package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestClientFetch tests fetching pages over HTTP.
func TestClientFetch(t *testing.T) {
	t.Parallel()

	t.Run("returns body and content type on success", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><body>hello</body></html>"))
		}))
		defer server.Close()

		client := NewClient(5 * time.Second)
		result, err := client.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.StatusCode != http.StatusOK {
			t.Errorf("StatusCode = %d, expected 200", result.StatusCode)
		}
		if !strings.Contains(result.ContentType, "text/html") {
			t.Errorf("ContentType = %q", result.ContentType)
		}
		if !strings.Contains(string(result.Body), "hello") {
			t.Errorf("Body = %q", result.Body)
		}
	})

	t.Run("non-2xx status returns StatusError", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(5 * time.Second)
		_, err := client.Fetch(context.Background(), server.URL)

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected *StatusError, got %v", err)
		}
		if statusErr.Code != http.StatusNotFound {
			t.Errorf("Code = %d, expected 404", statusErr.Code)
		}
	})

	t.Run("timeout returns error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(500 * time.Millisecond)
			_, _ = w.Write([]byte("late"))
		}))
		defer server.Close()

		client := NewClient(50 * time.Millisecond)
		if _, err := client.Fetch(context.Background(), server.URL); err == nil {
			t.Error("expected timeout error")
		}
	})

	t.Run("body is truncated to max size", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 4096)))
		}))
		defer server.Close()

		client := NewClient(5*time.Second, WithMaxBodySize(1024))
		result, err := client.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Body) != 1024 {
			t.Errorf("Body length = %d, expected 1024", len(result.Body))
		}
	})

	t.Run("legacy charset is decoded to UTF-8", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			// "café" in Latin-1: the é is a single 0xE9 byte.
			_, _ = w.Write([]byte{'c', 'a', 'f', 0xE9})
		}))
		defer server.Close()

		client := NewClient(5 * time.Second)
		result, err := client.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := string(result.Body); got != "café" {
			t.Errorf("Body = %q, expected UTF-8 %q", got, "café")
		}
	})

	t.Run("sends user agent and extra headers", func(t *testing.T) {
		t.Parallel()

		var gotUA, gotLang string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			gotLang = r.Header.Get("Accept-Language")
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		client := NewClient(5*time.Second,
			WithUserAgent("docsink-test/1.0"),
			WithHeaders(map[string]string{"Accept-Language": "en"}),
		)
		if _, err := client.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotUA != "docsink-test/1.0" {
			t.Errorf("User-Agent = %q", gotUA)
		}
		if gotLang != "en" {
			t.Errorf("Accept-Language = %q", gotLang)
		}
	})

	t.Run("context cancellation aborts the fetch", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(500 * time.Millisecond)
			_, _ = w.Write([]byte("late"))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := NewClient(5 * time.Second)
		if _, err := client.Fetch(ctx, server.URL); err == nil {
			t.Error("expected error for cancelled context")
		}
	})

	t.Run("invalid URL returns error", func(t *testing.T) {
		t.Parallel()

		client := NewClient(time.Second)
		if _, err := client.Fetch(context.Background(), "http://[::1]:namedport/"); err == nil {
			t.Error("expected error for invalid URL")
		}
	})
}

// TestStatusErrorMessage tests the error string.
func TestStatusErrorMessage(t *testing.T) {
	t.Parallel()

	err := &StatusError{URL: "https://example.test/a", Code: 503}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("Error() = %q, expected status code in message", err.Error())
	}
	if !strings.Contains(err.Error(), "https://example.test/a") {
		t.Errorf("Error() = %q, expected URL in message", err.Error())
	}
}
