package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(url string, attempts int) *Client {
	return NewClient(Config{
		BaseURL:     url,
		APIKey:      "test-key",
		Model:       "test-model",
		Timeout:     5 * time.Second,
		MaxAttempts: attempts,
	})
}

func TestChat_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Unexpected auth header %q", got)
		}
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"diagnosis text"}}]}`)
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL, 3).Chat(context.Background(), []Message{
		{Role: "user", Content: "analyze this"},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply != "diagnosis text" {
		t.Errorf("Expected diagnosis text, got %q", reply)
	}
}

func TestChat_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, `{"error":{"message":"overloaded","type":"server_error"}}`)
			return
		}
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`)
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL, 3).Chat(context.Background(), []Message{{Role: "user", Content: "x"}})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply != "ok" {
		t.Errorf("Expected ok, got %q", reply)
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 calls, got %d", calls.Load())
	}
}

func TestChat_FatalDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 5).Chat(context.Background(), []Message{{Role: "user", Content: "x"}})
	if err == nil {
		t.Fatal("Expected error for unauthorized response")
	}
	if calls.Load() != 1 {
		t.Errorf("Expected 1 call for fatal error, got %d", calls.Load())
	}
}

func TestChat_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 1).Chat(context.Background(), []Message{{Role: "user", Content: "x"}})
	if err == nil {
		t.Fatal("Expected error for empty choices")
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		msg  string
		want ErrorAction
	}{
		{"inference API error (status 401): invalid api key", ActionFatal},
		{"inference API error (status 400): bad request", ActionFatal},
		{"inference API error (status 404): model_not_found", ActionFatal},
		{"inference API error (status 429): rate limit", ActionRetry},
		{"inference API error (status 500): internal", ActionRetry},
		{"request failed: dial tcp: connection refused", ActionRetry},
	}
	for _, tt := range tests {
		if got := ClassifyError(fmt.Errorf("%s", tt.msg)); got != tt.want {
			t.Errorf("ClassifyError(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}
