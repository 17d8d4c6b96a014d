package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/v1/echo" {
			t.Errorf("path = %s, want /v1/echo", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok" {
			t.Errorf("Authorization = %q", auth)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"hello"`) {
			t.Errorf("body = %s", body)
		}
		io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		BaseURL:       srv.URL,
		ServiceName:   "test",
		BeforeRequest: BearerAuth("tok"),
	})

	var result struct {
		OK bool `json:"ok"`
	}
	err := c.PostJSON(context.Background(), "/v1/echo", map[string]string{"msg": "hello"}, &result)
	if err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}
	if !result.OK {
		t.Error("result not decoded")
	}
}

func TestPostMultipartPreservesContentType(t *testing.T) {
	const contentType = "multipart/form-data; boundary=abc123"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != contentType {
			t.Errorf("Content-Type = %q, want %q", ct, contentType)
		}
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, ServiceName: "test"})
	err := c.PostMultipart(context.Background(), "/upload", contentType, strings.NewReader("body"), nil)
	if err != nil {
		t.Fatalf("PostMultipart() error = %v", err)
	}
}

func TestErrorResponseParsing(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{"message field", 401, `{"message":"bad key"}`, ErrUnauthorized, "bad key"},
		{"error field", 400, `{"error":"missing model"}`, ErrBadRequest, "missing model"},
		{"rate limited", 429, `{}`, ErrRateLimited, http.StatusText(429)},
		{"server error", 503, "not json", ErrServerError, http.StatusText(503)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := NewClient(ClientConfig{BaseURL: srv.URL, ServiceName: "test"})
			err := c.PostJSON(context.Background(), "/x", nil, nil)
			if err == nil {
				t.Fatal("expected error")
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error %T is not an APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Message != tt.message {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.message)
			}
			if apiErr.Service != "test" || apiErr.Endpoint != "/x" {
				t.Errorf("service/endpoint = %q/%q", apiErr.Service, apiErr.Endpoint)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}
		})
	}
}

func TestAPIErrorUnwrapUnknownStatus(t *testing.T) {
	err := &APIError{Service: "test", StatusCode: 418, Message: "teapot"}
	if err.Unwrap() != nil {
		t.Errorf("Unwrap() = %v, want nil for unmapped status", err.Unwrap())
	}
	if !strings.Contains(err.Error(), "418") {
		t.Errorf("Error() = %q, want status code included", err.Error())
	}
}
