package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// staticTickets is a fixed TicketSource for tests.
type staticTickets string

func (s staticTickets) Ticket() string { return string(s) }

func TestBearerHeaderWithTicket(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL}, staticTickets("tok123"))
	if _, err := c.Do(context.Background(), http.MethodGet, "/auth/me", nil); err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok123")
	}
}

func TestNoBearerHeaderWithoutTicket(t *testing.T) {
	var hadAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL}, staticTickets(""))
	if _, err := c.Do(context.Background(), http.MethodGet, "/jobs", nil); err != nil {
		t.Fatalf("do: %v", err)
	}
	if hadAuth {
		t.Error("Authorization header sent without a ticket")
	}
}

func TestGetNeverSendsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if len(body) != 0 {
			t.Errorf("GET carried a body: %q", body)
		}
		if ct := r.Header.Get("Content-Type"); ct != "" {
			t.Errorf("GET carried Content-Type %q", ct)
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL}, staticTickets(""))
	if _, err := c.Do(context.Background(), http.MethodGet, "/jobs", map[string]int{"job_id": 1}); err != nil {
		t.Fatalf("do: %v", err)
	}
}

func TestPostSendsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		var payload map[string]int
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if payload["job_id"] != 42 {
			t.Errorf("job_id = %d, want 42", payload["job_id"])
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL}, staticTickets(""))
	if _, err := c.Do(context.Background(), http.MethodPost, "/saved-jobs", map[string]int{"job_id": 42}); err != nil {
		t.Fatalf("do: %v", err)
	}
}

func TestEmptyBodyReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL}, staticTickets(""))
	raw, err := c.Do(context.Background(), http.MethodDelete, "/saved-jobs/1", nil)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if raw != nil {
		t.Errorf("raw = %q, want nil", raw)
	}
}

func TestErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message field", http.StatusUnauthorized, `{"message":"Invalid credentials"}`, "Invalid credentials"},
		{"detail field", http.StatusUnprocessableEntity, `{"detail":"email already registered"}`, "email already registered"},
		{"error field", http.StatusBadRequest, `{"error":"bad filter"}`, "bad filter"},
		{"unparseable body", http.StatusBadGateway, `<html>upstream</html>`, "request failed with status 502"},
		{"empty body", http.StatusInternalServerError, ``, "request failed with status 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := New(Config{BaseURL: server.URL}, staticTickets(""))
			_, err := c.Do(context.Background(), http.MethodPost, "/auth/login", map[string]string{})
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("error type = %T, want *RequestError", err)
			}
			if reqErr.Status != tt.status {
				t.Errorf("status = %d, want %d", reqErr.Status, tt.status)
			}
			if reqErr.Message != tt.want {
				t.Errorf("message = %q, want %q", reqErr.Message, tt.want)
			}
		})
	}
}

func TestTransportErrorOnUnreachableService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	c := New(Config{BaseURL: server.URL}, staticTickets(""))
	_, err := c.Do(context.Background(), http.MethodPost, "/saved-jobs", map[string]int{"job_id": 1})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error type = %T, want *TransportError", err)
	}
}

func TestReadRetriesTransientFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			// Drop the connection mid-request to force a transport error.
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("response writer does not support hijacking")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatalf("hijack: %v", err)
			}
			conn.Close()
			return
		}
		w.Write([]byte(`[{"id":1}]`))
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL, ReadRetries: 2}, staticTickets(""))
	raw, err := c.Do(context.Background(), http.MethodGet, "/jobs", nil)
	if err != nil {
		t.Fatalf("do after retry: %v", err)
	}
	if raw == nil {
		t.Fatal("expected body after retry")
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestNegativeReadRetriesDisablesRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Fatal("response writer does not support hijacking")
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Fatalf("hijack: %v", err)
		}
		conn.Close()
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL, ReadRetries: -1}, staticTickets(""))
	_, err := c.Do(context.Background(), http.MethodGet, "/jobs", nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error type = %T, want *TransportError", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestNonReadsAreNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Fatal("response writer does not support hijacking")
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Fatalf("hijack: %v", err)
		}
		conn.Close()
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL, ReadRetries: 3}, staticTickets(""))
	_, err := c.Do(context.Background(), http.MethodPost, "/saved-jobs", map[string]int{"job_id": 1})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}
