package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Avleen-2464/EchoQuill/internal/domain/service"
	domainErrors "github.com/Avleen-2464/EchoQuill/pkg/errors"
)

func TestOllamaClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}

		if req.Model != "test-model" {
			t.Fatalf("unexpected model: %s", req.Model)
		}
		if req.Stream {
			t.Fatal("stream must be disabled")
		}
		if req.Options.Temperature != 0.7 || req.Options.MaxTokens != 500 {
			t.Fatalf("unexpected options: %+v", req.Options)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(generateResponse{Response: "  a generated reply \n"})
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, 5*time.Second, nil)

	got, err := client.Generate(context.Background(), "hello", "test-model", service.GenerateOptions{Temperature: 0.7, MaxTokens: 500})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// Completion is trimmed before being returned
	if got != "a generated reply" {
		t.Fatalf("unexpected completion: %q", got)
	}
}

func TestOllamaClient_Generate_EmptyCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Response: "   "})
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, 5*time.Second, nil)

	_, err := client.Generate(context.Background(), "hello", "test-model", service.GenerateOptions{})
	if !domainErrors.IsGenerationFailed(err) {
		t.Fatalf("expected GenerationFailed, got %v", err)
	}
}

func TestOllamaClient_Generate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, 5*time.Second, nil)

	_, err := client.Generate(context.Background(), "hello", "test-model", service.GenerateOptions{})
	if !domainErrors.IsServiceUnavailable(err) {
		t.Fatalf("expected ServiceUnavailable, got %v", err)
	}
}

func TestOllamaClient_Generate_Unreachable(t *testing.T) {
	// Grab a URL that refuses connections
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewOllamaClient(server.URL, time.Second, nil)

	_, err := client.Generate(context.Background(), "hello", "test-model", service.GenerateOptions{})
	if !domainErrors.IsServiceUnavailable(err) {
		t.Fatalf("expected ServiceUnavailable, got %v", err)
	}
}

func TestOllamaClient_Ping(t *testing.T) {
	var probed bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		probed = true
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, time.Second, nil)

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if !probed {
		t.Fatal("expected /api/tags to be probed")
	}
}

func TestOllamaClient_Ping_Down(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewOllamaClient(server.URL, time.Second, nil)

	err := client.Ping(context.Background())
	if !domainErrors.IsServiceUnavailable(err) {
		t.Fatalf("expected ServiceUnavailable, got %v", err)
	}
}
