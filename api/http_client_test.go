package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPClient_Request_Success(t *testing.T) {
	// Mock server setup
	mockResponse := map[string]string{"message": "success"}
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/test-endpoint" {
			t.Errorf("Expected endpoint '/test-endpoint', got '%s'", r.URL.Path)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(mockResponse)
	}))
	defer mockServer.Close()

	// Test setup
	client := NewHTTPClient(mockServer.URL)
	var response map[string]string

	// Act
	err := client.Request(context.Background(), "GET", "/test-endpoint", nil, nil, nil, &response)

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if response["message"] != "success" {
		t.Errorf("Expected response message to be 'success', got '%s'", response["message"])
	}
}

func TestHTTPClient_Request_ClassifiesStatus(t *testing.T) {
	cases := []struct {
		status     int
		retryAfter string
		wantKind   Kind
	}{
		{http.StatusInternalServerError, "", KindTransient},
		{http.StatusTooManyRequests, "7", KindRateLimited},
		{http.StatusUnauthorized, "", KindAuth},
		{http.StatusNotFound, "", KindNotFound},
		{http.StatusBadRequest, "", KindClientError},
	}

	for _, tc := range cases {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tc.retryAfter != "" {
				w.Header().Set("Retry-After", tc.retryAfter)
			}
			w.WriteHeader(tc.status)
		}))

		client := NewHTTPClient(mockServer.URL)
		err := client.Request(context.Background(), "GET", "/x", nil, nil, nil, nil)
		mockServer.Close()

		if err == nil {
			t.Fatalf("status %d: expected an error, got nil", tc.status)
		}

		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("status %d: expected *api.Error, got %T", tc.status, err)
		}
		if apiErr.Kind != tc.wantKind {
			t.Errorf("status %d: expected kind %s, got %s", tc.status, tc.wantKind, apiErr.Kind)
		}
		if tc.retryAfter != "" && apiErr.RetryAfter != 7*time.Second {
			t.Errorf("status %d: expected Retry-After 7s, got %v", tc.status, apiErr.RetryAfter)
		}
	}
}

func TestClassify_NetworkError(t *testing.T) {
	// A closed server produces a network-level error, classified transient.
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := mockServer.URL
	mockServer.Close()

	client := NewHTTPClient(url)
	err := client.Request(context.Background(), "GET", "/x", nil, nil, nil, nil)
	if err == nil {
		t.Fatal("expected an error against a closed server")
	}
	if !IsRetryable(err) {
		t.Errorf("expected network failure to be retryable, classified %s", Classify(err))
	}
}
