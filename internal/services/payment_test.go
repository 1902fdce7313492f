package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"toolrank/internal/apperrors"
)

func TestCapture_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/charges" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header = %q", got)
		}
		var req chargeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Amount != 2900 || req.Currency != "usd" || req.Source != "tok_visa" {
			t.Errorf("unexpected charge request: %+v", req)
		}
		json.NewEncoder(w).Encode(chargeResponse{ID: "ch_123", Status: "succeeded"})
	}))
	defer server.Close()

	svc := &PaymentService{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Enabled: true,
		client:  server.Client(),
	}

	txID, err := svc.Capture(2900, "tok_visa")
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if txID != "ch_123" {
		t.Errorf("transaction id = %q", txID)
	}
}

func TestCapture_Declined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chargeResponse{ID: "ch_456", Status: "declined"})
	}))
	defer server.Close()

	svc := &PaymentService{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Enabled: true,
		client:  server.Client(),
	}

	_, err := svc.Capture(2900, "tok_visa")
	if !errors.Is(err, apperrors.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if !strings.Contains(err.Error(), "declined") {
		t.Errorf("error should carry the charge status: %v", err)
	}
}

func TestCapture_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := &PaymentService{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Enabled: true,
		client:  server.Client(),
	}

	_, err := svc.Capture(2900, "tok_visa")
	if !errors.Is(err, apperrors.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestCapture_DisabledIssuesTestTransaction(t *testing.T) {
	svc := &PaymentService{
		Enabled: false,
		client:  &http.Client{Timeout: time.Second},
	}

	txID, err := svc.Capture(2900, "tok_visa")
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if !strings.HasPrefix(txID, "test_") {
		t.Errorf("transaction id = %q, want test_ prefix", txID)
	}
}
