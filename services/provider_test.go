package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"vtu/config"

	"github.com/stretchr/testify/assert"
)

// newTestVTPassClient points a real client at a local test server
func newTestVTPassClient(t *testing.T, handler http.HandlerFunc) (*VTPassClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config.AppConfig = &config.Config{
		ProviderBaseURL:   server.URL,
		ProviderAPIKey:    "test-key",
		ProviderSecretKey: "test-secret",
		ProviderTimeoutMs: 2000,
	}
	return NewVTPassClient(), server
}

func TestVTPassPurchaseDelivered(t *testing.T) {
	client, _ := newTestVTPassClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"000","response_description":"TRANSACTION SUCCESSFUL",
			"content":{"transactions":{"status":"delivered","transactionId":"abc123"}}}`))
	})

	result := client.Purchase(context.Background(), ProviderRequest{
		ServiceID: "mtn", Destination: "08031234567", Amount: 500, Reference: "ref-1",
	})
	assert.True(t, result.Success)
	assert.False(t, result.Ambiguous)
	assert.Equal(t, "abc123", result.Reference)
}

func TestVTPassPurchaseDeclinedIsDefinitive(t *testing.T) {
	client, _ := newTestVTPassClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"016","response_description":"TRANSACTION FAILED"}`))
	})

	result := client.Purchase(context.Background(), ProviderRequest{Reference: "ref-2"})
	assert.False(t, result.Success)
	assert.False(t, result.Ambiguous)
	assert.Equal(t, "TRANSACTION FAILED", result.Message)
}

func TestVTPassPurchaseServerErrorIsAmbiguous(t *testing.T) {
	client, _ := newTestVTPassClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	result := client.Purchase(context.Background(), ProviderRequest{Reference: "ref-3"})
	assert.False(t, result.Success)
	assert.True(t, result.Ambiguous)
}

func TestVTPassPurchaseGarbageBodyIsAmbiguous(t *testing.T) {
	client, _ := newTestVTPassClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway timeout</html>`))
	})

	result := client.Purchase(context.Background(), ProviderRequest{Reference: "ref-4"})
	assert.False(t, result.Success)
	assert.True(t, result.Ambiguous)
}

func TestVTPassPurchaseUnreachableIsAmbiguous(t *testing.T) {
	client, server := newTestVTPassClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	result := client.Purchase(context.Background(), ProviderRequest{Reference: "ref-5"})
	assert.False(t, result.Success)
	assert.True(t, result.Ambiguous)
	assert.Equal(t, "provider unreachable", result.Message)
}
