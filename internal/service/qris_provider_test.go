package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProviderCreatePayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/qris", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sale-123", body["reference_id"])
		assert.Equal(t, float64(111000), body["amount"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(ProviderPayment{
			ExternalID: "ext-abc",
			QRPayload:  "00020101qr",
		})
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL)
	payment, err := provider.CreatePayment(context.Background(), "sale-123", 111000)
	require.NoError(t, err)

	assert.Equal(t, "ext-abc", payment.ExternalID)
	assert.Equal(t, "00020101qr", payment.QRPayload)
}

func TestHTTPProviderCreatePaymentGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL)
	_, err := provider.CreatePayment(context.Background(), "sale-123", 111000)
	assert.Error(t, err)
}

func TestHTTPProviderCheckStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/qris/ext-abc", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL)
	status, err := provider.CheckStatus(context.Background(), "ext-abc")
	require.NoError(t, err)
	assert.Equal(t, ProviderSuccess, status)
}

func TestHTTPProviderCheckStatusUnreachable(t *testing.T) {
	provider := NewHTTPProvider("http://127.0.0.1:1")
	_, err := provider.CheckStatus(context.Background(), "ext-abc")
	assert.Error(t, err)
}
