package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ProviderStatus is the payment state reported by the QRIS provider
type ProviderStatus string

const (
	ProviderPending ProviderStatus = "pending"
	ProviderSuccess ProviderStatus = "success"
	ProviderFailed  ProviderStatus = "failed"
)

// ProviderPayment is the provider's handle for a created payment
type ProviderPayment struct {
	ExternalID string `json:"external_id"`
	QRPayload  string `json:"qr_payload"`
}

// PaymentProvider abstracts the external QRIS gateway so the payment flow is
// testable without network access.
type PaymentProvider interface {
	CreatePayment(ctx context.Context, referenceID string, amount int64) (*ProviderPayment, error)
	CheckStatus(ctx context.Context, externalID string) (ProviderStatus, error)
}

// httpProvider talks to the gateway's REST API
type httpProvider struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProvider(baseURL string) PaymentProvider {
	return &httpProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *httpProvider) CreatePayment(ctx context.Context, referenceID string, amount int64) (*ProviderPayment, error) {
	body, err := json.Marshal(map[string]interface{}{
		"reference_id": referenceID,
		"amount":       amount,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/qris", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request to payment provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment provider returned unexpected status: %d", resp.StatusCode)
	}

	var payment ProviderPayment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (p *httpProvider) CheckStatus(ctx context.Context, externalID string) (ProviderStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/qris/"+externalID, nil)
	if err != nil {
		return "", err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making request to payment provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("payment provider returned unexpected status: %d", resp.StatusCode)
	}

	var out struct {
		Status ProviderStatus `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Status, nil
}
