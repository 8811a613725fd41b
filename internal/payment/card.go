// Package payment holds the card-gateway client. Card entry and
// tokenization happen inside the provider's own widget; this client only
// confirms a previously authorized payment using the client secret issued
// through the backend.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-faster/errors"
)

// StatusSucceeded is the only gateway status that allows order creation.
const StatusSucceeded = "succeeded"

// Result is the gateway's answer to a confirmation attempt.
type Result struct {
	Status string `json:"status"`
	Last4  string `json:"last4"`
}

// CardGateway confirms a card payment identified by its client secret.
type CardGateway interface {
	Confirm(ctx context.Context, clientSecret string) (*Result, error)
}

// HTTPGateway talks to the real card provider endpoint.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGateway creates an HTTPGateway. client may be nil to use the
// default client.
func NewHTTPGateway(baseURL string, client *http.Client) *HTTPGateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPGateway{baseURL: baseURL, client: client}
}

// Confirm posts the confirmation and decodes the gateway's status.
func (g *HTTPGateway) Confirm(ctx context.Context, clientSecret string) (*Result, error) {
	body, err := json.Marshal(map[string]string{"client_secret": clientSecret})
	if err != nil {
		return nil, errors.Wrap(err, "encode confirmation")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/payments/confirm", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build confirmation request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "confirm card payment")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "read confirmation response")
	}
	if resp.StatusCode >= 400 {
		return nil, errors.Errorf("card gateway returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, "decode confirmation response")
	}
	return &result, nil
}

// MockGateway is a scriptable gateway for tests and offline development.
type MockGateway struct {
	Status string
	Last4  string
	Err    error

	Confirmed []string
}

// Confirm records the secret and returns the scripted result.
func (g *MockGateway) Confirm(_ context.Context, clientSecret string) (*Result, error) {
	g.Confirmed = append(g.Confirmed, clientSecret)
	if g.Err != nil {
		return nil, g.Err
	}
	status := g.Status
	if status == "" {
		status = StatusSucceeded
	}
	return &Result{Status: status, Last4: g.Last4}, nil
}
