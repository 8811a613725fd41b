package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPGateway_Confirm(t *testing.T) {
	var gotSecret string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/payments/confirm", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		require.NoError(t, json.Unmarshal(body, &payload))
		gotSecret = payload["client_secret"]

		_, _ = io.WriteString(w, `{"status":"succeeded","last4":"4242"}`)
	}))
	t.Cleanup(srv.Close)

	g := NewHTTPGateway(srv.URL, srv.Client())
	result, err := g.Confirm(context.Background(), "cs_test_1")

	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", gotSecret)
	assert.Equal(t, StatusSucceeded, result.Status)
	assert.Equal(t, "4242", result.Last4)
}

func TestHTTPGateway_ConfirmDeclined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"requires_payment_method"}`)
	}))
	t.Cleanup(srv.Close)

	g := NewHTTPGateway(srv.URL, srv.Client())
	result, err := g.Confirm(context.Background(), "cs_test_1")

	require.NoError(t, err)
	assert.NotEqual(t, StatusSucceeded, result.Status)
}

func TestHTTPGateway_ConfirmGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad secret", http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	g := NewHTTPGateway(srv.URL, srv.Client())
	_, err := g.Confirm(context.Background(), "cs_bogus")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestMockGateway(t *testing.T) {
	g := &MockGateway{Last4: "4242"}

	result, err := g.Confirm(context.Background(), "cs_1")

	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, result.Status)
	assert.Equal(t, []string{"cs_1"}, g.Confirmed)
}
