package msauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

func TestFromTokenSource(t *testing.T) {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "static-token"})

	provider := FromTokenSource(source)

	token, err := provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "static-token", token)
}

func TestClientCredentials_TokenURL(t *testing.T) {
	provider := ClientCredentials(context.Background(), "my-tenant", "client", "secret")

	require.NotNil(t, provider)
	assert.NotNil(t, provider.source)
}

func TestProvider_TokenRoundTrip(t *testing.T) {
	var form string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.Form.Encode()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "issued-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	cfg := &clientcredentials.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		TokenURL:     server.URL,
		Scopes:       []string{defaultScope},
	}
	provider := FromTokenSource(cfg.TokenSource(context.Background()))

	token, err := provider.Token(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "issued-token", token)
	assert.Contains(t, form, "grant_type=client_credentials")
}

func TestProvider_TokenErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": "invalid_client"}`)
	}))
	defer server.Close()

	cfg := &clientcredentials.Config{
		ClientID: "client",
		TokenURL: server.URL,
	}
	provider := FromTokenSource(cfg.TokenSource(context.Background()))

	_, err := provider.Token(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquire token")
}
