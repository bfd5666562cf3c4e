// Package msauth provides token providers for the Graph client backed by
// Azure AD application credentials.
package msauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Azure AD endpoints. The token URL is per-tenant.
const (
	tokenURLTemplate = "https://login.microsoftonline.com/%s/oauth2/v2.0/token"
	defaultScope     = "https://graph.microsoft.com/.default"
)

// Provider adapts an oauth2.TokenSource to the Graph client's
// TokenProvider interface.
type Provider struct {
	source oauth2.TokenSource
}

// Token returns the current access token, refreshing if needed.
func (p *Provider) Token(_ context.Context) (string, error) {
	token, err := p.source.Token()
	if err != nil {
		return "", fmt.Errorf("acquire token: %w", err)
	}
	return token.AccessToken, nil
}

// ClientCredentials returns a token provider using the OAuth2 client
// credentials grant for daemon applications. Tokens are cached and
// refreshed automatically.
func ClientCredentials(ctx context.Context, tenantID, clientID, clientSecret string) *Provider {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     fmt.Sprintf(tokenURLTemplate, tenantID),
		Scopes:       []string{defaultScope},
	}
	return &Provider{source: cfg.TokenSource(ctx)}
}

// FromTokenSource wraps an existing oauth2.TokenSource, for callers that
// manage their own delegated or interactive flows.
func FromTokenSource(source oauth2.TokenSource) *Provider {
	return &Provider{source: oauth2.ReuseTokenSource(nil, source)}
}
