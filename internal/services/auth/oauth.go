package auth

import (
	"context"

	"golang.org/x/oauth2"
)

// OAuthClient wraps the OAuth2 authorization-code flow
type OAuthClient struct {
	config *oauth2.Config
}

// NewOAuthClient creates an OAuth2 client for the identity provider
func NewOAuthClient(clientID, authURL, tokenURL, redirectURL string) *OAuthClient {
	config := &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURL,
		Scopes:      []string{"openid", "email", "profile"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}

	return &OAuthClient{config: config}
}

// AuthCodeURL returns the authorization URL for the login redirect
func (c *OAuthClient) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state)
}

// ExchangeCode exchanges an authorization code for tokens
func (c *OAuthClient) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return c.config.Exchange(ctx, code)
}
