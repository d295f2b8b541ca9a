package auth

import (
	"context"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Claims holds the token claims the API cares about
type Claims struct {
	Sub   string
	Email string
	Name  string
	Iss   string
	Exp   int64
	Iat   int64
}

// Verifier verifies bearer tokens against a JWKS endpoint
type Verifier struct {
	keys    *KeyCache
	issuer  string
	jwksURL string
}

// NewVerifier creates a new token verifier
func NewVerifier(keys *KeyCache, issuer, jwksURL string) *Verifier {
	return &Verifier{
		keys:    keys,
		issuer:  issuer,
		jwksURL: jwksURL,
	}
}

// Verify parses and validates a token and extracts its claims
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	keys, err := v.keys.Get(ctx, v.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get JWKS: %w", err)
	}

	token, err := jwt.Parse([]byte(tokenString), jwt.WithKeySet(keys), jwt.WithValidate(true))
	if err != nil {
		return nil, fmt.Errorf("failed to parse/verify token: %w", err)
	}

	if token.Issuer() != v.issuer {
		return nil, fmt.Errorf("token issuer mismatch: expected %s, got %s", v.issuer, token.Issuer())
	}

	claims := &Claims{
		Sub: token.Subject(),
		Iss: token.Issuer(),
		Exp: token.Expiration().Unix(),
		Iat: token.IssuedAt().Unix(),
	}

	if email, ok := token.Get("email"); ok {
		if emailStr, ok := email.(string); ok {
			claims.Email = emailStr
		}
	}
	if name, ok := token.Get("name"); ok {
		if nameStr, ok := name.(string); ok {
			claims.Name = nameStr
		}
	}

	return claims, nil
}
