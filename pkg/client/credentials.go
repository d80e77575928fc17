package client

import (
	"context"
	"errors"
	"os"
	"strings"
)

// TokenEnv is the environment variable read by EnvToken
const TokenEnv = "DIWAN_TOKEN"

// ErrNoCredentials is returned when a provider has no token to offer
var ErrNoCredentials = errors.New("no API token configured")

// CredentialProvider supplies the bearer token for each request
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken always returns the same token
type StaticToken string

// Token implements CredentialProvider
func (t StaticToken) Token(context.Context) (string, error) {
	tok := strings.TrimSpace(string(t))
	if tok == "" {
		return "", ErrNoCredentials
	}
	return tok, nil
}

// EnvToken reads the token from DIWAN_TOKEN on every call
type EnvToken struct{}

// Token implements CredentialProvider
func (EnvToken) Token(ctx context.Context) (string, error) {
	return StaticToken(os.Getenv(TokenEnv)).Token(ctx)
}

// Anonymous sends no Authorization header; only public endpoints work
type Anonymous struct{}

// Token implements CredentialProvider
func (Anonymous) Token(context.Context) (string, error) {
	return "", nil
}

// FirstOf returns the first provider that yields a token
func FirstOf(providers ...CredentialProvider) CredentialProvider {
	return chain(providers)
}

type chain []CredentialProvider

func (c chain) Token(ctx context.Context) (string, error) {
	for _, p := range c {
		tok, err := p.Token(ctx)
		if err == nil && tok != "" {
			return tok, nil
		}
		if err != nil && !errors.Is(err, ErrNoCredentials) {
			return "", err
		}
	}
	return "", ErrNoCredentials
}
