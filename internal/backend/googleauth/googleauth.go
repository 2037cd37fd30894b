// Package googleauth loads the stored Google OAuth client and token.
//
// The Sheets backend always needs it. The web app backend uses it only when
// the deployment is restricted to signed-in users and a token exists.
package googleauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"todotrack/internal/config"
)

// Scopes requested at login.
var Scopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive.readonly",
}

// Errors returned by HTTPClient when a login is needed.
var (
	ErrNoOAuthClient = errors.New("oauth_client.json not found")
	ErrNotLoggedIn   = errors.New("not logged in (run: todotrack login)")
)

// OAuthConfig reads oauth_client.json.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// LoadToken reads token.json.
func LoadToken(cfg *config.Config) (*oauth2.Token, error) {
	data, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}
	return &token, nil
}

// SaveToken writes an OAuth token with mode 0600.
func SaveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// HTTPClient returns an auto-refreshing authenticated client.
// Requires oauth_client.json and token.json to exist.
func HTTPClient(ctx context.Context, cfg *config.Config) (*http.Client, error) {
	if !cfg.HasOAuthClient() {
		return nil, fmt.Errorf("%w in %s", ErrNoOAuthClient, cfg.Dir)
	}
	if !cfg.HasToken() {
		return nil, ErrNotLoggedIn
	}
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token)), nil
}

// TokenValid reports whether the stored token has a refresh token and can
// produce an access token.
func TokenValid(ctx context.Context, cfg *config.Config) bool {
	token, err := LoadToken(cfg)
	if err != nil || token.RefreshToken == "" {
		return false
	}
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return false
	}
	_, err = oauthConfig.TokenSource(ctx, token).Token()
	return err == nil
}
