package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/openlot/propfinder/api/internal/config"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleUserInfo is the subset of the Google userinfo response we consume.
type GoogleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleVerifier exchanges an authorization code for the Google account
// behind it. Abstracted as an interface so the auth service can be tested
// without talking to Google.
type GoogleVerifier interface {
	Exchange(ctx context.Context, code string) (*GoogleUserInfo, error)
}

// googleVerifier implements GoogleVerifier against the real Google endpoints.
type googleVerifier struct {
	oauth *oauth2.Config
}

// NewGoogleVerifier builds a verifier from the configured OAuth credentials.
func NewGoogleVerifier(cfg config.AuthConfig) GoogleVerifier {
	return &googleVerifier{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
	}
}

// Exchange swaps the authorization code for an access token and fetches the
// user's profile from the userinfo endpoint.
func (v *googleVerifier) Exchange(ctx context.Context, code string) (*GoogleUserInfo, error) {
	token, err := v.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	client := v.oauth.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("userinfo request failed with status %d: %s", resp.StatusCode, body)
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if info.ID == "" || info.Email == "" {
		return nil, fmt.Errorf("userinfo response missing id or email")
	}

	return &info, nil
}
