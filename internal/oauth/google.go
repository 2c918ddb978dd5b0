// Package oauth implements the external identity exchange against Google.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ddanilov/authcore/internal/model"
)

var _ model.IdentityExchanger = (*Google)(nil)

const userinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// Google exchanges authorization codes for verified Google identities.
type Google struct {
	config *oauth2.Config
}

func NewGoogle(clientID, clientSecret, redirectURL string) *Google {
	return &Google{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the consent-screen URL for the given state value.
func (g *Google) AuthURL(state string) string {
	return g.config.AuthCodeURL(state)
}

// Exchange swaps the authorization code for tokens and resolves the
// userinfo endpoint into an external identity. Accounts whose email Google
// has not verified are rejected.
func (g *Google) Exchange(ctx context.Context, code string) (model.ExternalIdentity, error) {
	tok, err := g.config.Exchange(ctx, code)
	if err != nil {
		return model.ExternalIdentity{}, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	resp, err := g.config.Client(ctx, tok).Get(userinfoURL)
	if err != nil {
		return model.ExternalIdentity{}, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.ExternalIdentity{}, fmt.Errorf("userinfo request failed with status %d", resp.StatusCode)
	}

	var info struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return model.ExternalIdentity{}, fmt.Errorf("failed to decode userinfo: %w", err)
	}

	if info.Sub == "" || info.Email == "" {
		return model.ExternalIdentity{}, fmt.Errorf("userinfo response missing subject or email")
	}
	if !info.EmailVerified {
		return model.ExternalIdentity{}, fmt.Errorf("google account email is not verified")
	}

	return model.ExternalIdentity{ID: info.Sub, Email: info.Email}, nil
}
