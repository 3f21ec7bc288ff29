package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// User is the portion of the GitHub /user API response we care about.
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
}

type emailEntry struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// Provider wraps golang.org/x/oauth2 for the GitHub authorization code flow.
// The code-for-token exchange happens server-to-server with the client
// secret; the access token never reaches the browser.
type Provider struct {
	config *oauth2.Config
	apiURL string
}

// NewProvider creates a Provider. callbackURL must exactly match the
// authorization callback URL registered in the GitHub OAuth app.
func NewProvider(clientID, clientSecret, callbackURL string) *Provider {
	return &Provider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiURL: "https://api.github.com",
	}
}

// AuthURL returns the URL the browser is redirected to. The state value is
// verified on callback to block CSRF.
func (p *Provider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for the GitHub user profile.
// When the profile hides the email, /user/emails is consulted: the primary
// verified address wins, then any verified address.
func (p *Provider) Exchange(ctx context.Context, code string) (*User, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github: exchanging oauth code: %w", err)
	}

	client := p.config.Client(ctx, oauthToken)

	user, err := p.fetchUser(client)
	if err != nil {
		return nil, err
	}

	if user.Email == "" {
		email, err := p.fetchVerifiedEmail(client)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}

	return user, nil
}

func (p *Provider) fetchUser(client *http.Client) (*User, error) {
	resp, err := client.Get(p.apiURL + "/user")
	if err != nil {
		return nil, fmt.Errorf("github: calling /user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github: /user returned status %d", resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("github: decoding /user response: %w", err)
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("github: invalid user in /user response")
	}

	return &user, nil
}

func (p *Provider) fetchVerifiedEmail(client *http.Client) (string, error) {
	resp, err := client.Get(p.apiURL + "/user/emails")
	if err != nil {
		return "", fmt.Errorf("github: calling /user/emails: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github: /user/emails returned status %d", resp.StatusCode)
	}

	var emails []emailEntry
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return "", fmt.Errorf("github: decoding /user/emails response: %w", err)
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, nil
		}
	}

	return "", fmt.Errorf("github: no verified email on account")
}
