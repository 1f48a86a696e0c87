package oauth

import (
	"context"

	"golang.org/x/oauth2"
)

// UserInfo represents user information from an OAuth provider.
type UserInfo struct {
	ID        string
	Email     string
	Name      string
	AvatarURL string
}

// Provider defines the interface for OAuth providers.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// AuthURL returns the OAuth authorization URL for the given state.
	AuthURL(state string) string

	// Exchange exchanges the authorization code for tokens.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// UserInfo fetches user information using the access token.
	UserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error)
}

// Config holds OAuth provider configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Registry holds the configured OAuth providers by name.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider) {
	r.providers[p.Name()] = p
}

// Get returns the provider with the given name, or nil.
func (r *Registry) Get(name string) Provider {
	return r.providers[name]
}

// Names returns the registered provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
