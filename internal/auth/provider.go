// Package auth supplies bearer credentials for DV360 calls. Tokens come from
// an out-of-band OAuth consent and are refreshed and persisted transparently.
package auth

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
)

// Scope grants read/write access to Display & Video 360.
const Scope = "https://www.googleapis.com/auth/display-video"

// DefaultRedirectURL is the out-of-band redirect used by installed apps.
const DefaultRedirectURL = "urn:ietf:wg:oauth:2.0:oob"

// Config holds OAuth client settings.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TokenFile    string
}

// Provider is an oauth2.TokenSource backed by a token file. It is safe for
// concurrent use.
type Provider struct {
	oauth  *oauth2.Config
	store  *TokenFile
	logger *zap.Logger

	mu     sync.Mutex
	source oauth2.TokenSource
	last   string

	// current is the last token seen, readable without mu. An empty token
	// marks a failed refresh.
	current atomic.Pointer[oauth2.Token]
}

// NewProvider creates a provider. No token is read until first use.
func NewProvider(cfg Config, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	redirect := cfg.RedirectURL
	if redirect == "" {
		redirect = DefaultRedirectURL
	}
	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  redirect,
			Endpoint:     google.Endpoint,
			Scopes:       []string{Scope},
		},
		store:  NewTokenFile(cfg.TokenFile),
		logger: logger.Named("auth"),
	}
}

// AuthCodeURL returns the consent page the user must visit.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// Exchange trades an authorization code for a token and stores it.
func (p *Provider) Exchange(ctx context.Context, code string) error {
	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("auth: exchange code: %w", err)
	}
	if err := p.store.Save(tok); err != nil {
		return err
	}

	p.mu.Lock()
	p.source = oauth2.ReuseTokenSource(tok, p.oauth.TokenSource(context.Background(), tok))
	p.last = tok.AccessToken
	p.current.Store(tok)
	p.mu.Unlock()

	p.logger.Info("oauth token stored",
		zap.String("token_file", p.store.Path()),
		zap.Time("expiry", tok.Expiry),
		zap.Bool("has_refresh_token", tok.RefreshToken != ""),
	)
	return nil
}

// Token returns a valid token, refreshing it when needed. It fails with
// domain.ErrAuthExpired when no usable token exists.
func (p *Provider) Token() (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.source == nil {
		tok, err := p.store.Load()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrAuthExpired, err)
		}
		if tok == nil {
			return nil, fmt.Errorf("%w: no token at %s, complete the consent flow first",
				domain.ErrAuthExpired, p.store.Path())
		}
		p.source = oauth2.ReuseTokenSource(tok, p.oauth.TokenSource(context.Background(), tok))
		p.last = tok.AccessToken
		p.current.Store(tok)
	}

	tok, err := p.source.Token()
	if err != nil {
		p.current.Store(&oauth2.Token{})
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthExpired, err)
	}
	p.current.Store(tok)

	if tok.AccessToken != p.last {
		if err := p.store.Save(tok); err != nil {
			p.logger.Warn("failed to persist refreshed token", zap.Error(err))
		} else {
			p.logger.Info("oauth token refreshed", zap.Time("expiry", tok.Expiry))
		}
		p.last = tok.AccessToken
	}

	return tok, nil
}

// Authorized reports whether a usable token is on hand: one still valid, or
// one that can be refreshed. It never refreshes and never waits on Token, so
// it is safe to call from health checks.
func (p *Provider) Authorized() bool {
	tok := p.current.Load()
	if tok == nil {
		stored, err := p.store.Load()
		if err != nil {
			return false
		}
		tok = stored
	}
	return tok != nil && (tok.Valid() || tok.RefreshToken != "")
}
