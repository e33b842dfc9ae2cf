package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenFile_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	store := NewTokenFile(path)

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, tok)

	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, store.Save(&oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       expiry,
	}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	tok, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "access", tok.AccessToken)
	assert.Equal(t, "refresh", tok.RefreshToken)
	assert.True(t, expiry.Equal(tok.Expiry))
}

func TestTokenFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewTokenFile(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse token file")
}

func TestProvider_NoToken(t *testing.T) {
	p := NewProvider(Config{TokenFile: filepath.Join(t.TempDir(), "token.json")}, nil)

	_, err := p.Token()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuthExpired))
	assert.False(t, p.Authorized())
}

func TestProvider_UsesStoredToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, NewTokenFile(path).Save(&oauth2.Token{
		AccessToken: "still-valid",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}))

	p := NewProvider(Config{TokenFile: path}, nil)

	tok, err := p.Token()
	require.NoError(t, err)
	assert.Equal(t, "still-valid", tok.AccessToken)
	assert.True(t, p.Authorized())
}

func TestProvider_AuthorizedReadsCachedState(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		refresh string
		want    bool
	}{
		{"expired with refresh token", "refresh", true},
		{"expired without refresh token", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "token.json")
			require.NoError(t, NewTokenFile(path).Save(&oauth2.Token{
				AccessToken:  "stale",
				RefreshToken: tt.refresh,
				TokenType:    "Bearer",
				Expiry:       time.Now().Add(-time.Hour),
			}))

			p := NewProvider(Config{TokenFile: path}, nil)
			p.oauth.Endpoint.TokenURL = srv.URL

			assert.Equal(t, tt.want, p.Authorized())
			assert.Zero(t, hits.Load(), "Authorized must not refresh")
		})
	}
}

func TestProvider_AuthorizedFalseAfterFailedRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, NewTokenFile(path).Save(&oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "revoked",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	p := NewProvider(Config{TokenFile: path}, nil)
	p.oauth.Endpoint.TokenURL = srv.URL
	require.True(t, p.Authorized())

	_, err := p.Token()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuthExpired))
	assert.False(t, p.Authorized())
}

func TestProvider_AuthorizedDoesNotWaitOnRefresh(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, NewTokenFile(path).Save(&oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	p := NewProvider(Config{TokenFile: path}, nil)
	p.oauth.Endpoint.TokenURL = srv.URL

	done := make(chan error, 1)
	go func() {
		_, err := p.Token()
		done <- err
	}()
	<-entered

	got := make(chan bool, 1)
	go func() { got <- p.Authorized() }()
	select {
	case ok := <-got:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("Authorized blocked behind an in-flight refresh")
	}

	close(release)
	require.Error(t, <-done)
}

func TestProvider_AuthCodeURL(t *testing.T) {
	p := NewProvider(Config{ClientID: "client-123"}, nil)

	u := p.AuthCodeURL("state-1")
	assert.True(t, strings.HasPrefix(u, "https://accounts.google.com/"))
	assert.Contains(t, u, "client_id=client-123")
	assert.Contains(t, u, "access_type=offline")
	assert.Contains(t, u, "prompt=consent")
	assert.Contains(t, u, "display-video")
}
