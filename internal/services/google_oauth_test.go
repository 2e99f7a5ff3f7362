package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newFakeGoogle(t *testing.T, info GoogleUserInfo) (*GoogleProvider, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		_ = r.ParseForm()
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("Expected Bearer test-token, got %s", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(info)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	p := NewGoogleProvider("client-id", "client-secret", "http://localhost:3000/")
	p.config.Endpoint = oauth2.Endpoint{AuthURL: server.URL + "/auth", TokenURL: server.URL + "/token"}
	p.userInfoURL = server.URL + "/userinfo"
	return p, server
}

func TestGoogleProvider_AuthCodeURL(t *testing.T) {
	p := NewGoogleProvider("client-id", "secret", "http://localhost:3000/")
	u, err := url.Parse(p.AuthCodeURL("xyz"))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "xyz", q.Get("state"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "http://localhost:3000/auth/google/callback", q.Get("redirect_uri"))
}

func TestGoogleProvider_Exchange(t *testing.T) {
	p, _ := newFakeGoogle(t, GoogleUserInfo{ID: "1", Email: "bob@example.com", VerifiedEmail: true, Name: "Bob Builder"})

	id, err := p.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "Bob Builder", id.DisplayName)
	assert.Equal(t, "bob@example.com", id.Email)

	_, err = p.Exchange(context.Background(), "bad-code")
	assert.Error(t, err)
}

func TestGoogleProvider_UnverifiedEmail(t *testing.T) {
	p, _ := newFakeGoogle(t, GoogleUserInfo{ID: "1", Email: "eve@example.com", Name: "Eve"})

	_, err := p.Exchange(context.Background(), "good-code")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestDisplayNameFallbacks(t *testing.T) {
	assert.Equal(t, "Ann", displayName(&GoogleUserInfo{GivenName: "Ann", Email: "a@x.io"}))
	assert.Equal(t, "a", displayName(&GoogleUserInfo{Email: "a@x.io"}))
}

func TestGenerateStateToken(t *testing.T) {
	a, err := GenerateStateToken()
	require.NoError(t, err)
	b, err := GenerateStateToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 44)
}
