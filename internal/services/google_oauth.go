package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"lostfound/internal/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// ErrEmailNotVerified Google 账号邮箱未验证
var ErrEmailNotVerified = errors.New("google email not verified")

// IdentityProvider 外部 OAuth 登录提供方
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (models.Identity, error)
}

// GoogleUserInfo Google 用户信息结构
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// GoogleProvider Google OAuth2 登录
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

// NewGoogleProvider 初始化 Google OAuth 配置，回调地址为 siteURL + /auth/google/callback
func NewGoogleProvider(clientID, clientSecret, siteURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  strings.TrimSuffix(siteURL, "/") + "/auth/google/callback",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange 用授权码换取 token 并读取用户信息
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (models.Identity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return models.Identity{}, fmt.Errorf("exchange code: %w", err)
	}

	info, err := p.userInfo(ctx, token)
	if err != nil {
		return models.Identity{}, err
	}
	if !info.VerifiedEmail {
		return models.Identity{}, ErrEmailNotVerified
	}

	return models.Identity{DisplayName: displayName(info), Email: info.Email}, nil
}

func (p *GoogleProvider) userInfo(ctx context.Context, token *oauth2.Token) (*GoogleUserInfo, error) {
	resp, err := p.config.Client(ctx, token).Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch userinfo: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var info GoogleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return &info, nil
}

// displayName: 优先全名，其次名，最后邮箱前缀
func displayName(info *GoogleUserInfo) string {
	if n := strings.TrimSpace(info.Name); n != "" {
		return n
	}
	if n := strings.TrimSpace(info.GivenName); n != "" {
		return n
	}
	return strings.Split(info.Email, "@")[0]
}

// GenerateStateToken 生成随机 state token
func GenerateStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
