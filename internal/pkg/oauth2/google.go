package oauth2

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userInfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// Config Google OAuth2 登录配置
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// UserInfo Google 账号信息
type UserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleAuthenticator 封装 Google OAuth2 授权码登录流程
type GoogleAuthenticator struct {
	config *oauth2.Config
	client *http.Client
}

// NewGoogleAuthenticator 创建 Google 登录认证器
func NewGoogleAuthenticator(cfg *Config) (*GoogleAuthenticator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("oauth2 config is required")
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("client_id and client_secret are required")
	}

	return &GoogleAuthenticator{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// AuthURL 生成授权跳转地址
func (g *GoogleAuthenticator) AuthURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange 用授权码换取账号信息
func (g *GoogleAuthenticator) Exchange(ctx context.Context, code string) (*UserInfo, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return g.fetchUserInfo(ctx, token)
}

// fetchUserInfo 拉取 Google 账号信息
func (g *GoogleAuthenticator) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoEndpoint, nil)
	if err != nil {
		return nil, err
	}
	token.SetAuthHeader(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("user info request failed: status %d: %s", resp.StatusCode, body)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("user info missing email")
	}

	return &info, nil
}
