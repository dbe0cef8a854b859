package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ostrauer/briefshelf-backend/internal/pkg/envutil"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

// User is the identity provider's view of an account. The role attribute may
// live in the token claims, in either metadata tier, or nested under a
// "claims" object inside self-service metadata; resolution order is owned by
// the access gate.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	AppMetadata  map[string]any `json:"app_metadata"`
	UserMetadata map[string]any `json:"user_metadata"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	User         *User  `json:"user,omitempty"`
}

// Client talks to the hosted identity provider's REST surface. The access
// gate and the login/password-reset handlers are its only consumers.
type Client interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	GetUser(ctx context.Context, accessToken string) (*User, error)
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	SendPasswordReset(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		BaseURL: strings.TrimSpace(os.Getenv("IDENTITY_BASE_URL")),
		APIKey:  strings.TrimSpace(os.Getenv("IDENTITY_API_KEY")),
		Timeout: time.Duration(envutil.Int("IDENTITY_TIMEOUT_SECONDS", 15)) * time.Second,
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("missing IDENTITY_BASE_URL")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing IDENTITY_API_KEY")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &client{
		log:        log.With("client", "IdentityClient"),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func (c *client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", map[string]string{
		"email":    email,
		"password": password,
	}, &session)
	if err != nil {
		return nil, fmt.Errorf("identity sign-in: %w", err)
	}
	return &session, nil
}

func (c *client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &user); err != nil {
		return nil, fmt.Errorf("identity get user: %w", err)
	}
	return &user, nil
}

func (c *client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	var session Session
	err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", map[string]string{
		"refresh_token": refreshToken,
	}, &session)
	if err != nil {
		return nil, fmt.Errorf("identity refresh: %w", err)
	}
	return &session, nil
}

func (c *client) SignOut(ctx context.Context, accessToken string) error {
	if err := c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil); err != nil {
		return fmt.Errorf("identity sign-out: %w", err)
	}
	return nil
}

func (c *client) SendPasswordReset(ctx context.Context, email string) error {
	err := c.do(ctx, http.MethodPost, "/recover", "", map[string]string{"email": email}, nil)
	if err != nil {
		return fmt.Errorf("identity password reset: %w", err)
	}
	return nil
}

func (c *client) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	err := c.do(ctx, http.MethodPut, "/user", accessToken, map[string]string{
		"password": newPassword,
	}, nil)
	if err != nil {
		return fmt.Errorf("identity update password: %w", err)
	}
	return nil
}

// do issues one request. Single attempt; auth failures are surfaced to the
// caller, never retried.
func (c *client) do(ctx context.Context, method, path, accessToken string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
