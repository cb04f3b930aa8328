package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a thin HTTP client for the hushdrop server API.
type Client struct {
	baseURL    string
	adminToken string
	httpc      *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// SetAdminToken attaches a bearer token to subsequent requests.
func (c *Client) SetAdminToken(token string) {
	c.adminToken = token
}

type SecretInfo struct {
	Token     string    `json:"token"`
	MaxViews  int       `json:"max_views"`
	ViewCount int       `json:"view_count"`
	Revoked   bool      `json:"revoked"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type LogEntry struct {
	SecretToken *string   `json:"secret_token"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	Action      string    `json:"action"`
	Details     *string   `json:"details,omitempty"`
	AccessedAt  time.Time `json:"accessed_at"`
}

type apiError struct {
	Message string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.adminToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.adminToken)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var ae apiError
		if err := json.NewDecoder(resp.Body).Decode(&ae); err == nil && ae.Message != "" {
			return fmt.Errorf("server: %s (%d)", ae.Message, resp.StatusCode)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) CreateSecret(ctx context.Context, content string, maxViews int, expiresAt *time.Time) (*SecretInfo, error) {
	req := map[string]any{"content": content, "max_views": maxViews}
	if expiresAt != nil {
		req["expires_at"] = expiresAt
	}
	var info SecretInfo
	if err := c.do(ctx, http.MethodPost, "/api/secrets", req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) ViewSecret(ctx context.Context, token string) (string, error) {
	var resp struct {
		Content string `json:"content"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/secrets/"+token, nil, &resp); err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (c *Client) RevokeSecret(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/api/secrets/"+token, nil, nil)
}

func (c *Client) ListSecrets(ctx context.Context) ([]SecretInfo, error) {
	var list []SecretInfo
	if err := c.do(ctx, http.MethodGet, "/api/secrets", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) RecentLogs(ctx context.Context) ([]LogEntry, error) {
	var list []LogEntry
	if err := c.do(ctx, http.MethodGet, "/api/logs", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}
