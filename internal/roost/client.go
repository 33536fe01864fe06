package roost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Service defines the interface for the Roost account operations preen
// performs. This interface is implemented by *Client and can be used for
// testing.
type Service interface {
	FetchProfile(ctx context.Context) (*Profile, error)
	FetchSettings(ctx context.Context) (*Settings, error)
	SaveProfile(ctx context.Context, data map[string]any, customFields map[string]string) error
	UploadAvatar(ctx context.Context, dataURI string) error
	DeleteOwnAccount(ctx context.Context, hashedCredential string, force bool) error
	RevokeOtherSessions(ctx context.Context) error
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the Roost HTTP API as the authenticated user.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	token     string
	userAgent string
}

const (
	defaultUserAgent = "preen/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the given server URL and bearer token.
func NewClient(serverURL, token string) (*Client, error) {
	base, err := parseBaseURL(serverURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		token:     token,
		userAgent: defaultUserAgent,
	}, nil
}

// FetchProfile retrieves the authenticated user's profile.
func (c *Client) FetchProfile(ctx context.Context) (*Profile, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload Profile
	if err := c.do(ctx, http.MethodGet, "/api/v1/me", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchSettings retrieves the administrator settings bag.
func (c *Client) FetchSettings(ctx context.Context) (*Settings, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload Settings
	if err := c.do(ctx, http.MethodGet, "/api/v1/settings", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SaveProfile submits a profile diff along with the custom field values.
func (c *Client) SaveProfile(ctx context.Context, data map[string]any, customFields map[string]string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	body := saveRequest{Data: data, CustomFields: customFields}
	return c.do(ctx, http.MethodPost, "/api/v1/me", body, nil)
}

// UploadAvatar submits a new avatar image as a data URI.
func (c *Client) UploadAvatar(ctx context.Context, dataURI string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(dataURI) == "" {
		return fmt.Errorf("avatar image required")
	}
	return c.do(ctx, http.MethodPost, "/api/v1/me/avatar", avatarRequest{Image: dataURI}, nil)
}

// DeleteOwnAccount requests deletion of the authenticated user's account.
// The credential must already be hashed; it is never sent in clear text.
func (c *Client) DeleteOwnAccount(ctx context.Context, hashedCredential string, force bool) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if hashedCredential == "" {
		return fmt.Errorf("credential required")
	}
	body := deleteRequest{Password: hashedCredential, Force: force}
	return c.do(ctx, http.MethodPost, "/api/v1/me/delete", body, nil)
}

// RevokeOtherSessions logs out every session except the current one.
func (c *Client) RevokeOtherSessions(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodPost, "/api/v1/me/logout-others", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeAPIError(rel.Path, resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError converts an error response into an *APIError. A body
// that fails to decode degrades to a plain status error so the status
// code is never swallowed.
func decodeAPIError(path string, resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(raw) == 0 {
		return fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}
	if err := json.Unmarshal(raw, apiErr); err != nil {
		return fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}
	return apiErr
}

func parseBaseURL(serverURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(serverURL)
	if trimmed == "" {
		return nil, fmt.Errorf("server URL required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server URL %q: %w", serverURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
