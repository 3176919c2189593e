// Package facebook implements the external identity verifier against the
// Facebook Graph API: token validation via /debug_token and user info via
// /me.
package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// UserInfo is the identity information reported by the Graph API for a
// validated access token.
type UserInfo struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Client calls the Facebook Graph API. BaseURL is configurable so tests can
// point it at a local server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	appID      string
	appSecret  string
}

// NewClient constructs a Graph API client for the given app credentials.
func NewClient(baseURL, appID, appSecret string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		appID:      appID,
		appSecret:  appSecret,
	}
}

type debugTokenResponse struct {
	Data struct {
		IsValid bool `json:"is_valid"`
	} `json:"data"`
}

// ValidateAccessToken asks the Graph API whether the user token is valid
// for this app. A definitive "not valid" answer is not an error.
func (c *Client) ValidateAccessToken(ctx context.Context, accessToken string) (bool, error) {
	q := url.Values{}
	q.Set("input_token", accessToken)
	q.Set("access_token", c.appID+"|"+c.appSecret)

	var resp debugTokenResponse
	if err := c.get(ctx, "/debug_token", q, &resp); err != nil {
		return false, err
	}
	return resp.Data.IsValid, nil
}

// GetUserInfo fetches the profile fields for the token's user.
func (c *Client) GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	q := url.Values{}
	q.Set("fields", "id,email,first_name,last_name")
	q.Set("access_token", accessToken)

	info := &UserInfo{}
	if err := c.get(ctx, "/me", q, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graph api status: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("graph api response: %w", err)
	}
	return nil
}
