package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// Client talks to a Supabase project over its PostgREST and auth endpoints.
type Client struct {
	URL        string
	ServiceKey string
	HTTPClient *http.Client
}

// NewClient creates a new Supabase client
func NewClient(url, serviceKey string) *Client {
	return &Client{
		URL:        url,
		ServiceKey: serviceKey,
		HTTPClient: &http.Client{},
	}
}

func (c *Client) newRequest(ctx context.Context, method, url string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.ServiceKey))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(req *http.Request) ([]byte, *http.Response, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, nil, fmt.Errorf("supabase error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, resp, nil
}

func setQuery(req *http.Request, query map[string]interface{}) {
	q := req.URL.Query()
	for key, value := range query {
		q.Add(key, fmt.Sprintf("%v", value))
	}
	req.URL.RawQuery = q.Encode()
}

// Query executes a filtered select on a table and returns the raw JSON body.
func (c *Client) Query(ctx context.Context, table string, query map[string]interface{}) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("%s/rest/v1/%s", c.URL, table), nil)
	if err != nil {
		return nil, err
	}
	setQuery(req, query)

	body, _, err := c.do(req)
	return body, err
}

// Insert inserts one record or a batch into a table and returns the inserted
// rows.
func (c *Client) Insert(ctx context.Context, table string, data interface{}) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("%s/rest/v1/%s", c.URL, table), payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", "return=representation")

	body, _, err := c.do(req)
	return body, err
}

// DeleteWhere deletes the records matching a query.
func (c *Client) DeleteWhere(ctx context.Context, table string, query map[string]interface{}) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("%s/rest/v1/%s", c.URL, table), nil)
	if err != nil {
		return err
	}
	setQuery(req, query)

	_, _, err = c.do(req)
	return err
}

// Count returns the exact number of rows matching a query without fetching
// them. PostgREST reports the total in the Content-Range header.
func (c *Client) Count(ctx context.Context, table string, query map[string]interface{}) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("%s/rest/v1/%s", c.URL, table), nil)
	if err != nil {
		return 0, err
	}
	setQuery(req, query)
	req.Header.Set("Prefer", "count=exact")
	req.Header.Set("Range", "0-0")
	req.Header.Set("Range-Unit", "items")

	_, resp, err := c.do(req)
	if err != nil {
		return 0, err
	}

	// Content-Range looks like "0-0/42" or "*/0".
	contentRange := resp.Header.Get("Content-Range")
	idx := strings.LastIndex(contentRange, "/")
	if idx < 0 {
		return 0, fmt.Errorf("missing count in Content-Range %q", contentRange)
	}
	count, err := strconv.ParseInt(contentRange[idx+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad count in Content-Range %q: %w", contentRange, err)
	}
	return count, nil
}

// VerifyToken resolves a user JWT against the Supabase auth endpoint.
func (c *Client) VerifyToken(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/auth/v1/user", c.URL), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))

	body, _, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}

// User represents a Supabase user
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
