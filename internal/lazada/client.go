package lazada

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	pathTokenCreate  = "/auth/token/create"
	pathTokenRefresh = "/auth/token/refresh"

	signMethod  = "sha256"
	callTimeout = 30 * time.Second
)

// Client signs and dispatches calls against the Lazada open platform. It holds
// no per-call state: every request computes its own timestamp and signature at
// dispatch time, so concurrent calls never race on signing state.
//
// The client performs no automatic retries and no automatic token refresh.
type Client struct {
	appKey     string
	appSecret  string
	baseURL    string
	httpClient *http.Client
	nowFunc    func() time.Time
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(cl *Client) {
		cl.nowFunc = f
	}
}

// NewClient creates a platform client for one app key/secret pair.
func NewClient(appKey, appSecret, baseURL string, opts ...Option) *Client {
	c := &Client{
		appKey:     appKey,
		appSecret:  appSecret,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: callTimeout},
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateAccessToken exchanges a one-time authorization code for tokens.
// The decoded response is returned only on full success; a rejected code
// surfaces as *AuthorizationError and nothing should be stored.
func (c *Client) CreateAccessToken(ctx context.Context, code string) (*TokenResponse, error) {
	params := c.baseParams()
	params["code"] = code
	return c.exchange(ctx, pathTokenCreate, params)
}

// RefreshAccessToken mints a new access token from a refresh token. Invoking
// it is a caller decision; nothing in this package calls it reactively.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	params := c.baseParams()
	params["refresh_token"] = refreshToken
	return c.exchange(ctx, pathTokenRefresh, params)
}

// Call issues a signed authenticated request. The signature covers the full
// merged parameter set including access_token, and everything, extras and the
// signature included, travels in the query string; the platform reads no body
// on signed calls. Extra values must already be flat strings: complex values
// are serialized to text (e.g. JSON) by the caller before inclusion.
func (c *Client) Call(ctx context.Context, apiPath, accessToken string, extra map[string]string) (*Response, error) {
	params := c.baseParams()
	params["access_token"] = accessToken
	for k, v := range extra {
		params[k] = v
	}
	params["sign"] = Sign(apiPath, params, c.appSecret)

	body, err := c.do(ctx, http.MethodGet, apiPath, params)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding response from %s: %w", apiPath, err)
	}
	resp.Raw = body

	if !resp.OK() {
		log.Warn().
			Str("path", apiPath).
			Str("code", string(resp.Code)).
			Str("message", resp.Message).
			Msg("platform returned non-zero code")
	}
	return &resp, nil
}

func (c *Client) exchange(ctx context.Context, apiPath string, params map[string]string) (*TokenResponse, error) {
	params["sign"] = Sign(apiPath, params, c.appSecret)

	body, err := c.do(ctx, http.MethodPost, apiPath, params)
	if err != nil {
		return nil, err
	}

	var tok TokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("decoding token response from %s: %w", apiPath, err)
	}
	if !tok.Code.OK() {
		return nil, &AuthorizationError{
			Path:      apiPath,
			Code:      tok.Code,
			Message:   tok.Message,
			RequestID: tok.RequestID,
		}
	}
	return &tok, nil
}

func (c *Client) do(ctx context.Context, method, apiPath string, params map[string]string) ([]byte, error) {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", apiPath, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", apiPath, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", apiPath, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{Path: apiPath, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// baseParams returns the parameters common to every signed request, with a
// fresh millisecond timestamp. A stale timestamp invalidates the signature on
// the remote side; replay-window enforcement is the server's job.
func (c *Client) baseParams() map[string]string {
	return map[string]string{
		"app_key":     c.appKey,
		"timestamp":   strconv.FormatInt(c.nowFunc().UnixMilli(), 10),
		"sign_method": signMethod,
	}
}
