package lazada

import (
	"encoding/json"
	"strings"
)

// StatusCode is the application-level result code inside a platform response.
// The platform is inconsistent about the JSON type: some endpoints return the
// code as a string ("0"), others as a number (0), so decoding accepts both.
type StatusCode string

// OK reports whether the code signals application-level success.
func (c StatusCode) OK() bool {
	return c == "0"
}

func (c *StatusCode) UnmarshalJSON(data []byte) error {
	*c = StatusCode(strings.Trim(string(data), `"`))
	return nil
}

// CountryUserInfo is one per-country identity entry in a token response.
type CountryUserInfo struct {
	Country   string `json:"country"`
	UserID    string `json:"user_id"`
	SellerID  string `json:"seller_id"`
	ShortCode string `json:"short_code"`
}

// TokenResponse is the decoded body of a token create or refresh exchange.
type TokenResponse struct {
	Code            StatusCode        `json:"code"`
	Message         string            `json:"message,omitempty"`
	RequestID       string            `json:"request_id,omitempty"`
	AccessToken     string            `json:"access_token"`
	RefreshToken    string            `json:"refresh_token"`
	ExpiresIn       int64             `json:"expires_in"`
	Country         string            `json:"country"`
	Account         string            `json:"account"`
	CountryUserInfo []CountryUserInfo `json:"country_user_info"`
}

// SellerID returns the first seller id reported in country_user_info, or ""
// when the platform did not include one.
func (r *TokenResponse) SellerID() string {
	for _, info := range r.CountryUserInfo {
		if info.SellerID != "" {
			return info.SellerID
		}
	}
	return ""
}

// Response is the generic envelope of an authenticated call. Data and Result
// stay raw: payload parsing belongs to the business layer, not this client.
// A non-success Code inside a 2xx transport response is data, never an error.
type Response struct {
	Code      StatusCode      `json:"code"`
	Message   string          `json:"message,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`

	// Raw is the full response body as received.
	Raw []byte `json:"-"`
}

// OK reports application-level success.
func (r *Response) OK() bool {
	return r.Code.OK()
}
