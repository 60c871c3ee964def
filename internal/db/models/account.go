package models

import "time"

// Account is one connected seller credential. ID is the marketplace seller id
// when the token exchange reports one, otherwise the display account name;
// re-adding the same id overwrites in place.
type Account struct {
	ID           string `gorm:"primaryKey" json:"id"`
	SellerID     string `json:"seller_id"`
	Account      string `json:"account"`
	Country      string `json:"country"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`

	// ExpiresIn is the token lifetime in seconds as reported at issuance.
	ExpiresIn int64 `json:"expires_in"`

	// TokenExpiresAt is issuance time + ExpiresIn, computed once at write
	// time and never recomputed afterwards.
	TokenExpiresAt time.Time `json:"token_expires_at"`

	AddedAt time.Time `json:"added_at"`

	// Position fixes the listing order. Assigned at first insert and kept
	// across overwrites.
	Position int64 `json:"-"`
}
