// Package accounts is the durable registry of connected seller accounts plus
// the active-account pointer.
package accounts

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sellerdesk/lazgate/internal/db/models"
	"github.com/sellerdesk/lazgate/internal/lazada"
)

const activeAccountKey = "active_account"

// ErrNotFound is returned when an account id is not in the store.
var ErrNotFound = errors.New("account not found")

// Store tracks which accounts are connected, which one is active and when
// each account's token expires. It assumes single-writer-at-a-time use per
// client instance and never refreshes tokens itself: expiry is only reported.
type Store struct {
	db      *gorm.DB
	nowFunc func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(s *Store) {
		s.nowFunc = f
	}
}

// NewStore creates a store backed by the given database.
func NewStore(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db, nowFunc: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every stored account in insertion order. Re-upserting an
// existing id keeps its original position.
func (s *Store) List() ([]models.Account, error) {
	var accs []models.Account
	if err := s.db.Order("position").Find(&accs).Error; err != nil {
		return nil, err
	}
	return accs, nil
}

// Upsert stores the result of a successful token exchange. The record id is
// the reported seller id, falling back to the account name. Re-adding an
// existing id replaces every token field in place and recomputes
// token_expires_at; added_at and the list position are preserved.
func (s *Store) Upsert(tok *lazada.TokenResponse) (*models.Account, error) {
	now := s.nowFunc()

	id := tok.SellerID()
	if id == "" {
		id = tok.Account
	}

	acc := models.Account{
		ID:             id,
		SellerID:       tok.SellerID(),
		Account:        tok.Account,
		Country:        tok.Country,
		AccessToken:    tok.AccessToken,
		RefreshToken:   tok.RefreshToken,
		ExpiresIn:      tok.ExpiresIn,
		TokenExpiresAt: now.Add(time.Duration(tok.ExpiresIn) * time.Second),
		AddedAt:        now,
	}

	var existing models.Account
	err := s.db.First(&existing, "id = ?", id).Error
	switch {
	case err == nil:
		acc.AddedAt = existing.AddedAt
		acc.Position = existing.Position
	case errors.Is(err, gorm.ErrRecordNotFound):
		var maxPos int64
		if err := s.db.Model(&models.Account{}).
			Select("COALESCE(MAX(position), 0)").Scan(&maxPos).Error; err != nil {
			return nil, err
		}
		acc.Position = maxPos + 1
	default:
		return nil, err
	}

	if err := s.db.Save(&acc).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

// Get returns one account by id.
func (s *Store) Get(id string) (*models.Account, error) {
	var acc models.Account
	if err := s.db.First(&acc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}

// Remove deletes the account; removing an unknown id is not an error.
func (s *Store) Remove(id string) error {
	return s.db.Delete(&models.Account{}, "id = ?", id).Error
}

// SetActive marks the account with the given id as active and returns it.
// An unknown id returns ErrNotFound and leaves the previous pointer in place.
func (s *Store) SetActive(id string) (*models.Account, error) {
	acc, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Save(&models.Setting{Key: activeAccountKey, Value: id}).Error; err != nil {
		return nil, err
	}
	return acc, nil
}

// GetActive returns the active account, or (nil, nil) when no pointer is set
// or it references a removed account.
func (s *Store) GetActive() (*models.Account, error) {
	var setting models.Setting
	if err := s.db.First(&setting, "key = ?", activeAccountKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	acc, err := s.Get(setting.Value)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return acc, err
}

// IsExpired reports whether the account's access token has lapsed: true iff
// now is strictly after token_expires_at. It mutates nothing and triggers no
// refresh.
func (s *Store) IsExpired(acc *models.Account) bool {
	return s.nowFunc().After(acc.TokenExpiresAt)
}

// ClearAll removes every account and resets the active pointer.
func (s *Store) ClearAll() error {
	if err := s.db.Where("1 = 1").Delete(&models.Account{}).Error; err != nil {
		return err
	}
	return s.db.Delete(&models.Setting{}, "key = ?", activeAccountKey).Error
}
