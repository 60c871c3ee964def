package models

// Setting is a single key/value configuration row, e.g. the pointer to the
// currently active account.
type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string
}
