package db

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sellerdesk/lazgate/internal/db/models"
)

// InitDB opens the SQLite credential store and runs migrations.
func InitDB(dbPath string) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := gdb.AutoMigrate(&models.Account{}, &models.Setting{}); err != nil {
		return nil, err
	}
	return gdb, nil
}
