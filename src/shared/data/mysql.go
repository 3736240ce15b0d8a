package data

import (
	"log"

	"github.com/daoforge/bounty-board/src/shared/types"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func MustMySQL(dsn string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	return db
}

// Migrate creates or updates the board's tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Bounty{},
		&types.Customer{},
		&types.Setting{},
	)
}
