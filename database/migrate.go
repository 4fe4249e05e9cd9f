package database

import (
	"radio-cms/domain"

	"gorm.io/gorm"
)

func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Role{},
		&domain.User{},
		&domain.MenuItem{},
		&domain.News{},
		&domain.Comment{},
		&domain.Podcast{},
		&domain.Advertising{},
		&domain.Contact{},
	)
}
