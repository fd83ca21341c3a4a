package models

import (
	"log"

	"gorm.io/gorm"
)

// AutoMigrate создает и обновляет таблицы справочников
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Region{},
		&Province{},
		&Supermarket{},
		&Location{},
		&Category{},
		&User{},
	); err != nil {
		log.Printf("❌ AutoMigrate failed: %v", err)
		return err
	}
	log.Println("✅ Catalog tables migrated successfully")
	return nil
}
