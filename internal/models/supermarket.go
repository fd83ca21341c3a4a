package models

import (
	"time"

	"gorm.io/gorm"
)

type Supermarket struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	NameKey   string    `json:"-" gorm:"type:varchar(400);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName указывает имя таблицы
func (Supermarket) TableName() string {
	return "supermarkets"
}

func (s *Supermarket) BeforeSave(tx *gorm.DB) error {
	if s.Name != "" {
		s.NameKey = UniqueKey(s.Name)
	}
	return nil
}
