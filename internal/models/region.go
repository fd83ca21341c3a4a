package models

import (
	"time"

	"gorm.io/gorm"
)

// Region представляет автономное сообщество (Andalucía, Aragón, ...)
type Region struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"type:varchar(3);not null"`
	CodeKey   string    `json:"-" gorm:"type:varchar(12);uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName указывает имя таблицы
func (Region) TableName() string {
	return "regions"
}

// BeforeSave обновляет ключ уникальности кода
func (r *Region) BeforeSave(tx *gorm.DB) error {
	if r.Code != "" {
		r.CodeKey = UniqueKey(r.Code)
	}
	return nil
}
