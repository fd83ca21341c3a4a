package models

import (
	"time"

	"gorm.io/gorm"
)

// Location: конкретный адрес супермаркета в провинции
type Location struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Address       string    `json:"address" gorm:"type:varchar(255);not null"`
	AddressKey    string    `json:"-" gorm:"type:varchar(1020);uniqueIndex;not null"`
	City          string    `json:"city" gorm:"type:varchar(100);not null"`
	SupermarketID uint      `json:"supermarket_id" gorm:"not null;index"`
	ProvinceID    uint      `json:"province_id" gorm:"not null;index"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Связи
	Supermarket *Supermarket `json:"supermarket,omitempty" gorm:"foreignKey:SupermarketID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Province    *Province    `json:"province,omitempty" gorm:"foreignKey:ProvinceID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName указывает имя таблицы
func (Location) TableName() string {
	return "locations"
}

func (l *Location) BeforeSave(tx *gorm.DB) error {
	if l.Address != "" {
		l.AddressKey = UniqueKey(l.Address)
	}
	return nil
}
