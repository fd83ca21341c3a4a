package models

import (
	"time"

	"gorm.io/gorm"
)

// Province принадлежит ровно одному региону
type Province struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"type:varchar(3);not null"`
	CodeKey   string    `json:"-" gorm:"type:varchar(12);uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	RegionID  uint      `json:"region_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Region *Region `json:"region,omitempty" gorm:"foreignKey:RegionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName указывает имя таблицы
func (Province) TableName() string {
	return "provinces"
}

func (p *Province) BeforeSave(tx *gorm.DB) error {
	if p.Code != "" {
		p.CodeKey = UniqueKey(p.Code)
	}
	return nil
}
