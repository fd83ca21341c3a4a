package models

import (
	"time"

	"gorm.io/gorm"
)

// Category: узел дерева категорий (список смежности по parent_id).
// Удаление родителя не удаляет детей: parent_id обнуляется.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	NameKey   string    `json:"-" gorm:"type:varchar(1020);uniqueIndex;not null"`
	Image     *string   `json:"image" gorm:"type:varchar(500)"`
	ParentID  *uint     `json:"parent_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Parent *Category `json:"parent,omitempty" gorm:"foreignKey:ParentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`

	// Вычисляется по индексу parent_id, в БД не сохраняется
	Subcategories []*Category `json:"subcategories,omitempty" gorm:"-"`
}

// TableName указывает имя таблицы
func (Category) TableName() string {
	return "categories"
}

// HasImage сообщает, есть ли у категории загруженное изображение
func (c *Category) HasImage() bool {
	return c.Image != nil && *c.Image != ""
}

// BeforeSave обновляет ключ уникальности имени.
// При Update("parent_id", nil) имя пустое и ключ не трогается.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	if c.Name != "" {
		c.NameKey = UniqueKey(c.Name)
	}
	return nil
}
