package models

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User: учетная запись для входа в панель
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"` // Не возвращаем в JSON
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;default:'USER'"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName указывает имя таблицы
func (User) TableName() string {
	return "users"
}

// InitDefaultUsers создает учетные записи user/admin/manager, если их еще нет
func InitDefaultUsers(db *gorm.DB, password string) error {
	if db == nil {
		return nil
	}
	if password == "" {
		return fmt.Errorf("default user password is empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash default password: %w", err)
	}

	defaultUsers := []User{
		{Username: "user", Role: RoleUser},
		{Username: "admin", Role: RoleAdmin},
		{Username: "manager", Role: RoleManager},
	}

	for _, u := range defaultUsers {
		var count int64
		if err := db.Model(&User{}).Where("username = ?", u.Username).Count(&count).Error; err != nil {
			return fmt.Errorf("check user %s: %w", u.Username, err)
		}
		if count > 0 {
			continue
		}
		u.PasswordHash = string(hash)
		if err := db.Create(&u).Error; err != nil {
			log.Printf("⚠️ Ошибка создания пользователя %s: %v", u.Username, err)
			continue
		}
		log.Printf("👤 Создан пользователь %s (%s)", u.Username, u.Role)
	}

	return nil
}
