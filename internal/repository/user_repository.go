package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ticketlogger/server/internal/models"
)

type UserRepository interface {
	FindByUsername(username string) (*models.User, error)
	Save(user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("пользователь %s не найден: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения пользователя %s: %w", username, err)
	}
	return &user, nil
}

func (r *userRepository) Save(user *models.User) error {
	return r.db.Save(user).Error
}
