package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ticketlogger/server/internal/models"
)

type SupermarketRepository interface {
	FindAll() ([]models.Supermarket, error)
	FindByID(id uint) (*models.Supermarket, error)
	Save(supermarket *models.Supermarket) error
	DeleteByID(id uint) error
	ExistsByName(name string) (bool, error)
	ExistsByNameAndNotID(name string, id uint) (bool, error)
	CountLocations(id uint) (int64, error)
	Count() (int64, error)
}

type supermarketRepository struct {
	db *gorm.DB
}

func (r *supermarketRepository) FindAll() ([]models.Supermarket, error) {
	var supermarkets []models.Supermarket
	if err := r.db.Order("name").Find(&supermarkets).Error; err != nil {
		return nil, fmt.Errorf("ошибка получения супермаркетов: %w", err)
	}
	return supermarkets, nil
}

func (r *supermarketRepository) FindByID(id uint) (*models.Supermarket, error) {
	var supermarket models.Supermarket
	if err := r.db.First(&supermarket, id).Error; err != nil {
		return nil, notFound(err, "супермаркет", id)
	}
	return &supermarket, nil
}

func (r *supermarketRepository) Save(supermarket *models.Supermarket) error {
	return r.db.Omit(clause.Associations).Save(supermarket).Error
}

func (r *supermarketRepository) DeleteByID(id uint) error {
	return r.db.Delete(&models.Supermarket{}, id).Error
}

func (r *supermarketRepository) ExistsByName(name string) (bool, error) {
	return exists(r.db.Model(&models.Supermarket{}).Where("name_key = ?", models.UniqueKey(name)))
}

func (r *supermarketRepository) ExistsByNameAndNotID(name string, id uint) (bool, error) {
	return exists(r.db.Model(&models.Supermarket{}).Where("name_key = ? AND id <> ?", models.UniqueKey(name), id))
}

func (r *supermarketRepository) CountLocations(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Location{}).Where("supermarket_id = ?", id).Count(&count).Error
	return count, err
}

func (r *supermarketRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Supermarket{}).Count(&count).Error
	return count, err
}
