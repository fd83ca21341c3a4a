package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ticketlogger/server/internal/models"
)

type LocationRepository interface {
	FindAll() ([]models.Location, error)
	FindByID(id uint) (*models.Location, error)
	Save(location *models.Location) error
	DeleteByID(id uint) error
	ExistsByAddress(address string) (bool, error)
	ExistsByAddressAndNotID(address string, id uint) (bool, error)
	Count() (int64, error)
}

type locationRepository struct {
	db *gorm.DB
}

func (r *locationRepository) FindAll() ([]models.Location, error) {
	var locations []models.Location
	err := r.db.
		Preload("Supermarket").
		Preload("Province").
		Order("city, address").
		Find(&locations).Error
	if err != nil {
		return nil, fmt.Errorf("ошибка получения локаций: %w", err)
	}
	return locations, nil
}

func (r *locationRepository) FindByID(id uint) (*models.Location, error) {
	var location models.Location
	if err := r.db.Preload("Supermarket").Preload("Province").First(&location, id).Error; err != nil {
		return nil, notFound(err, "локация", id)
	}
	return &location, nil
}

func (r *locationRepository) Save(location *models.Location) error {
	return r.db.Omit(clause.Associations).Save(location).Error
}

func (r *locationRepository) DeleteByID(id uint) error {
	return r.db.Delete(&models.Location{}, id).Error
}

func (r *locationRepository) ExistsByAddress(address string) (bool, error) {
	return exists(r.db.Model(&models.Location{}).Where("address_key = ?", models.UniqueKey(address)))
}

func (r *locationRepository) ExistsByAddressAndNotID(address string, id uint) (bool, error) {
	return exists(r.db.Model(&models.Location{}).Where("address_key = ? AND id <> ?", models.UniqueKey(address), id))
}

func (r *locationRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Location{}).Count(&count).Error
	return count, err
}
