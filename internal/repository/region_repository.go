package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ticketlogger/server/internal/models"
)

type RegionRepository interface {
	FindAll() ([]models.Region, error)
	FindByID(id uint) (*models.Region, error)
	Save(region *models.Region) error
	DeleteByID(id uint) error
	ExistsByCode(code string) (bool, error)
	ExistsByCodeAndNotID(code string, id uint) (bool, error)
	CountProvinces(id uint) (int64, error)
	Count() (int64, error)
}

type regionRepository struct {
	db *gorm.DB
}

func (r *regionRepository) FindAll() ([]models.Region, error) {
	var regions []models.Region
	if err := r.db.Order("name").Find(&regions).Error; err != nil {
		return nil, fmt.Errorf("ошибка получения регионов: %w", err)
	}
	return regions, nil
}

func (r *regionRepository) FindByID(id uint) (*models.Region, error) {
	var region models.Region
	if err := r.db.First(&region, id).Error; err != nil {
		return nil, notFound(err, "регион", id)
	}
	return &region, nil
}

// Save вставляет запись при ID == 0, иначе полностью ее перезаписывает
func (r *regionRepository) Save(region *models.Region) error {
	return r.db.Omit(clause.Associations).Save(region).Error
}

func (r *regionRepository) DeleteByID(id uint) error {
	return r.db.Delete(&models.Region{}, id).Error
}

func (r *regionRepository) ExistsByCode(code string) (bool, error) {
	return exists(r.db.Model(&models.Region{}).Where("code_key = ?", models.UniqueKey(code)))
}

func (r *regionRepository) ExistsByCodeAndNotID(code string, id uint) (bool, error) {
	return exists(r.db.Model(&models.Region{}).Where("code_key = ? AND id <> ?", models.UniqueKey(code), id))
}

// CountProvinces считает провинции, которые ссылаются на регион
func (r *regionRepository) CountProvinces(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Province{}).Where("region_id = ?", id).Count(&count).Error
	return count, err
}

func (r *regionRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Region{}).Count(&count).Error
	return count, err
}
