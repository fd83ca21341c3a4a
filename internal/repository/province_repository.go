package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ticketlogger/server/internal/models"
)

type ProvinceRepository interface {
	FindAll() ([]models.Province, error)
	FindByID(id uint) (*models.Province, error)
	Save(province *models.Province) error
	DeleteByID(id uint) error
	ExistsByCode(code string) (bool, error)
	ExistsByCodeAndNotID(code string, id uint) (bool, error)
	CountLocations(id uint) (int64, error)
	Count() (int64, error)
}

type provinceRepository struct {
	db *gorm.DB
}

func (r *provinceRepository) FindAll() ([]models.Province, error) {
	var provinces []models.Province
	if err := r.db.Preload("Region").Order("name").Find(&provinces).Error; err != nil {
		return nil, fmt.Errorf("ошибка получения провинций: %w", err)
	}
	return provinces, nil
}

func (r *provinceRepository) FindByID(id uint) (*models.Province, error) {
	var province models.Province
	if err := r.db.Preload("Region").First(&province, id).Error; err != nil {
		return nil, notFound(err, "провинция", id)
	}
	return &province, nil
}

func (r *provinceRepository) Save(province *models.Province) error {
	return r.db.Omit(clause.Associations).Save(province).Error
}

func (r *provinceRepository) DeleteByID(id uint) error {
	return r.db.Delete(&models.Province{}, id).Error
}

func (r *provinceRepository) ExistsByCode(code string) (bool, error) {
	return exists(r.db.Model(&models.Province{}).Where("code_key = ?", models.UniqueKey(code)))
}

func (r *provinceRepository) ExistsByCodeAndNotID(code string, id uint) (bool, error) {
	return exists(r.db.Model(&models.Province{}).Where("code_key = ? AND id <> ?", models.UniqueKey(code), id))
}

func (r *provinceRepository) CountLocations(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Location{}).Where("province_id = ?", id).Count(&count).Error
	return count, err
}

func (r *provinceRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Province{}).Count(&count).Error
	return count, err
}
