package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ticketlogger/server/internal/models"
)

type CategoryRepository interface {
	FindAll() ([]models.Category, error)
	FindByID(id uint) (*models.Category, error)
	// FindChildren возвращает прямых потомков по индексу parent_id
	FindChildren(parentID uint) ([]models.Category, error)
	Save(category *models.Category) error
	DeleteByID(id uint) error
	ExistsByName(name string) (bool, error)
	ExistsByNameAndNotID(name string, id uint) (bool, error)
	// DetachChildren обнуляет parent_id у потомков перед удалением родителя
	DetachChildren(parentID uint) error
	Count() (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func (r *categoryRepository) FindAll() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Preload("Parent").Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("ошибка получения категорий: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.Preload("Parent").First(&category, id).Error; err != nil {
		return nil, notFound(err, "категория", id)
	}
	return &category, nil
}

func (r *categoryRepository) FindChildren(parentID uint) ([]models.Category, error) {
	var children []models.Category
	if err := r.db.Where("parent_id = ?", parentID).Order("name").Find(&children).Error; err != nil {
		return nil, fmt.Errorf("ошибка получения подкатегорий %d: %w", parentID, err)
	}
	return children, nil
}

func (r *categoryRepository) Save(category *models.Category) error {
	return r.db.Omit(clause.Associations).Save(category).Error
}

func (r *categoryRepository) DeleteByID(id uint) error {
	return r.db.Delete(&models.Category{}, id).Error
}

func (r *categoryRepository) ExistsByName(name string) (bool, error) {
	return exists(r.db.Model(&models.Category{}).Where("name_key = ?", models.UniqueKey(name)))
}

func (r *categoryRepository) ExistsByNameAndNotID(name string, id uint) (bool, error) {
	return exists(r.db.Model(&models.Category{}).Where("name_key = ? AND id <> ?", models.UniqueKey(name), id))
}

func (r *categoryRepository) DetachChildren(parentID uint) error {
	return r.db.Model(&models.Category{}).
		Where("parent_id = ?", parentID).
		Update("parent_id", nil).Error
}

func (r *categoryRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Category{}).Count(&count).Error
	return count, err
}
