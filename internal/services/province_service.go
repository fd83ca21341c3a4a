package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"ticketlogger/server/internal/events"
	"ticketlogger/server/internal/models"
	"ticketlogger/server/internal/repository"
)

// ProvinceService управляет справочником провинций
type ProvinceService struct {
	store     repository.Store
	publisher events.Publisher
	logger    *log.Logger
}

func NewProvinceService(store repository.Store, publisher events.Publisher, logger *log.Logger) *ProvinceService {
	return &ProvinceService{store: store, publisher: publisher, logger: logger}
}

func (s *ProvinceService) List(ctx context.Context) ([]models.Province, error) {
	return s.store.WithContext(ctx).Provinces().FindAll()
}

func (s *ProvinceService) Get(ctx context.Context, id uint) (*models.Province, error) {
	return s.store.WithContext(ctx).Provinces().FindByID(id)
}

// FormData возвращает регионы для выпадающего списка формы
func (s *ProvinceService) FormData(ctx context.Context) ([]models.Region, error) {
	return s.store.WithContext(ctx).Regions().FindAll()
}

func (s *ProvinceService) Create(ctx context.Context, province *models.Province) error {
	conflict := &ConflictError{Field: "code", Value: province.Code, MessageKey: "msg.province-controller.insert.codeExist"}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		exists, err := tx.Provinces().ExistsByCode(province.Code)
		if err != nil {
			return fmt.Errorf("ошибка проверки кода провинции: %w", err)
		}
		if exists {
			return conflict
		}
		if err := checkRegion(tx, province.RegionID); err != nil {
			return err
		}
		return mapSaveError(tx.Provinces().Save(province), conflict)
	})
	if err != nil {
		return err
	}
	s.logger.Printf("✅ Провинция создана: %s (%s), ID=%d", province.Name, province.Code, province.ID)
	publish(ctx, s.publisher, s.logger, "province", events.ActionCreated, province.ID, province.Name)
	return nil
}

func (s *ProvinceService) Update(ctx context.Context, province *models.Province) error {
	conflict := &ConflictError{Field: "code", Value: province.Code, MessageKey: "msg.province-controller.update.codeExist"}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		existing, err := tx.Provinces().FindByID(province.ID)
		if err != nil {
			return err
		}
		exists, err := tx.Provinces().ExistsByCodeAndNotID(province.Code, province.ID)
		if err != nil {
			return fmt.Errorf("ошибка проверки кода провинции: %w", err)
		}
		if exists {
			return conflict
		}
		if err := checkRegion(tx, province.RegionID); err != nil {
			return err
		}
		existing.Code = province.Code
		existing.Name = province.Name
		existing.RegionID = province.RegionID
		existing.Region = nil
		if err := mapSaveError(tx.Provinces().Save(existing), conflict); err != nil {
			return err
		}
		*province = *existing
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Printf("✏️ Провинция обновлена: ID=%d", province.ID)
	publish(ctx, s.publisher, s.logger, "province", events.ActionUpdated, province.ID, province.Name)
	return nil
}

// Delete удаляет провинцию, если на нее не ссылается ни одна локация
func (s *ProvinceService) Delete(ctx context.Context, id uint) error {
	var name string
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		province, err := tx.Provinces().FindByID(id)
		if err != nil {
			return err
		}
		name = province.Name
		count, err := tx.Provinces().CountLocations(id)
		if err != nil {
			return fmt.Errorf("ошибка подсчета локаций провинции %d: %w", id, err)
		}
		if count > 0 {
			return fmt.Errorf("%w: провинция %d используется в %d локациях", ErrInUse, id, count)
		}
		return mapDeleteError(tx.Provinces().DeleteByID(id))
	})
	if err != nil {
		return err
	}
	s.logger.Printf("🗑️ Провинция удалена: ID=%d", id)
	publish(ctx, s.publisher, s.logger, "province", events.ActionDeleted, id, name)
	return nil
}

func checkRegion(tx repository.Store, regionID uint) error {
	if _, err := tx.Regions().FindByID(regionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: регион %d", ErrInvalidReference, regionID)
		}
		return err
	}
	return nil
}
