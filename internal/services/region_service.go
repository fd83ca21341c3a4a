package services

import (
	"context"
	"fmt"
	"log"

	"ticketlogger/server/internal/events"
	"ticketlogger/server/internal/models"
	"ticketlogger/server/internal/repository"
)

// RegionService управляет справочником регионов
type RegionService struct {
	store     repository.Store
	publisher events.Publisher
	logger    *log.Logger
}

func NewRegionService(store repository.Store, publisher events.Publisher, logger *log.Logger) *RegionService {
	return &RegionService{store: store, publisher: publisher, logger: logger}
}

func (s *RegionService) List(ctx context.Context) ([]models.Region, error) {
	return s.store.WithContext(ctx).Regions().FindAll()
}

func (s *RegionService) Get(ctx context.Context, id uint) (*models.Region, error) {
	return s.store.WithContext(ctx).Regions().FindByID(id)
}

// Create добавляет регион; код уникален без учета регистра
func (s *RegionService) Create(ctx context.Context, region *models.Region) error {
	conflict := &ConflictError{Field: "code", Value: region.Code, MessageKey: "msg.region-controller.insert.codeExist"}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		exists, err := tx.Regions().ExistsByCode(region.Code)
		if err != nil {
			return fmt.Errorf("ошибка проверки кода региона: %w", err)
		}
		if exists {
			return conflict
		}
		return mapSaveError(tx.Regions().Save(region), conflict)
	})
	if err != nil {
		return err
	}
	s.logger.Printf("✅ Регион создан: %s (%s), ID=%d", region.Name, region.Code, region.ID)
	publish(ctx, s.publisher, s.logger, "region", events.ActionCreated, region.ID, region.Name)
	return nil
}

// Update перезаписывает код и название; region.ID обязателен
func (s *RegionService) Update(ctx context.Context, region *models.Region) error {
	conflict := &ConflictError{Field: "code", Value: region.Code, MessageKey: "msg.region-controller.update.codeExist"}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		existing, err := tx.Regions().FindByID(region.ID)
		if err != nil {
			return err
		}
		exists, err := tx.Regions().ExistsByCodeAndNotID(region.Code, region.ID)
		if err != nil {
			return fmt.Errorf("ошибка проверки кода региона: %w", err)
		}
		if exists {
			return conflict
		}
		existing.Code = region.Code
		existing.Name = region.Name
		if err := mapSaveError(tx.Regions().Save(existing), conflict); err != nil {
			return err
		}
		*region = *existing
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Printf("✏️ Регион обновлен: ID=%d", region.ID)
	publish(ctx, s.publisher, s.logger, "region", events.ActionUpdated, region.ID, region.Name)
	return nil
}

// Delete удаляет регион, если на него не ссылается ни одна провинция
func (s *RegionService) Delete(ctx context.Context, id uint) error {
	var name string
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		region, err := tx.Regions().FindByID(id)
		if err != nil {
			return err
		}
		name = region.Name
		count, err := tx.Regions().CountProvinces(id)
		if err != nil {
			return fmt.Errorf("ошибка подсчета провинций региона %d: %w", id, err)
		}
		if count > 0 {
			return fmt.Errorf("%w: регион %d используется в %d провинциях", ErrInUse, id, count)
		}
		return mapDeleteError(tx.Regions().DeleteByID(id))
	})
	if err != nil {
		return err
	}
	s.logger.Printf("🗑️ Регион удален: ID=%d", id)
	publish(ctx, s.publisher, s.logger, "region", events.ActionDeleted, id, name)
	return nil
}
