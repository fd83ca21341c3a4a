package services

import (
	"context"
	"fmt"
	"log"

	"ticketlogger/server/internal/events"
	"ticketlogger/server/internal/models"
	"ticketlogger/server/internal/repository"
)

// SupermarketService управляет справочником сетей супермаркетов
type SupermarketService struct {
	store     repository.Store
	publisher events.Publisher
	logger    *log.Logger
}

func NewSupermarketService(store repository.Store, publisher events.Publisher, logger *log.Logger) *SupermarketService {
	return &SupermarketService{store: store, publisher: publisher, logger: logger}
}

func (s *SupermarketService) List(ctx context.Context) ([]models.Supermarket, error) {
	return s.store.WithContext(ctx).Supermarkets().FindAll()
}

func (s *SupermarketService) Get(ctx context.Context, id uint) (*models.Supermarket, error) {
	return s.store.WithContext(ctx).Supermarkets().FindByID(id)
}

func (s *SupermarketService) Create(ctx context.Context, supermarket *models.Supermarket) error {
	conflict := &ConflictError{Field: "name", Value: supermarket.Name, MessageKey: "msg.supermarket-controller.insert.nameExist"}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		exists, err := tx.Supermarkets().ExistsByName(supermarket.Name)
		if err != nil {
			return fmt.Errorf("ошибка проверки названия супермаркета: %w", err)
		}
		if exists {
			return conflict
		}
		return mapSaveError(tx.Supermarkets().Save(supermarket), conflict)
	})
	if err != nil {
		return err
	}
	s.logger.Printf("✅ Супермаркет создан: %s, ID=%d", supermarket.Name, supermarket.ID)
	publish(ctx, s.publisher, s.logger, "supermarket", events.ActionCreated, supermarket.ID, supermarket.Name)
	return nil
}

func (s *SupermarketService) Update(ctx context.Context, supermarket *models.Supermarket) error {
	conflict := &ConflictError{Field: "name", Value: supermarket.Name, MessageKey: "msg.supermarket-controller.update.nameExist"}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		existing, err := tx.Supermarkets().FindByID(supermarket.ID)
		if err != nil {
			return err
		}
		exists, err := tx.Supermarkets().ExistsByNameAndNotID(supermarket.Name, supermarket.ID)
		if err != nil {
			return fmt.Errorf("ошибка проверки названия супермаркета: %w", err)
		}
		if exists {
			return conflict
		}
		existing.Name = supermarket.Name
		if err := mapSaveError(tx.Supermarkets().Save(existing), conflict); err != nil {
			return err
		}
		*supermarket = *existing
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Printf("✏️ Супермаркет обновлен: ID=%d", supermarket.ID)
	publish(ctx, s.publisher, s.logger, "supermarket", events.ActionUpdated, supermarket.ID, supermarket.Name)
	return nil
}

// Delete удаляет супермаркет; при наличии локаций возвращает ErrInUse
func (s *SupermarketService) Delete(ctx context.Context, id uint) error {
	var name string
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		supermarket, err := tx.Supermarkets().FindByID(id)
		if err != nil {
			return err
		}
		name = supermarket.Name
		count, err := tx.Supermarkets().CountLocations(id)
		if err != nil {
			return fmt.Errorf("ошибка подсчета локаций супермаркета %d: %w", id, err)
		}
		if count > 0 {
			return fmt.Errorf("%w: супермаркет %d используется в %d локациях", ErrInUse, id, count)
		}
		return mapDeleteError(tx.Supermarkets().DeleteByID(id))
	})
	if err != nil {
		return err
	}
	s.logger.Printf("🗑️ Супермаркет удален: ID=%d", id)
	publish(ctx, s.publisher, s.logger, "supermarket", events.ActionDeleted, id, name)
	return nil
}
