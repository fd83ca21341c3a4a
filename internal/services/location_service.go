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

// LocationService управляет адресами супермаркетов
type LocationService struct {
	store     repository.Store
	publisher events.Publisher
	logger    *log.Logger
}

func NewLocationService(store repository.Store, publisher events.Publisher, logger *log.Logger) *LocationService {
	return &LocationService{store: store, publisher: publisher, logger: logger}
}

func (s *LocationService) List(ctx context.Context) ([]models.Location, error) {
	return s.store.WithContext(ctx).Locations().FindAll()
}

func (s *LocationService) Get(ctx context.Context, id uint) (*models.Location, error) {
	return s.store.WithContext(ctx).Locations().FindByID(id)
}

// LocationFormData: списки для выпадающих полей формы
type LocationFormData struct {
	Provinces    []models.Province
	Supermarkets []models.Supermarket
}

func (s *LocationService) FormData(ctx context.Context) (*LocationFormData, error) {
	store := s.store.WithContext(ctx)
	provinces, err := store.Provinces().FindAll()
	if err != nil {
		return nil, err
	}
	supermarkets, err := store.Supermarkets().FindAll()
	if err != nil {
		return nil, err
	}
	return &LocationFormData{Provinces: provinces, Supermarkets: supermarkets}, nil
}

func (s *LocationService) Create(ctx context.Context, location *models.Location) error {
	conflict := &ConflictError{Field: "address", Value: location.Address, MessageKey: "msg.location-controller.insert.addressExist"}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		exists, err := tx.Locations().ExistsByAddress(location.Address)
		if err != nil {
			return fmt.Errorf("ошибка проверки адреса: %w", err)
		}
		if exists {
			return conflict
		}
		if err := checkLocationRefs(tx, location); err != nil {
			return err
		}
		return mapSaveError(tx.Locations().Save(location), conflict)
	})
	if err != nil {
		return err
	}
	s.logger.Printf("✅ Локация создана: %s, %s, ID=%d", location.Address, location.City, location.ID)
	publish(ctx, s.publisher, s.logger, "location", events.ActionCreated, location.ID, location.Address)
	return nil
}

func (s *LocationService) Update(ctx context.Context, location *models.Location) error {
	conflict := &ConflictError{Field: "address", Value: location.Address, MessageKey: "msg.location-controller.update.addressExist"}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		existing, err := tx.Locations().FindByID(location.ID)
		if err != nil {
			return err
		}
		exists, err := tx.Locations().ExistsByAddressAndNotID(location.Address, location.ID)
		if err != nil {
			return fmt.Errorf("ошибка проверки адреса: %w", err)
		}
		if exists {
			return conflict
		}
		if err := checkLocationRefs(tx, location); err != nil {
			return err
		}
		existing.Address = location.Address
		existing.City = location.City
		existing.SupermarketID = location.SupermarketID
		existing.ProvinceID = location.ProvinceID
		existing.Supermarket = nil
		existing.Province = nil
		if err := mapSaveError(tx.Locations().Save(existing), conflict); err != nil {
			return err
		}
		*location = *existing
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Printf("✏️ Локация обновлена: ID=%d", location.ID)
	publish(ctx, s.publisher, s.logger, "location", events.ActionUpdated, location.ID, location.Address)
	return nil
}

func (s *LocationService) Delete(ctx context.Context, id uint) error {
	var address string
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		location, err := tx.Locations().FindByID(id)
		if err != nil {
			return err
		}
		address = location.Address
		return mapDeleteError(tx.Locations().DeleteByID(id))
	})
	if err != nil {
		return err
	}
	s.logger.Printf("🗑️ Локация удалена: ID=%d", id)
	publish(ctx, s.publisher, s.logger, "location", events.ActionDeleted, id, address)
	return nil
}

func checkLocationRefs(tx repository.Store, location *models.Location) error {
	if _, err := tx.Supermarkets().FindByID(location.SupermarketID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: супермаркет %d", ErrInvalidReference, location.SupermarketID)
		}
		return err
	}
	if _, err := tx.Provinces().FindByID(location.ProvinceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: провинция %d", ErrInvalidReference, location.ProvinceID)
		}
		return err
	}
	return nil
}
