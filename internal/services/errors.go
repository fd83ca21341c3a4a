package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"ticketlogger/server/internal/events"
	"ticketlogger/server/internal/repository"
)

var (
	// ErrNotFound совпадает с repository.ErrNotFound, чтобы errors.Is работал на обоих уровнях
	ErrNotFound           = repository.ErrNotFound
	ErrDuplicate          = errors.New("already exists")
	ErrInUse              = errors.New("record is referenced by other records")
	ErrInvalidReference   = errors.New("referenced record does not exist")
	ErrCycle              = errors.New("category cannot be its own ancestor")
	ErrInvalidImage       = errors.New("invalid image file")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ConflictError: нарушение уникальности; MessageKey указывает на локализованный текст
type ConflictError struct {
	Field      string
	Value      string
	MessageKey string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

func (e *ConflictError) Unwrap() error {
	return ErrDuplicate
}

// mapSaveError переводит нарушение уникального индекса (гонка check-then-save) в конфликт
func mapSaveError(err error, conflict *ConflictError) error {
	if err == nil {
		return nil
	}
	if repository.IsUniqueViolation(err) {
		return conflict
	}
	return err
}

// mapDeleteError переводит нарушение внешнего ключа в ErrInUse
func mapDeleteError(err error) error {
	if err == nil {
		return nil
	}
	if repository.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: %v", ErrInUse, err)
	}
	return err
}

// publish отправляет событие после коммита; ошибки только логируются
func publish(ctx context.Context, publisher events.Publisher, logger *log.Logger, entity string, action events.Action, id uint, name string) {
	if publisher == nil {
		return
	}
	err := publisher.Publish(ctx, events.CatalogEvent{
		Entity: entity,
		Action: action,
		ID:     id,
		Name:   name,
	})
	if err != nil {
		logger.Printf("⚠️ Событие %s/%s #%d не опубликовано: %v", entity, action, id, err)
	}
}

func isConflict(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
