package events

import (
	"context"
	"log"
	"time"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// CatalogEvent: уведомление об изменении справочника
type CatalogEvent struct {
	Entity     string    `json:"entity"`
	Action     Action    `json:"action"`
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher доставляет события подписчикам. Ошибка публикации
// не должна влиять на результат HTTP запроса.
type Publisher interface {
	Publish(ctx context.Context, event CatalogEvent) error
	Close() error
}

// NopPublisher используется, когда ни один брокер не настроен
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, CatalogEvent) error { return nil }
func (NopPublisher) Close() error                               { return nil }

// MultiPublisher рассылает событие во все публикаторы и только логирует ошибки
type MultiPublisher struct {
	publishers []Publisher
	logger     *log.Logger
}

func NewMultiPublisher(logger *log.Logger, publishers ...Publisher) *MultiPublisher {
	return &MultiPublisher{publishers: publishers, logger: logger}
}

func (m *MultiPublisher) Publish(ctx context.Context, event CatalogEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	for _, p := range m.publishers {
		if err := p.Publish(ctx, event); err != nil {
			m.logger.Printf("⚠️ Не удалось опубликовать событие %s/%s #%d: %v", event.Entity, event.Action, event.ID, err)
		}
	}
	return nil
}

func (m *MultiPublisher) Close() error {
	for _, p := range m.publishers {
		if err := p.Close(); err != nil {
			m.logger.Printf("⚠️ Ошибка закрытия публикатора: %v", err)
		}
	}
	return nil
}

// Len возвращает число подключенных публикаторов
func (m *MultiPublisher) Len() int {
	return len(m.publishers)
}
