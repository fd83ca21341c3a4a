package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// Broadcaster: websocket хаб панели администратора
type Broadcaster interface {
	BroadcastMessage(message []byte)
}

// HubPublisher отправляет события в живую ленту администратора
type HubPublisher struct {
	hub Broadcaster
}

func NewHubPublisher(hub Broadcaster) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(_ context.Context, event CatalogEvent) error {
	msg, err := json.Marshal(map[string]interface{}{
		"type":  "catalog_event",
		"event": event,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	p.hub.BroadcastMessage(msg)
	return nil
}

func (p *HubPublisher) Close() error { return nil }
