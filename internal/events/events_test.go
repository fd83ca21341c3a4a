package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"testing"
	"time"
)

type recordingPublisher struct {
	events []CatalogEvent
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, e CatalogEvent) error {
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingPublisher) Close() error { return nil }

type recordingHub struct {
	messages [][]byte
}

func (h *recordingHub) BroadcastMessage(m []byte) { h.messages = append(h.messages, m) }

func TestMultiPublisherIgnoresFailures(t *testing.T) {
	failing := &recordingPublisher{err: errors.New("broker down")}
	ok := &recordingPublisher{}
	m := NewMultiPublisher(log.New(io.Discard, "", 0), failing, ok)

	err := m.Publish(context.Background(), CatalogEvent{Entity: "region", Action: ActionCreated, ID: 1})
	if err != nil {
		t.Fatalf("Publish returned %v, want nil", err)
	}
	if len(ok.events) != 1 || len(failing.events) != 1 {
		t.Fatalf("events not fanned out: %d, %d", len(ok.events), len(failing.events))
	}
	if ok.events[0].OccurredAt.IsZero() {
		t.Error("OccurredAt should be stamped")
	}
}

func TestProtoRoundTrip(t *testing.T) {
	in := CatalogEvent{
		Entity:     "category",
		Action:     ActionDeleted,
		ID:         42,
		Name:       "Bebidas",
		OccurredAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	data, err := EncodeProto(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeProto(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Entity != in.Entity || out.Action != in.Action || out.ID != in.ID || out.Name != in.Name {
		t.Errorf("decoded %+v, want %+v", out, in)
	}
	if !out.OccurredAt.Equal(in.OccurredAt) {
		t.Errorf("OccurredAt = %v, want %v", out.OccurredAt, in.OccurredAt)
	}
}

func TestHubPublisherBroadcastsJSON(t *testing.T) {
	hub := &recordingHub{}
	p := NewHubPublisher(hub)
	if err := p.Publish(context.Background(), CatalogEvent{Entity: "supermarket", Action: ActionUpdated, ID: 3, Name: "Dia"}); err != nil {
		t.Fatal(err)
	}
	if len(hub.messages) != 1 {
		t.Fatalf("got %d messages", len(hub.messages))
	}
	var msg struct {
		Type  string       `json:"type"`
		Event CatalogEvent `json:"event"`
	}
	if err := json.Unmarshal(hub.messages[0], &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "catalog_event" || msg.Event.Name != "Dia" {
		t.Errorf("unexpected message %s", hub.messages[0])
	}
}

func TestParseKafkaBrokers(t *testing.T) {
	got := ParseKafkaBrokers("a:9092, b:9092,")
	if len(got) != 2 || got[0] != "a:9092" || got[1] != "b:9092" {
		t.Errorf("ParseKafkaBrokers = %v", got)
	}
	if len(ParseKafkaBrokers("")) != 0 {
		t.Error("empty input should give no brokers")
	}
}
