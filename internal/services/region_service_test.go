package services

import (
	"context"
	"errors"
	"testing"

	"ticketlogger/server/internal/events"
	"ticketlogger/server/internal/models"
)

func TestRegionCreateRejectsDuplicateCode(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewRegionService(newTestStore(t), pub, discard)

	first := &models.Region{Code: "AND", Name: "Andalucía"}
	if err := svc.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	if ev := pub.last(); ev.Entity != "region" || ev.Action != events.ActionCreated || ev.ID != first.ID {
		t.Errorf("unexpected event %+v", ev)
	}

	err := svc.Create(ctx, &models.Region{Code: "AND", Name: "Otra"})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.MessageKey != "msg.region-controller.insert.codeExist" {
		t.Errorf("MessageKey = %q", conflict.MessageKey)
	}
	if !errors.Is(err, ErrDuplicate) {
		t.Error("ConflictError should unwrap to ErrDuplicate")
	}

	if err := svc.Create(ctx, &models.Region{Code: "and", Name: "Minúsculas"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("lowercase duplicate err = %v, want ErrDuplicate", err)
	}

	all, err := svc.List(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("List = %d regions, %v; want 1", len(all), err)
	}
}

func TestRegionUpdateKeepsOwnCode(t *testing.T) {
	ctx := context.Background()
	svc := NewRegionService(newTestStore(t), events.NopPublisher{}, discard)

	and := &models.Region{Code: "AND", Name: "Andalucía"}
	cat := &models.Region{Code: "CAT", Name: "Cataluña"}
	for _, r := range []*models.Region{and, cat} {
		if err := svc.Create(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	createdAt := and.CreatedAt

	if err := svc.Update(ctx, &models.Region{ID: and.ID, Code: "AND", Name: "Andalucia"}); err != nil {
		t.Fatalf("update with own code: %v", err)
	}
	got, err := svc.Get(ctx, and.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Andalucia" {
		t.Errorf("Name = %q", got.Name)
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Errorf("CreatedAt changed: %v -> %v", createdAt, got.CreatedAt)
	}

	err = svc.Update(ctx, &models.Region{ID: and.ID, Code: "CAT", Name: "Andalucía"})
	var conflict *ConflictError
	if !errors.As(err, &conflict) || conflict.MessageKey != "msg.region-controller.update.codeExist" {
		t.Errorf("update to taken code err = %v", err)
	}

	if err := svc.Update(ctx, &models.Region{ID: 999, Code: "XXX", Name: "X"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing err = %v, want ErrNotFound", err)
	}
}

func TestRegionDeleteGuardedByProvinces(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	regions := NewRegionService(store, events.NopPublisher{}, discard)
	provinces := NewProvinceService(store, events.NopPublisher{}, discard)

	region := &models.Region{Code: "AND", Name: "Andalucía"}
	if err := regions.Create(ctx, region); err != nil {
		t.Fatal(err)
	}
	province := &models.Province{Code: "SE", Name: "Sevilla", RegionID: region.ID}
	if err := provinces.Create(ctx, province); err != nil {
		t.Fatal(err)
	}

	if err := regions.Delete(ctx, region.ID); !errors.Is(err, ErrInUse) {
		t.Fatalf("delete referenced region err = %v, want ErrInUse", err)
	}
	if err := provinces.Delete(ctx, province.ID); err != nil {
		t.Fatal(err)
	}
	if err := regions.Delete(ctx, region.ID); err != nil {
		t.Fatalf("delete free region: %v", err)
	}
	if err := regions.Delete(ctx, region.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}
