package api

import (
	"context"
	"testing"
	"time"
)

func TestMemoryFlashStorePopsOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryFlashStore()

	if err := s.Save(ctx, "a", Flash{SuccessMessage: "ok"}); err != nil {
		t.Fatal(err)
	}
	got, err := s.Pop(ctx, "a")
	if err != nil || got == nil || got.SuccessMessage != "ok" {
		t.Fatalf("Pop = %+v, %v", got, err)
	}
	if got, _ := s.Pop(ctx, "a"); got != nil {
		t.Errorf("second Pop = %+v, want nil", got)
	}
}

func TestMemoryFlashStoreExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryFlashStore()
	s.now = func() time.Time { return now }

	s.Save(ctx, "a", Flash{ErrorMessage: "boom"})
	now = now.Add(flashTTL + time.Second)
	if got, _ := s.Pop(ctx, "a"); got != nil {
		t.Errorf("expired flash returned: %+v", got)
	}
}
