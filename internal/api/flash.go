package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ticketlogger/server/internal/utils"
)

const (
	flashCookie = "flash_id"
	flashTTL    = 5 * time.Minute
)

// Flash: сообщение, которое переживает ровно один redirect
type Flash struct {
	SuccessMessage string `json:"successMessage,omitempty"`
	ErrorMessage   string `json:"errorMessage,omitempty"`
}

// FlashStore хранит флеш-сообщения по id из cookie.
// Pop возвращает (nil, nil), если сообщения нет или оно истекло.
type FlashStore interface {
	Save(ctx context.Context, id string, flash Flash) error
	Pop(ctx context.Context, id string) (*Flash, error)
}

// RedisFlashStore: флеш-сообщения в Redis с TTL, чтение через GETDEL
type RedisFlashStore struct {
	client *utils.RedisClient
	ttl    time.Duration
}

func NewRedisFlashStore(client *utils.RedisClient) *RedisFlashStore {
	return &RedisFlashStore{client: client, ttl: flashTTL}
}

func (s *RedisFlashStore) Save(ctx context.Context, id string, flash Flash) error {
	return s.client.SetJSON(ctx, "flash:"+id, flash, s.ttl)
}

func (s *RedisFlashStore) Pop(ctx context.Context, id string) (*Flash, error) {
	var flash Flash
	err := s.client.GetDelJSON(ctx, "flash:"+id, &flash)
	if errors.Is(err, utils.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read flash %s: %w", id, err)
	}
	return &flash, nil
}

type memoryFlash struct {
	flash   Flash
	expires time.Time
}

// MemoryFlashStore: хранение в памяти процесса, когда Redis недоступен
type MemoryFlashStore struct {
	mu    sync.Mutex
	items map[string]memoryFlash
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryFlashStore() *MemoryFlashStore {
	return &MemoryFlashStore{items: make(map[string]memoryFlash), ttl: flashTTL, now: time.Now}
}

func (s *MemoryFlashStore) Save(_ context.Context, id string, flash Flash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	// заодно чистим истекшие, чтобы карта не росла
	for k, v := range s.items {
		if now.After(v.expires) {
			delete(s.items, k)
		}
	}
	s.items[id] = memoryFlash{flash: flash, expires: now.Add(s.ttl)}
	return nil
}

func (s *MemoryFlashStore) Pop(_ context.Context, id string) (*Flash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	delete(s.items, id)
	if s.now().After(item.expires) {
		return nil, nil
	}
	return &item.flash, nil
}

// pushFlash сохраняет сообщение и выставляет cookie flash_id
func pushFlash(c *gin.Context, store FlashStore, flash Flash, secure bool) error {
	id := uuid.NewString()
	if err := store.Save(c.Request.Context(), id, flash); err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, id, int(flashTTL.Seconds()), "/", "", secure, true)
	return nil
}

// popFlash забирает сообщение текущего запроса и сбрасывает cookie
func popFlash(c *gin.Context, store FlashStore, secure bool) (*Flash, error) {
	id, err := c.Cookie(flashCookie)
	if err != nil || id == "" {
		return nil, nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", secure, true)
	return store.Pop(c.Request.Context(), id)
}
