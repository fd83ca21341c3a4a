package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"sync"
	"testing"

	"github.com/google/uuid"

	"ticketlogger/server/internal/database"
	"ticketlogger/server/internal/events"
	"ticketlogger/server/internal/models"
	"ticketlogger/server/internal/repository"
	"ticketlogger/server/internal/storage"
)

var discard = log.New(io.Discard, "", 0)

func newTestStore(t *testing.T) repository.Store {
	t.Helper()
	db, err := database.ConnectSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return repository.NewStore(db)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.CatalogEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.CatalogEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) last() events.CatalogEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return events.CatalogEvent{}
	}
	return p.events[len(p.events)-1]
}

// memoryFiles: FileStorage в памяти с учетом удаленных имен
type memoryFiles struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
}

func newMemoryFiles() *memoryFiles {
	return &memoryFiles{files: map[string][]byte{}}
}

func (m *memoryFiles) SaveFile(_ context.Context, fh *multipart.FileHeader) (string, error) {
	if fh.Size == 0 {
		return "", storage.ErrInvalidFile
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	name := uuid.NewString() + ".png"
	m.mu.Lock()
	m.files[name] = data
	m.mu.Unlock()
	return name, nil
}

func (m *memoryFiles) DeleteFile(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == "" {
		return errors.New("empty name")
	}
	delete(m.files, name)
	m.deleted = append(m.deleted, name)
	return nil
}

func (m *memoryFiles) has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[name]
	return ok
}

func upload(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("imageFile", filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(content)
	w.Close()
	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	return form.File["imageFile"][0]
}
