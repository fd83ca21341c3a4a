package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
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

func TestLocalStorageSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	name, err := s.SaveFile(ctx, fileHeader(t, "fruta.PNG", []byte("png-bytes")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Ext(name) != ".png" {
		t.Errorf("name %q should keep lowercased extension", name)
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil || string(data) != "png-bytes" {
		t.Fatalf("stored content = %q, %v", data, err)
	}

	if err := s.DeleteFile(ctx, name); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, name)); !errors.Is(err, os.ErrNotExist) {
		t.Error("file should be gone")
	}
	if err := s.DeleteFile(ctx, name); err != nil {
		t.Errorf("deleting a missing file should succeed, got %v", err)
	}
}

func TestLocalStorageRejects(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := s.SaveFile(ctx, fileHeader(t, "script.sh", []byte("#!/bin/sh"))); !errors.Is(err, ErrInvalidFile) {
		t.Errorf("non-image upload err = %v, want ErrInvalidFile", err)
	}
	if _, err := s.SaveFile(ctx, fileHeader(t, "empty.png", nil)); !errors.Is(err, ErrInvalidFile) {
		t.Errorf("empty upload err = %v, want ErrInvalidFile", err)
	}
	for _, name := range []string{"../etc/passwd", "a/b.png", "", ".."} {
		if err := s.DeleteFile(ctx, name); !errors.Is(err, ErrInvalidFilename) {
			t.Errorf("DeleteFile(%q) = %v, want ErrInvalidFilename", name, err)
		}
	}
}

func TestExtractPublicID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1712/categories/abc.jpg", "categories/abc"},
		{"https://res.cloudinary.com/demo/image/upload/categories/abc.png", "categories/abc"},
		{"local.png", ""},
	}
	for _, tt := range tests {
		if got := ExtractPublicID(tt.url); got != tt.want {
			t.Errorf("ExtractPublicID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
