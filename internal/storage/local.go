package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStorage складывает файлы в каталог на диске, раздается по /uploads
type LocalStorage struct {
	dir    string
	logger *log.Logger
}

func NewLocalStorage(dir string, logger *log.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir, logger: logger}, nil
}

// Dir возвращает каталог загрузок
func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) SaveFile(ctx context.Context, file *multipart.FileHeader) (string, error) {
	ext, err := imageExt(file)
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}

	s.logger.Printf("📁 Сохранен файл %s (%s, %d байт)", name, file.Filename, file.Size)
	return name, nil
}

// DeleteFile удаляет файл; отсутствие файла ошибкой не считается
func (s *LocalStorage) DeleteFile(ctx context.Context, filename string) error {
	if filename == "" || filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	err := os.Remove(filepath.Join(s.dir, filename))
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Printf("⚠️ Файл %s уже отсутствует", filename)
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete file %s: %w", filename, err)
	}
	s.logger.Printf("🗑️ Удален файл %s", filename)
	return nil
}
