package storage

import (
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidFile: расширение не относится к изображениям или файл пустой
	ErrInvalidFile = errors.New("invalid image file")
	// ErrInvalidFilename: имя содержит путь (защита от ../)
	ErrInvalidFilename = errors.New("invalid filename")
)

// FileStorage хранит изображения категорий.
// SaveFile возвращает значение, которое пишется в Category.Image.
type FileStorage interface {
	SaveFile(ctx context.Context, file *multipart.FileHeader) (string, error)
	DeleteFile(ctx context.Context, filename string) error
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// imageExt возвращает расширение в нижнем регистре или ErrInvalidFile
func imageExt(file *multipart.FileHeader) (string, error) {
	if file == nil || file.Size == 0 {
		return "", ErrInvalidFile
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		return "", ErrInvalidFile
	}
	return ext, nil
}
