package storage

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const cloudinaryFolder = "categories"

// CloudinaryStorage хранит изображения в Cloudinary; в Category.Image пишется https URL
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	logger *log.Logger
}

func NewCloudinaryStorage(cloudinaryURL string, logger *log.Logger) (*CloudinaryStorage, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary URL is required")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryStorage{cld: cld, logger: logger}, nil
}

func (s *CloudinaryStorage) SaveFile(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if _, err := imageExt(file); err != nil {
		return "", err
	}
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	unique := true
	result, err := s.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder:         cloudinaryFolder,
		UniqueFilename: &unique,
		ResourceType:   "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload image: %s", result.Error.Message)
	}

	url := result.SecureURL
	if url == "" {
		url = result.URL
	}
	url = forceHTTPS(url)
	s.logger.Printf("☁️ Изображение загружено в Cloudinary: %s", url)
	return url, nil
}

func (s *CloudinaryStorage) DeleteFile(ctx context.Context, filename string) error {
	publicID := ExtractPublicID(filename)
	if publicID == "" {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	// "not found": изображение уже удалено
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("failed to delete image %s: %s", publicID, result.Result)
	}
	return nil
}

// ExtractPublicID достает public id из URL вида
// https://res.cloudinary.com/<cloud>/image/upload/v123/categories/name.jpg
func ExtractPublicID(url string) string {
	parts := strings.Split(url, "/")
	for i, part := range parts {
		if part != "upload" || i+1 >= len(parts) {
			continue
		}
		rest := parts[i+1:]
		if len(rest) > 1 && strings.HasPrefix(rest[0], "v") {
			rest = rest[1:]
		}
		path := strings.Join(rest, "/")
		return strings.TrimSuffix(path, filepath.Ext(path))
	}
	return ""
}

func forceHTTPS(in string) string {
	return strings.Replace(strings.TrimSpace(in), "http://", "https://", 1)
}
