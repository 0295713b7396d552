// internal/domain/upload/service.go
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/your-org/furniture-backend/internal/config"
	"github.com/your-org/furniture-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Extensions that carry 3D model data rather than images.
var modelExtensions = map[string]bool{
	"glb":  true,
	"gltf": true,
	"usdz": true,
}

// Service handles file upload business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new upload service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// StoreFile validates and persists an uploaded asset to local storage.
func (s *Service) StoreFile(header *multipart.FileHeader, altText string, uploadedBy uint) (*UploadedFile, error) {
	if header.Size > s.config.Upload.MaxSize {
		return nil, apperrors.BadRequest(fmt.Sprintf("file exceeds the %d byte limit", s.config.Upload.MaxSize))
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	if !s.extensionAllowed(ext) {
		return nil, apperrors.BadRequest(fmt.Sprintf("file type .%s is not allowed", ext))
	}

	kind := KindImage
	if modelExtensions[ext] {
		kind = KindModel
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	filename := fmt.Sprintf("%s.%s", uuid.NewString(), ext)
	dir := filepath.Join(s.config.Upload.LocalPath, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	f := UploadedFile{
		OriginalName: header.Filename,
		Filename:     filename,
		Path:         path,
		URL:          fmt.Sprintf("%s/%s/%s", s.config.Upload.BaseURL, kind, filename),
		MimeType:     header.Header.Get("Content-Type"),
		Size:         header.Size,
		Kind:         kind,
		AltText:      altText,
		UploadedBy:   uploadedBy,
	}
	if err := s.db.Create(&f).Error; err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to record uploaded file: %w", err)
	}
	return &f, nil
}

// GetFile retrieves an uploaded file record.
func (s *Service) GetFile(id uint) (*UploadedFile, error) {
	var f UploadedFile
	if err := s.db.First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("file", id)
		}
		return nil, fmt.Errorf("failed to retrieve file: %w", err)
	}
	return &f, nil
}

// ListFiles returns uploaded files, optionally filtered by kind.
func (s *Service) ListFiles(kind Kind, page, limit int) ([]UploadedFile, int64, error) {
	var files []UploadedFile
	var total int64

	query := s.db.Model(&UploadedFile{})
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count files: %w", err)
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&files).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list files: %w", err)
	}
	return files, total, nil
}

// DeleteFile removes the record and the stored bytes.
func (s *Service) DeleteFile(id uint) error {
	f, err := s.GetFile(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(f).Error; err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete stored file: %w", err)
	}
	return nil
}

func (s *Service) extensionAllowed(ext string) bool {
	for _, allowed := range s.config.Upload.AllowedExtensions {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}
