package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kasuwa-dev/kasuwa-backend/internal/catalog"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/config"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
	pkgerrors "github.com/kasuwa-dev/kasuwa-backend/pkg/errors"
)

// allowedExtensions whitelists the image types accepted for upload.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// Service stores uploaded product images on local disk and records them in
// the catalog.
type Service interface {
	SaveProductImage(ctx context.Context, productID uuid.UUID, upload Upload) (*models.ProductImage, error)
}

// Upload is one incoming multipart file plus its image metadata.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
	AltText  *string
	IsMain   bool
	Position int
}

type service struct {
	catalog catalog.Service
	cfg     config.MediaConfig
}

// NewService builds a media service with the required dependencies.
func NewService(catalogSvc catalog.Service, cfg config.MediaConfig) (Service, error) {
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, fmt.Errorf("media directory required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media directory: %w", err)
	}
	return &service{catalog: catalogSvc, cfg: cfg}, nil
}

func (s *service) SaveProductImage(ctx context.Context, productID uuid.UUID, upload Upload) (*models.ProductImage, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !allowedExtensions[ext] {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported image type").
			WithDetails(map[string]any{"filename": upload.Filename})
	}
	maxBytes := int64(s.cfg.MaxUploadMB) << 20
	if maxBytes > 0 && upload.Size > maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file exceeds the %dMB upload limit", s.cfg.MaxUploadMB))
	}

	stored := uuid.NewString() + ext
	path := filepath.Join(s.cfg.Dir, stored)

	written, err := s.writeFile(path, upload.Content, maxBytes)
	if err != nil {
		return nil, err
	}
	if written == 0 {
		_ = os.Remove(path)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "empty upload")
	}

	image, err := s.catalog.AttachImage(ctx, productID, catalog.ImageInput{
		URL:      "/media/" + stored,
		AltText:  upload.AltText,
		IsMain:   upload.IsMain,
		Position: upload.Position,
	})
	if err != nil {
		// keep the media dir consistent with the catalog
		_ = os.Remove(path)
		return nil, err
	}
	return image, nil
}

// writeFile copies the upload onto disk, enforcing the size limit even when
// the client lied about Content-Length.
func (s *service) writeFile(path string, content io.Reader, maxBytes int64) (int64, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create media file")
	}
	defer file.Close()

	reader := content
	if maxBytes > 0 {
		reader = io.LimitReader(content, maxBytes+1)
	}
	written, err := io.Copy(file, reader)
	if err != nil {
		_ = os.Remove(path)
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write media file")
	}
	if maxBytes > 0 && written > maxBytes {
		_ = os.Remove(path)
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file exceeds the %dMB upload limit", s.cfg.MaxUploadMB))
	}
	return written, nil
}
