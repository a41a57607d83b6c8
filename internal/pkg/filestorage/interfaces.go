package filestorage

import (
	"errors"
	"mime/multipart"

	"github.com/yigit/empdesk/internal/domain"
)

// Upload errors
var (
	ErrFileTooLarge         = errors.New("file too large")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)

// ImageStorage defines the upload operations the employee workflow depends on
type ImageStorage interface {
	// SaveImage checks and stores an uploaded employee image
	SaveImage(fileHeader *multipart.FileHeader) (domain.ImageDescriptor, error)

	// DeleteFile removes a file from storage
	DeleteFile(filePath string) error
}
