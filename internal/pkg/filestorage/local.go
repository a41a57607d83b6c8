package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yigit/empdesk/internal/domain"
	"github.com/yigit/empdesk/internal/pkg/logger"
)

// PublicPrefix is the URL and stored-path prefix of uploaded files.
const PublicPrefix = "uploads"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	maxSize  int64
	now      func() time.Time
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
// Uploads larger than maxSize bytes are rejected.
func NewLocalStorage(basePath string, maxSize int64) (*LocalStorage, error) {
	// Ensure the base path exists
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		maxSize:  maxSize,
		now:      time.Now,
	}, nil
}

// SaveImage validates an uploaded image and writes it as
// "<unix-millis>-<sanitized original name>". The returned descriptor's Path
// is what gets stored on the employee record.
func (ls *LocalStorage) SaveImage(fileHeader *multipart.FileHeader) (domain.ImageDescriptor, error) {
	if fileHeader == nil {
		return domain.ImageDescriptor{}, fmt.Errorf("no file uploaded")
	}
	if ls.maxSize > 0 && fileHeader.Size > ls.maxSize {
		return domain.ImageDescriptor{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, fileHeader.Size, ls.maxSize)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		return domain.ImageDescriptor{}, fmt.Errorf("%w: extension %q", ErrUnsupportedMediaType, ext)
	}
	declared := declaredMediaType(fileHeader)
	if declared != "" && !domain.IsAllowedImageType(declared) {
		return domain.ImageDescriptor{}, fmt.Errorf("%w: declared %q", ErrUnsupportedMediaType, declared)
	}

	// Open the uploaded file
	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return domain.ImageDescriptor{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return domain.ImageDescriptor{}, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	sniffed := http.DetectContentType(head[:n])
	if !domain.IsAllowedImageType(sniffed) {
		return domain.ImageDescriptor{}, fmt.Errorf("%w: content %q", ErrUnsupportedMediaType, sniffed)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return domain.ImageDescriptor{}, fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	filename := strconv.FormatInt(ls.now().UnixMilli(), 10) + "-" + SanitizeFilename(fileHeader.Filename)
	dstPath := filepath.Join(ls.basePath, filename)

	// Create the destination file
	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return domain.ImageDescriptor{}, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	// Copy one byte past the limit so an understated header size is still caught
	written, err := io.Copy(dst, io.LimitReader(file, ls.limit()+1))
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return domain.ImageDescriptor{}, fmt.Errorf("failed to save file content: %w", err)
	}
	if written > ls.limit() {
		_ = os.Remove(dstPath)
		return domain.ImageDescriptor{}, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, ls.maxSize)
	}

	desc := domain.ImageDescriptor{
		Path:         path.Join(PublicPrefix, filename),
		MediaType:    sniffed,
		Size:         written,
		OriginalName: fileHeader.Filename,
	}
	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", filename).Int64("size", written).Msg("File saved successfully")
	return desc, nil
}

func (ls *LocalStorage) limit() int64 {
	if ls.maxSize <= 0 {
		return 1<<63 - 2
	}
	return ls.maxSize
}

func declaredMediaType(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// SanitizeFilename keeps the base name of an uploaded file and replaces
// anything outside [A-Za-z0-9._-] with an underscore.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}

// DeleteFile removes a file from the storage filesystem.
// It accepts the file path as stored on the record (e.g., uploads/filename.jpg).
// Returns nil if deletion is successful or if the file doesn't exist.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	if filePath == "" {
		return nil // Nothing to delete
	}

	filename := filepath.Base(filePath)
	if filename == "" || filename == "." || filename == "/" || filename == PublicPrefix {
		return fmt.Errorf("invalid file path: %s", filePath)
	}

	physicalPath := filepath.Join(ls.basePath, filename)

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}
