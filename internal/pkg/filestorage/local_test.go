package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/empdesk/internal/domain"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func fileHeader(t *testing.T, name, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="f_Image"; filename="`+name+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["f_Image"][0]
}

func newTestStorage(t *testing.T, maxSize int64) *LocalStorage {
	t.Helper()
	ls, err := NewLocalStorage(t.TempDir(), maxSize)
	require.NoError(t, err)
	ls.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return ls
}

func TestSaveImage(t *testing.T) {
	ls := newTestStorage(t, 1024)

	desc, err := ls.SaveImage(fileHeader(t, "my photo.png", "image/png", pngBytes))

	require.NoError(t, err)
	assert.Equal(t, "uploads/1700000000000-my_photo.png", desc.Path)
	assert.Equal(t, domain.MediaTypePNG, desc.MediaType)
	assert.Equal(t, int64(len(pngBytes)), desc.Size)
	assert.Equal(t, "my photo.png", desc.OriginalName)

	stored, err := os.ReadFile(filepath.Join(ls.basePath, "1700000000000-my_photo.png"))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)
}

func TestSaveImageRejectsLargeFile(t *testing.T) {
	ls := newTestStorage(t, 16)

	_, err := ls.SaveImage(fileHeader(t, "big.png", "image/png", pngBytes))

	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestSaveImageRejectsUnsupportedTypes(t *testing.T) {
	ls := newTestStorage(t, 1024)

	_, err := ls.SaveImage(fileHeader(t, "doc.pdf", "application/pdf", []byte("%PDF-1.4")))
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)

	_, err = ls.SaveImage(fileHeader(t, "fake.png", "image/png", []byte("plain text, not an image")))
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)

	_, err = ls.SaveImage(fileHeader(t, "x.png", "image/gif", pngBytes))
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)

	entries, err := os.ReadDir(ls.basePath)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteFileIsIdempotent(t *testing.T) {
	ls := newTestStorage(t, 1024)
	desc, err := ls.SaveImage(fileHeader(t, "a.png", "image/png", pngBytes))
	require.NoError(t, err)

	require.NoError(t, ls.DeleteFile(desc.Path))
	require.NoError(t, ls.DeleteFile(desc.Path))
	require.NoError(t, ls.DeleteFile(""))

	_, err = os.Stat(filepath.Join(ls.basePath, filepath.Base(desc.Path)))
	assert.True(t, os.IsNotExist(err))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "a_b.jpg", SanitizeFilename(`C:\tmp\a b.jpg`))
	assert.Equal(t, "file", SanitizeFilename("..."))
}
