package photo

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
)

const (
	// MaxFileSize is the largest accepted upload, in bytes.
	MaxFileSize = 5 * 1024 * 1024
	// MaxFilesPerRequest caps the number of photos uploaded at once.
	MaxFilesPerRequest = 5
)

// ContentType is the MIME type of an uploaded image.
type ContentType string

const (
	ContentTypeJPEG  ContentType = "image/jpeg"
	ContentTypePJPEG ContentType = "image/pjpeg"
	ContentTypePNG   ContentType = "image/png"
	ContentTypeGIF   ContentType = "image/gif"
)

// IsValid returns true if the content type is an accepted image format.
func (c ContentType) IsValid() bool {
	switch c {
	case ContentTypeJPEG, ContentTypePJPEG, ContentTypePNG, ContentTypeGIF:
		return true
	}
	return false
}

// canonical folds aliases into the type reported by content sniffing.
func (c ContentType) canonical() ContentType {
	if c == ContentTypePJPEG {
		return ContentTypeJPEG
	}
	return c
}

// Upload describes one image file received from a client.
type Upload struct {
	filename    string
	contentType ContentType
	size        int64
	data        []byte
}

// NewUpload validates an image file. The declared type must match the
// type sniffed from the file's leading bytes.
func NewUpload(filename string, contentType string, data []byte) (*Upload, error) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(contentType)))
	if !ct.IsValid() {
		return nil, domain.NewValidationError("invalid file type: only jpeg, png and gif images are accepted")
	}
	if len(data) == 0 {
		return nil, domain.NewValidationError("photo file is empty")
	}
	if len(data) > MaxFileSize {
		return nil, domain.NewValidationError(fmt.Sprintf("photo %s exceeds the %d byte limit", filename, MaxFileSize))
	}
	if sniffed := ContentType(http.DetectContentType(data)); sniffed != ct.canonical() {
		return nil, domain.NewValidationError(fmt.Sprintf("photo %s content does not match its declared type %s", filename, ct))
	}
	return &Upload{
		filename:    filename,
		contentType: ct,
		size:        int64(len(data)),
		data:        data,
	}, nil
}

// ValidateBatch checks the number of files in one request.
func ValidateBatch(n int) error {
	if n > MaxFilesPerRequest {
		return domain.NewValidationError(fmt.Sprintf("at most %d photos can be uploaded at once", MaxFilesPerRequest))
	}
	return nil
}

func (u *Upload) Filename() string         { return u.filename }
func (u *Upload) ContentType() ContentType { return u.contentType }
func (u *Upload) Size() int64              { return u.size }
func (u *Upload) Data() []byte             { return u.data }

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Key builds a collision-free object key: <prefix><random hex>-<sanitized name>.
func (u *Upload) Key(prefix string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate photo key: %w", err)
	}
	name := unsafeChars.ReplaceAllString(filepath.Base(u.filename), "_")
	if name == "" || name == "." || name == "_" {
		name = "photo"
	}
	return prefix + hex.EncodeToString(buf) + "-" + name, nil
}
