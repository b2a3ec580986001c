// Package media stores uploaded post and profile images and returns the URL
// they are served from.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"chirp/apperr"
)

// MaxUploadSize is the largest accepted image, in bytes.
const MaxUploadSize = 5 * 1024 * 1024

// sniffLen is how much of an upload is read to detect its type.
const sniffLen = 3072

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Upload is an image on its way to a Store. ContentType is the detected type
// once the upload has been through Prepare; client-declared types and file
// names are never trusted.
type Upload struct {
	ContentType string
	Size        int64
	Body        io.Reader
}

// Store persists an upload and returns its public URL.
type Store interface {
	Save(ctx context.Context, u Upload) (string, error)
}

// Prepare rejects uploads that are too large or whose content is not an
// allowed image. The returned upload carries the detected type and a Body
// that still yields every byte.
func Prepare(field string, u Upload) (Upload, error) {
	if err := checkSize(field, u.Size); err != nil {
		return u, err
	}
	if u.Body == nil {
		return u, apperr.Invalid(field, "file is empty")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(u.Body, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return u, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	detected := contentType(mimetype.Detect(head).String())
	if _, ok := allowedTypes[detected]; !ok {
		return u, apperr.Invalid(field, "only JPEG, PNG, GIF and WebP images are allowed")
	}

	u.ContentType = detected
	u.Body = io.MultiReader(bytes.NewReader(head), u.Body)
	return u, nil
}

func checkSize(field string, size int64) error {
	if size > MaxUploadSize {
		return apperr.Invalid(field, fmt.Sprintf("file is too large, the limit is %dMB", MaxUploadSize>>20))
	}
	return nil
}

func contentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// objectName builds a fresh name whose extension follows the detected type.
func objectName(u Upload) string {
	return uuid.NewString() + allowedTypes[u.ContentType]
}
