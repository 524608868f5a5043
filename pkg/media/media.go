// Package media stores uploaded images and hands back the URL that owning
// records keep as their image reference.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedType is returned for files that are not a known image type.
var ErrUnsupportedType = errors.New("unsupported image type")

type Store interface {
	// Save writes the object under folder and returns its public URL.
	Save(ctx context.Context, folder, filename string, body io.Reader, contentType string) (string, error)
}

var allowedExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// objectKey builds a collision-free key that keeps the original extension.
func objectKey(folder, filename string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if _, ok := allowedExt[ext]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnsupportedType, ext)
	}
	return path.Join(folder, uuid.NewString()+ext), nil
}

// ContentType returns the MIME type for an allowed image extension.
func ContentType(filename string) string {
	return allowedExt[strings.ToLower(path.Ext(filename))]
}
