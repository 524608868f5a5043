package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"travel-agency/pkg/media"
)

// ImageUpload is a file received from a multipart form.
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

func storeImage(ctx context.Context, store media.Store, folder string, img ImageUpload) (string, error) {
	url, err := store.Save(ctx, folder, img.Filename, img.Body, media.ContentType(img.Filename))
	if errors.Is(err, media.ErrUnsupportedType) {
		return "", fieldError("image", "Must be a jpg, jpeg, png, webp or gif file")
	}
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return url, nil
}
