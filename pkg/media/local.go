package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Local keeps files under root and serves them below urlPrefix.
type Local struct {
	root      string
	urlPrefix string
	log       *zap.Logger
}

func NewLocal(root, urlPrefix string, log *zap.Logger) *Local {
	return &Local{
		root:      root,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		log:       log.With(zap.String("media", "local")),
	}
}

func (l *Local) Root() string { return l.root }

func (l *Local) Save(ctx context.Context, folder, filename string, body io.Reader, _ string) (string, error) {
	key, err := objectKey(folder, filename)
	if err != nil {
		return "", err
	}

	dst := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		l.log.Error("Failed to create media file", zap.Error(err), zap.String("path", dst))
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write media file: %w", err)
	}

	return l.urlPrefix + "/" + key, nil
}
