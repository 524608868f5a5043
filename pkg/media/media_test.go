package media

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"travel-agency/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalSave(t *testing.T) {
	root := t.TempDir()
	store := NewLocal(root, "/media/", zap.NewNop())

	url, err := store.Save(context.Background(), "tours", "beach.JPG", strings.NewReader("img"), "image/jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/media/tours/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	data, err := os.ReadFile(filepath.Join(root, strings.TrimPrefix(url, "/media/")))
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))
}

func TestLocalSaveRejectsUnknownType(t *testing.T) {
	store := NewLocal(t.TempDir(), "/media/", zap.NewNop())

	_, err := store.Save(context.Background(), "tours", "script.sh", strings.NewReader("x"), "")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Save(t *testing.T) {
	putter := &fakePutter{}
	store := NewS3WithClient(putter, utils.MediaConfig{S3Bucket: "travel-media", S3Region: "eu-west-1"}, zap.NewNop())

	url, err := store.Save(context.Background(), "blog", "cover.png", strings.NewReader("png"), "image/png")
	require.NoError(t, err)

	require.NotNil(t, putter.input)
	assert.Equal(t, "travel-media", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "image/png", aws.ToString(putter.input.ContentType))
	assert.Equal(t, "png", putter.body)
	assert.Equal(t, "https://travel-media.s3.eu-west-1.amazonaws.com/"+aws.ToString(putter.input.Key), url)
}

func TestS3SavePublicBaseURL(t *testing.T) {
	putter := &fakePutter{}
	store := NewS3WithClient(putter, utils.MediaConfig{S3Bucket: "b", S3BaseURL: "https://cdn.example.com/"}, zap.NewNop())

	url, err := store.Save(context.Background(), "tours", "a.webp", strings.NewReader(""), "image/webp")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/tours/"))
}

func TestS3SaveError(t *testing.T) {
	putter := &fakePutter{err: errors.New("access denied")}
	store := NewS3WithClient(putter, utils.MediaConfig{S3Bucket: "b"}, zap.NewNop())

	_, err := store.Save(context.Background(), "tours", "a.png", strings.NewReader(""), "image/png")
	assert.ErrorContains(t, err, "access denied")
}
