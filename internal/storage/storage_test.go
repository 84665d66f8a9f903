package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cat.png", "cat.png"},
		{"my cat.png", "my_cat.png"},
		{"../../etc/passwd", "passwd"},
		{`..\..\boot.ini`, "boot.ini"},
		{"/abs/path/a b c.jpg", "a_b_c.jpg"},
		{"", ""},
		{"..", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestLocalStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:8080/")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "my cat.png", "image/png", strings.NewReader("PNGDATA"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/my_cat.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "my_cat.png"))
	require.NoError(t, err)
	assert.Equal(t, "PNGDATA", string(data))
}

func TestLocalStore_Save_Overwrites(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://h")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "a.png", "", strings.NewReader("first"))
	require.NoError(t, err)
	_, err = store.Save(context.Background(), "a.png", "", strings.NewReader("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestLocalStore_Save_StaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(filepath.Join(dir, "uploads"), "http://h")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "../escape.png", "", strings.NewReader("x"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "escape.png"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "uploads", "escape.png"))
	assert.NoError(t, err)
}

func TestLocalStore_Save_InvalidName(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://h")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "..", "", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidFilename)
}

type fakeS3 struct {
	input   *s3.PutObjectInput
	deleted *s3.DeleteObjectInput
	body    string
	err     error
}

func (f *fakeS3) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = params
	if f.err != nil {
		return nil, f.err
	}
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		b, _ := io.ReadAll(params.Body)
		f.body = string(b)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Save(t *testing.T) {
	client := &fakeS3{}
	store := NewS3StoreWithClient(client, "items", "https://cdn.example.com/")

	url, err := store.Save(context.Background(), "dog pic.jpg", "image/jpeg", strings.NewReader("JPEG"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/uploads/dog_pic.jpg", url)

	require.NotNil(t, client.input)
	assert.Equal(t, "items", aws.ToString(client.input.Bucket))
	assert.Equal(t, "uploads/dog_pic.jpg", aws.ToString(client.input.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(client.input.ContentType))
	assert.Equal(t, "JPEG", client.body)
}

func TestS3Store_Save_Error(t *testing.T) {
	client := &fakeS3{err: errors.New("access denied")}
	store := NewS3StoreWithClient(client, "items", "https://cdn.example.com")

	_, err := store.Save(context.Background(), "a.png", "", strings.NewReader("x"))
	assert.ErrorContains(t, err, "access denied")
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", publicBaseURL(S3Config{PublicURL: "https://cdn.example.com", Endpoint: "http://minio:9000"}))
	assert.Equal(t, "http://minio:9000/items", publicBaseURL(S3Config{Endpoint: "http://minio:9000/", Bucket: "items"}))
	assert.Equal(t, "https://items.s3.eu-west-1.amazonaws.com", publicBaseURL(S3Config{Bucket: "items", Region: "eu-west-1"}))
}

func TestLocalStore_Delete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://h")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "my cat.png", "", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), "my cat.png"))
	_, err = os.Stat(filepath.Join(dir, "my_cat.png"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(context.Background(), "never-saved.png"))
	assert.ErrorIs(t, store.Delete(context.Background(), ".."), ErrInvalidFilename)
}

func TestS3Store_Delete(t *testing.T) {
	client := &fakeS3{}
	store := NewS3StoreWithClient(client, "items", "https://cdn.example.com")

	require.NoError(t, store.Delete(context.Background(), "dog pic.jpg"))
	require.NotNil(t, client.deleted)
	assert.Equal(t, "items", aws.ToString(client.deleted.Bucket))
	assert.Equal(t, "uploads/dog_pic.jpg", aws.ToString(client.deleted.Key))
}
