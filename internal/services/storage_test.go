package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/config"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	acls    map[string]types.ObjectCannedACL
	deleted []string
	err     error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{
		objects: map[string][]byte{},
		types:   map[string]string{},
		acls:    map[string]types.ObjectCannedACL{},
	}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Key)
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	f.acls[key] = in.ACL
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	key := aws.ToString(in.Key)
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return &s3.DeleteObjectOutput{}, nil
}

var testUpload = config.UploadConfig{MaxBytes: 1024, AllowedFormats: []string{"jpg", "jpeg", "png", "gif"}}

func newTestS3(client s3API) *S3Service {
	return newS3Service(client, config.S3Config{
		Bucket:    "media",
		Region:    "ap-south-1",
		PublicURL: "https://media.example.com/",
	}, testUpload)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func TestS3UploadAndDelete(t *testing.T) {
	client := newFakeS3()
	s := newTestS3(client)
	ctx := context.Background()

	url, err := s.Upload(ctx, "blogs", fileHeader(t, "Cover.PNG", pngHeader))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "https://media.example.com/blogs/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	key, ok := s.ObjectKey(url)
	require.True(t, ok)
	assert.Equal(t, pngHeader, client.objects[key])
	assert.Equal(t, "image/png", client.types[key])
	assert.Equal(t, types.ObjectCannedACLPublicRead, client.acls[key])

	require.NoError(t, s.Delete(ctx, url))
	assert.Equal(t, []string{key}, client.deleted)
	assert.Empty(t, client.objects)
}

func TestS3UploadRejectsInput(t *testing.T) {
	s := newTestS3(newFakeS3())

	_, err := s.Upload(context.Background(), "blogs", fileHeader(t, "notes.txt", []byte("hi")))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Upload(context.Background(), "blogs", fileHeader(t, "huge.jpg", make([]byte, 2048)))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestS3UploadFailure(t *testing.T) {
	client := newFakeS3()
	client.err = errors.New("access denied")
	s := newTestS3(client)

	_, err := s.Upload(context.Background(), "services", fileHeader(t, "a.gif", []byte("GIF89a")))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestS3DeleteForeignURL(t *testing.T) {
	client := newFakeS3()
	s := newTestS3(client)

	err := s.Delete(context.Background(), "https://elsewhere.example.com/blogs/a.png")
	assert.ErrorIs(t, err, ErrForeignObject)
	assert.Empty(t, client.deleted)
}

func TestObjectKey(t *testing.T) {
	s := newTestS3(newFakeS3())

	tests := []struct {
		url  string
		key  string
		want bool
	}{
		{"https://media.example.com/blogs/a.png", "blogs/a.png", true},
		{"https://media.example.com/blogs/a.png?v=2", "blogs/a.png", true},
		{"https://media.example.com/", "", false},
		{"https://other.example.com/blogs/a.png", "", false},
	}
	for _, tt := range tests {
		key, ok := s.ObjectKey(tt.url)
		assert.Equal(t, tt.want, ok, tt.url)
		assert.Equal(t, tt.key, key, tt.url)
	}
}

func TestS3Owns(t *testing.T) {
	s := newTestS3(newFakeS3())

	assert.True(t, s.Owns("https://media.example.com/blogs/a.png"))
	assert.False(t, s.Owns("https://media.example.com.evil.test/blogs/a.png"))
	assert.False(t, s.Owns("https://other.example.com/blogs/a.png"))
	assert.False(t, s.Owns("https://media.example.com/"))
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", publicBaseURL(config.S3Config{PublicURL: "https://cdn.example.com"}))
	assert.Equal(t, "http://localhost:9000/media", publicBaseURL(config.S3Config{Endpoint: "http://localhost:9000/", Bucket: "media"}))
	assert.Equal(t, "https://media.s3.ap-south-1.amazonaws.com", publicBaseURL(config.S3Config{Bucket: "media", Region: "ap-south-1"}))
}
