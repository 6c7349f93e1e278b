package object

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
)

const manifestCacheControl = "no-cache, no-store, must-revalidate"

// Store adapts the minio client to the two operations the services
// need: store bytes under a bucket/key and derive the public URL that
// display clients fetch directly.
type Store struct {
	client        *minio.Client
	publicBaseURL string
}

func NewStore(client *minio.Client, publicBaseURL string) *Store {
	return &Store{client: client, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (s *Store) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	reader := bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, bucket, key, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// PutNoCache stores an object with caching disabled so readers always
// see the freshest version. Used for per-room manifests.
func (s *Store) PutNoCache(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	reader := bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, bucket, key, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: manifestCacheControl,
	})
	return err
}

func (s *Store) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, bucket, key)
}
