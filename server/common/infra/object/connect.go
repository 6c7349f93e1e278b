package object

import (
	"context"
	"errors"
	"fmt"
)

type Settings struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	PublicBaseURL string
}

// Connect validates the storage settings, builds the client and makes
// sure every named bucket exists. It runs once at startup; callers
// cache the returned error and fail storage-touching requests with it
// instead of retrying.
func Connect(ctx context.Context, settings Settings, buckets ...string) (*Store, error) {
	if settings.Endpoint == "" || settings.AccessKey == "" || settings.SecretKey == "" {
		return nil, errors.New("missing STORAGE_ENDPOINT, STORAGE_ACCESS_KEY or STORAGE_SECRET_KEY")
	}
	client, err := NewClient(settings.Endpoint, settings.AccessKey, settings.SecretKey, settings.UseSSL)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	for _, bucket := range buckets {
		if err := EnsureBucket(ctx, client, bucket); err != nil {
			return nil, fmt.Errorf("ensure bucket %s: %w", bucket, err)
		}
	}

	base := settings.PublicBaseURL
	if base == "" {
		scheme := "http"
		if settings.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + settings.Endpoint
	}
	return NewStore(client, base), nil
}
