package app

import (
	cmnenv "signage_server/server/common/env"
)

type Config struct {
	Port string

	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageUseSSL    bool
	StoragePublicURL string
	MediaBucket      string
	ManifestsBucket  string

	AllowedOrigins []string
}

func LoadConfig() Config {
	return Config{
		Port:             cmnenv.String("ROOMHUB_PORT", "8090"),
		StorageEndpoint:  cmnenv.String("STORAGE_ENDPOINT", ""),
		StorageAccessKey: cmnenv.String("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey: cmnenv.String("STORAGE_SECRET_KEY", ""),
		StorageUseSSL:    cmnenv.Bool("STORAGE_USE_SSL", false),
		StoragePublicURL: cmnenv.String("STORAGE_PUBLIC_URL", ""),
		MediaBucket:      cmnenv.String("MEDIA_BUCKET", "media"),
		ManifestsBucket:  cmnenv.String("MANIFESTS_BUCKET", "manifests"),
		AllowedOrigins:   cmnenv.CSV("ALLOWED_ORIGINS", []string{"*"}),
	}
}
