package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	commonlog "signage_server/server/common/log"
	"signage_server/server/roomhub/domain"
)

type ManifestService struct {
	store  ObjectStore
	bucket string
}

func NewManifestService(store ObjectStore, bucket string) *ManifestService {
	return &ManifestService{store: store, bucket: bucket}
}

// Save serializes the room's playlist and overwrites the manifest at
// its fixed per-room path. There is no version check: a racing writer
// can clobber a newer manifest with an older one.
func (s *ManifestService) Save(ctx context.Context, room string, version int, items []domain.ManifestItem) (string, error) {
	if items == nil {
		items = []domain.ManifestItem{}
	}
	doc := domain.Manifest{
		Version:   version,
		Items:     items,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}

	key := manifestKey(room)
	if err := s.store.PutNoCache(ctx, s.bucket, key, payload, "application/json"); err != nil {
		commonlog.Errorf("event=manifest_save status=failed room=%s version=%d error=%v", room, version, err)
		return "", fmt.Errorf("manifest save failed: %w", err)
	}
	commonlog.Infof("event=manifest_save status=ok room=%s version=%d items=%d", room, version, len(items))
	return s.store.PublicURL(s.bucket, key), nil
}

func manifestKey(room string) string {
	return fmt.Sprintf("rooms/%s/latest-manifest.json", room)
}
