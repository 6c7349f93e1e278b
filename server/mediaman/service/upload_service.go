package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"signage_server/server/common/infra/object"
	commonlog "signage_server/server/common/log"
	"signage_server/server/mediaman/domain"
)

const (
	DefaultDurationMs  = 5000
	defaultContentType = "application/octet-stream"
)

var (
	ErrInvalidDurationsJSON  = errors.New("invalid durations JSON")
	ErrDurationCountMismatch = errors.New("durations count does not match files count")
)

// ObjectStore is the slice of the storage gateway the upload pipeline
// depends on.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	PublicURL(bucket, key string) string
}

// Notifier receives the URL of every newly stored media object.
type Notifier interface {
	Publish(url string)
}

type UploadService struct {
	store    ObjectStore
	bucket   string
	notifier Notifier
}

func NewUploadService(store ObjectStore, bucket string, notifier Notifier) *UploadService {
	return &UploadService{store: store, bucket: bucket, notifier: notifier}
}

// UploadOne stores a single file and pushes its public URL to the
// notification queue.
func (s *UploadService) UploadOne(ctx context.Context, file domain.UploadedFile) (domain.StoredObject, error) {
	stored, err := s.storeFile(ctx, file)
	if err != nil {
		return domain.StoredObject{}, err
	}
	s.notifier.Publish(stored.URL)
	commonlog.Infof("event=upload status=ok bucket=%s key=%s", stored.Bucket, stored.Key)
	return stored, nil
}

// UploadPlaylist stores every file in order, then stores the playlist
// document itself and pushes its URL. The first failed put aborts the
// request; files stored before the failure are not deleted.
func (s *UploadService) UploadPlaylist(ctx context.Context, files []domain.UploadedFile, durationsMs []int64, loop bool) (domain.Playlist, string, error) {
	items := make([]domain.PlaylistItem, 0, len(files))
	for i, file := range files {
		stored, err := s.storeFile(ctx, file)
		if err != nil {
			return domain.Playlist{}, "", err
		}
		items = append(items, domain.PlaylistItem{
			URL:         stored.URL,
			DurationMs:  durationsMs[i],
			ContentType: file.ContentType,
		})
	}

	playlist := domain.Playlist{
		Items:     items,
		Loop:      loop,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	payload, err := json.Marshal(playlist)
	if err != nil {
		return domain.Playlist{}, "", fmt.Errorf("encode playlist: %w", err)
	}

	key := uniqueKey("playlist.json")
	if err := s.store.Put(ctx, s.bucket, key, payload, "application/json"); err != nil {
		commonlog.Errorf("event=playlist_upload status=failed key=%s error=%v", key, err)
		return domain.Playlist{}, "", fmt.Errorf("playlist upload failed: %w", err)
	}
	url := s.store.PublicURL(s.bucket, key)
	s.notifier.Publish(url)
	commonlog.Infof("event=playlist_upload status=ok key=%s items=%d", key, len(items))
	return playlist, url, nil
}

func (s *UploadService) storeFile(ctx context.Context, file domain.UploadedFile) (domain.StoredObject, error) {
	contentType := file.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	key := uniqueKey(object.SanitizeKey(file.Name))
	if err := s.store.Put(ctx, s.bucket, key, file.Data, contentType); err != nil {
		commonlog.Errorf("event=upload status=failed file=%s key=%s error=%v", file.Name, key, err)
		return domain.StoredObject{}, fmt.Errorf("upload failed for %s: %w", file.Name, err)
	}
	return domain.StoredObject{
		Bucket:      s.bucket,
		Key:         key,
		URL:         s.store.PublicURL(s.bucket, key),
		ContentType: contentType,
	}, nil
}

// ParseDurations decodes the string-encoded JSON array of per-item
// display durations in seconds and converts each to milliseconds.
// Malformed JSON or a length mismatch rejects the whole request; an
// individual value that cannot be read as a number falls back to
// DefaultDurationMs instead.
func ParseDurations(raw string, count int) ([]int64, error) {
	var values []any
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, ErrInvalidDurationsJSON
	}
	if len(values) != count {
		return nil, ErrDurationCountMismatch
	}
	durations := make([]int64, len(values))
	for i, v := range values {
		durations[i] = durationToMs(v)
	}
	return durations, nil
}

func durationToMs(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n * 1000)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return int64(f * 1000)
		}
	}
	return DefaultDurationMs
}

// uniqueKey prefixes a sanitized name with a random token so repeated
// uploads of equally named files never collide.
func uniqueKey(safeName string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return token + "_" + safeName
}
