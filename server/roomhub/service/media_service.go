package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"signage_server/server/common/infra/object"
	commonlog "signage_server/server/common/log"
	mediadomain "signage_server/server/mediaman/domain"
	"signage_server/server/roomhub/domain"
)

const itemTypeVideo = "video"
const itemTypeImage = "image"

// ObjectStore is the slice of the storage gateway the room services
// depend on.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	PutNoCache(ctx context.Context, bucket, key string, data []byte, contentType string) error
	PublicURL(bucket, key string) string
}

type MediaService struct {
	store  ObjectStore
	bucket string
}

func NewMediaService(store ObjectStore, bucket string) *MediaService {
	return &MediaService{store: store, bucket: bucket}
}

// UploadForRoom stores every file in order and classifies each as
// video or image for the room's playlist. The first failed put aborts
// the request; files stored before the failure are not deleted.
func (s *MediaService) UploadForRoom(ctx context.Context, room string, files []mediadomain.UploadedFile) ([]domain.ManifestItem, error) {
	items := make([]domain.ManifestItem, 0, len(files))
	for _, file := range files {
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		key := uniqueKey(object.SanitizeKey(file.Name))
		if err := s.store.Put(ctx, s.bucket, key, file.Data, contentType); err != nil {
			commonlog.Errorf("event=room_upload status=failed room=%s file=%s error=%v", room, file.Name, err)
			return nil, fmt.Errorf("upload failed for %s: %w", file.Name, err)
		}

		itemType := itemTypeImage
		if strings.HasPrefix(contentType, "video/") {
			itemType = itemTypeVideo
		}
		if itemType == itemTypeImage {
			if err := s.storeThumbnail(ctx, key, file.Data); err != nil {
				commonlog.Warnf("event=thumbnail status=skipped key=%s error=%v", key, err)
			}
		}
		items = append(items, domain.ManifestItem{
			Type: itemType,
			URL:  s.store.PublicURL(s.bucket, key),
		})
	}
	commonlog.Infof("event=room_upload status=ok room=%s files=%d", room, len(items))
	return items, nil
}

// storeThumbnail writes a 320x320 JPEG preview next to the original
// under <key without ext>_thumb.jpg. Best effort: non-image payloads
// declared as images simply fail to decode.
func (s *MediaService) storeThumbnail(ctx context.Context, key string, data []byte) error {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	thumb := imaging.Thumbnail(img, 320, 320, imaging.Lanczos)
	buf := bytes.NewBuffer(nil)
	if err := imaging.Encode(buf, thumb, imaging.JPEG); err != nil {
		return err
	}
	ext := path.Ext(key)
	thumbKey := strings.TrimSuffix(key, ext) + "_thumb.jpg"
	return s.store.Put(ctx, s.bucket, thumbKey, buf.Bytes(), "image/jpeg")
}

func uniqueKey(safeName string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return token + "_" + safeName
}
