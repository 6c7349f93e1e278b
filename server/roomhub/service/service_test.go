package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mediadomain "signage_server/server/mediaman/domain"
	"signage_server/server/roomhub/domain"
)

type storedObject struct {
	data        []byte
	contentType string
	noCache     bool
}

type fakeStore struct {
	objects  map[string]storedObject
	putOrder []string
	failName string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]storedObject{}}
}

func (f *fakeStore) Put(_ context.Context, bucket, key string, data []byte, contentType string) error {
	if f.failName != "" && strings.Contains(key, f.failName) {
		return errors.New("backend rejected write")
	}
	f.objects[bucket+"/"+key] = storedObject{data: data, contentType: contentType}
	f.putOrder = append(f.putOrder, key)
	return nil
}

func (f *fakeStore) PutNoCache(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if err := f.Put(ctx, bucket, key, data, contentType); err != nil {
		return err
	}
	obj := f.objects[bucket+"/"+key]
	obj.noCache = true
	f.objects[bucket+"/"+key] = obj
	return nil
}

func (f *fakeStore) PublicURL(bucket, key string) string {
	return "https://store.test/" + bucket + "/" + key
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := imaging.New(24, 24, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func TestUploadForRoomClassifiesItems(t *testing.T) {
	store := newFakeStore()
	svc := NewMediaService(store, "media")

	files := []mediadomain.UploadedFile{
		{Name: "clip.mp4", ContentType: "video/mp4", Data: []byte("mp4bytes")},
		{Name: "poster.png", ContentType: "image/png", Data: pngBytes(t)},
	}
	items, err := svc.UploadForRoom(context.Background(), "lobby", files)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "video", items[0].Type)
	assert.Equal(t, "image", items[1].Type)
	assert.True(t, strings.HasSuffix(items[0].URL, "_clip.mp4"))
	assert.True(t, strings.HasSuffix(items[1].URL, "_poster.png"))
}

func TestUploadForRoomWritesThumbnail(t *testing.T) {
	store := newFakeStore()
	svc := NewMediaService(store, "media")

	_, err := svc.UploadForRoom(context.Background(), "lobby", []mediadomain.UploadedFile{
		{Name: "poster.png", ContentType: "image/png", Data: pngBytes(t)},
	})
	require.NoError(t, err)

	var thumbs int
	for key, obj := range store.objects {
		if strings.HasSuffix(key, "_thumb.jpg") {
			thumbs++
			assert.Equal(t, "image/jpeg", obj.contentType)
		}
	}
	assert.Equal(t, 1, thumbs)
}

func TestUploadForRoomThumbnailFailureIsIgnored(t *testing.T) {
	store := newFakeStore()
	svc := NewMediaService(store, "media")

	// declared as an image but not decodable, upload must still succeed
	items, err := svc.UploadForRoom(context.Background(), "lobby", []mediadomain.UploadedFile{
		{Name: "broken.png", ContentType: "image/png", Data: []byte("not an image")},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "image", items[0].Type)
}

func TestUploadForRoomAbortsOnFailure(t *testing.T) {
	store := newFakeStore()
	store.failName = "second.png"
	svc := NewMediaService(store, "media")

	files := []mediadomain.UploadedFile{
		{Name: "first.mp4", ContentType: "video/mp4", Data: []byte("a")},
		{Name: "second.png", ContentType: "image/png", Data: pngBytes(t)},
	}
	_, err := svc.UploadForRoom(context.Background(), "lobby", files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second.png")
	assert.Len(t, store.putOrder, 1)
}

func TestManifestSaveOverwrites(t *testing.T) {
	store := newFakeStore()
	svc := NewManifestService(store, "manifests")

	items := []domain.ManifestItem{{Type: "image", URL: "https://store.test/media/x.png"}}
	url1, err := svc.Save(context.Background(), "den", 1, items)
	require.NoError(t, err)
	url2, err := svc.Save(context.Background(), "den", 2, items)
	require.NoError(t, err)

	assert.Equal(t, url1, url2)
	assert.True(t, strings.HasSuffix(url2, "/manifests/rooms/den/latest-manifest.json"))

	// exactly one stored object at the fixed path, holding version 2
	obj, ok := store.objects["manifests/rooms/den/latest-manifest.json"]
	require.True(t, ok)
	require.Len(t, store.objects, 1)
	assert.True(t, obj.noCache)
	assert.Equal(t, "application/json", obj.contentType)

	var manifest domain.Manifest
	require.NoError(t, json.Unmarshal(obj.data, &manifest))
	assert.Equal(t, 2, manifest.Version)
	assert.Equal(t, items, manifest.Items)
	assert.True(t, strings.HasSuffix(manifest.Timestamp, "Z"))
}

func TestManifestSaveEmptyItems(t *testing.T) {
	store := newFakeStore()
	svc := NewManifestService(store, "manifests")

	_, err := svc.Save(context.Background(), "den", 1, nil)
	require.NoError(t, err)

	obj := store.objects["manifests/rooms/den/latest-manifest.json"]
	assert.Contains(t, string(obj.data), `"items":[]`)
}
