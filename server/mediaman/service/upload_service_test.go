package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signage_server/server/mediaman/domain"
)

type fakePut struct {
	bucket      string
	key         string
	contentType string
	data        []byte
}

type fakeStore struct {
	puts     []fakePut
	failName string
}

func (f *fakeStore) Put(_ context.Context, bucket, key string, data []byte, contentType string) error {
	if f.failName != "" && strings.Contains(key, f.failName) {
		return errors.New("backend rejected write")
	}
	f.puts = append(f.puts, fakePut{bucket: bucket, key: key, contentType: contentType, data: data})
	return nil
}

func (f *fakeStore) PublicURL(bucket, key string) string {
	return "https://store.test/" + bucket + "/" + key
}

type fakeNotifier struct {
	published []string
}

func (f *fakeNotifier) Publish(url string) {
	f.published = append(f.published, url)
}

func TestParseDurations(t *testing.T) {
	got, err := ParseDurations("[1.5, 2]", 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1500, 2000}, got)

	_, err = ParseDurations("not json", 1)
	assert.ErrorIs(t, err, ErrInvalidDurationsJSON)

	_, err = ParseDurations(`{"a":1}`, 1)
	assert.ErrorIs(t, err, ErrInvalidDurationsJSON)

	_, err = ParseDurations("[1, 2]", 3)
	assert.ErrorIs(t, err, ErrDurationCountMismatch)
}

func TestParseDurationsItemFallback(t *testing.T) {
	got, err := ParseDurations(`["2.5", null, true]`, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{2500, int64(DefaultDurationMs), int64(DefaultDurationMs)}, got)
}

func TestUploadOne(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	svc := NewUploadService(store, "media", notifier)

	stored, err := svc.UploadOne(context.Background(), domain.UploadedFile{
		Name:        "my photo.jpg",
		ContentType: "image/jpeg",
		Data:        []byte("jpegbytes"),
	})
	require.NoError(t, err)

	require.Len(t, store.puts, 1)
	put := store.puts[0]
	assert.Equal(t, "media", put.bucket)
	assert.True(t, strings.HasSuffix(put.key, "_my_photo.jpg"), "key %q", put.key)
	assert.Len(t, strings.SplitN(put.key, "_", 2)[0], 32)
	assert.Equal(t, "image/jpeg", put.contentType)

	assert.Equal(t, "https://store.test/media/"+put.key, stored.URL)
	assert.Equal(t, []string{stored.URL}, notifier.published)
}

func TestUploadOneDefaultsContentType(t *testing.T) {
	store := &fakeStore{}
	svc := NewUploadService(store, "media", &fakeNotifier{})

	stored, err := svc.UploadOne(context.Background(), domain.UploadedFile{Name: "blob", Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", stored.ContentType)
	assert.Equal(t, "application/octet-stream", store.puts[0].contentType)
}

func TestUploadPlaylist(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	svc := NewUploadService(store, "media", notifier)

	files := []domain.UploadedFile{
		{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")},
		{Name: "b.mp4", ContentType: "video/mp4", Data: []byte("b")},
	}
	playlist, url, err := svc.UploadPlaylist(context.Background(), files, []int64{1500, 2000}, true)
	require.NoError(t, err)

	require.Len(t, playlist.Items, 2)
	assert.Equal(t, int64(1500), playlist.Items[0].DurationMs)
	assert.Equal(t, int64(2000), playlist.Items[1].DurationMs)
	assert.Equal(t, "image/jpeg", playlist.Items[0].ContentType)
	assert.Equal(t, "video/mp4", playlist.Items[1].ContentType)
	assert.True(t, playlist.Loop)
	assert.True(t, strings.HasSuffix(playlist.CreatedAt, "Z"))

	// two media puts plus the playlist document itself
	require.Len(t, store.puts, 3)
	doc := store.puts[2]
	assert.True(t, strings.HasSuffix(doc.key, "_playlist.json"))
	assert.Equal(t, "application/json", doc.contentType)

	var decoded domain.Playlist
	require.NoError(t, json.Unmarshal(doc.data, &decoded))
	assert.Equal(t, playlist.Items, decoded.Items)

	// only the playlist URL is announced
	assert.Equal(t, []string{url}, notifier.published)
}

func TestUploadPlaylistAbortsOnFailure(t *testing.T) {
	store := &fakeStore{failName: "b.mp4"}
	notifier := &fakeNotifier{}
	svc := NewUploadService(store, "media", notifier)

	files := []domain.UploadedFile{
		{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")},
		{Name: "b.mp4", ContentType: "video/mp4", Data: []byte("b")},
	}
	_, _, err := svc.UploadPlaylist(context.Background(), files, []int64{1000, 1000}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b.mp4")

	// the first file stays stored, nothing is announced
	assert.Len(t, store.puts, 1)
	assert.Empty(t, notifier.published)
}
