package domain

// UploadedFile is one file part read from a multipart request. It only
// lives for the duration of that request.
type UploadedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type StoredObject struct {
	Bucket      string `json:"bucket"`
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

type PlaylistItem struct {
	URL         string `json:"url"`
	DurationMs  int64  `json:"durationMs"`
	ContentType string `json:"contentType"`
}

type Playlist struct {
	Items     []PlaylistItem `json:"items"`
	Loop      bool           `json:"loop"`
	CreatedAt string         `json:"createdAt"`
}
