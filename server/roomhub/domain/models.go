package domain

// ManifestItem is one entry of a room's ordered playlist. Type is
// "video" or "image", derived from the uploaded content type.
type ManifestItem struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Manifest is the serialized description of a room's current playlist.
// One logical manifest exists per room; each save overwrites the
// previous one at a fixed path.
type Manifest struct {
	Version   int            `json:"version"`
	Items     []ManifestItem `json:"items"`
	Timestamp string         `json:"timestamp"`
}
