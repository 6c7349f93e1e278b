package api

import (
	"signage_server/server/common/transport/httpresp"
	"signage_server/server/mediaman/domain"
)

type ErrorResponse = httpresp.ErrorResponse

type UploadResponse struct {
	Message     string `json:"message"`
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

type PlaylistResponse struct {
	Message     string                `json:"message"`
	PlaylistURL string                `json:"playlist_url"`
	Items       []domain.PlaylistItem `json:"items"`
}
