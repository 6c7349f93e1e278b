package api

import (
	"signage_server/server/common/transport/httpresp"
)

type ErrorResponse = httpresp.ErrorResponse

type StatusResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type ManifestResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
	Version int    `json:"version"`
}
