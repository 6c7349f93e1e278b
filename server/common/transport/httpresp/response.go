package httpresp

const (
	ErrFileRequired           = "a file part named 'file' is required"
	ErrFilesRequired          = "at least one file part named 'files' is required"
	ErrRoomRequired           = "room is required"
	ErrInvalidDurationsJSON   = "invalid 'durations' JSON, provide an array of numbers in seconds"
	ErrDurationCountMismatch  = "number of durations must match number of files"
	ErrInvalidManifestRequest = "invalid manifest request body"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type URLResponse struct {
	URL string `json:"url"`
}

func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

func NewOKResponse() OKResponse {
	return OKResponse{OK: true}
}

func NewURLResponse(url string) URLResponse {
	return URLResponse{URL: url}
}
