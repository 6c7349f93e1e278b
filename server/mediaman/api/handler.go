package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"signage_server/server/common/notify"
	"signage_server/server/common/transport/httpresp"
	"signage_server/server/mediaman/domain"
	"signage_server/server/mediaman/service"
)

type Handler struct {
	uploads  *service.UploadService
	queue    *notify.Queue
	storeErr error
}

// NewHandler wires the upload pipeline and the notification queue into
// the HTTP surface. A non-nil storeErr puts every storage-touching
// route into fail-fast mode with a fixed diagnostic.
func NewHandler(uploads *service.UploadService, queue *notify.Queue, storeErr error) *Handler {
	return &Handler{uploads: uploads, queue: queue, storeErr: storeErr}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/events", h.events)
	r.GET("/ws", h.eventsWS)
	r.POST("/upload", h.upload)
	r.POST("/upload-playlist", h.uploadPlaylist)
}

func (h *Handler) storageReady(c *gin.Context) bool {
	if h.storeErr == nil {
		return true
	}
	c.JSON(http.StatusInternalServerError, httpresp.NewErrorResponse("object storage not configured: "+h.storeErr.Error()))
	return false
}

func (h *Handler) upload(c *gin.Context) {
	if !h.storageReady(c) {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, httpresp.NewErrorResponse(httpresp.ErrFileRequired))
		return
	}
	file, err := readFilePart(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpresp.NewErrorResponse(err.Error()))
		return
	}

	stored, err := h.uploads.UploadOne(c.Request.Context(), file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpresp.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, UploadResponse{
		Message:     "Uploaded successfully!",
		Filename:    stored.Key,
		URL:         stored.URL,
		ContentType: stored.ContentType,
	})
}

func (h *Handler) uploadPlaylist(c *gin.Context) {
	if !h.storageReady(c) {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, httpresp.NewErrorResponse(err.Error()))
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, httpresp.NewErrorResponse(httpresp.ErrFilesRequired))
		return
	}

	durationsMs, err := service.ParseDurations(c.PostForm("durations"), len(fileHeaders))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDurationCountMismatch):
			c.JSON(http.StatusBadRequest, httpresp.NewErrorResponse(httpresp.ErrDurationCountMismatch))
		default:
			c.JSON(http.StatusBadRequest, httpresp.NewErrorResponse(httpresp.ErrInvalidDurationsJSON))
		}
		return
	}
	loop, _ := strconv.ParseBool(c.PostForm("loop"))

	files := make([]domain.UploadedFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		file, err := readFilePart(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpresp.NewErrorResponse(err.Error()))
			return
		}
		files = append(files, file)
	}

	playlist, playlistURL, err := h.uploads.UploadPlaylist(c.Request.Context(), files, durationsMs, loop)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpresp.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, PlaylistResponse{
		Message:     "Playlist uploaded successfully!",
		PlaylistURL: playlistURL,
		Items:       playlist.Items,
	})
}

// events streams every queued URL to this client as a server-sent
// event. Each queued item goes to exactly one connected consumer.
func (h *Handler) events(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		url, err := h.queue.Next(ctx)
		if err != nil {
			return
		}
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", url); err != nil {
			return
		}
		c.Writer.Flush()
	}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// eventsWS serves the same feed over a websocket, one text frame per
// URL, for display clients that cannot hold an SSE connection.
func (h *Handler) eventsWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		url, err := h.queue.Next(ctx)
		if err != nil {
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(url)); err != nil {
			return
		}
	}
}

func readFilePart(fh *multipart.FileHeader) (domain.UploadedFile, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("read file part %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("read file part %s: %w", fh.Filename, err)
	}
	contentType := fh.Header.Get("Content-Type")
	return domain.UploadedFile{Name: fh.Filename, ContentType: contentType, Data: data}, nil
}
