package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"signage_server/server/common/transport/httpresp"
	mediadomain "signage_server/server/mediaman/domain"
	"signage_server/server/roomhub/domain"
	"signage_server/server/roomhub/service"
)

type Handler struct {
	media     *service.MediaService
	manifests *service.ManifestService
	storeErr  error
}

func NewHandler(media *service.MediaService, manifests *service.ManifestService, storeErr error) *Handler {
	return &Handler{media: media, manifests: manifests, storeErr: storeErr}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, StatusResponse{Message: "signage room service", Status: "ok"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/upload", h.upload)
	r.POST("/save-manifest", h.saveManifest)
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
	room := strings.TrimSpace(c.PostForm("room"))
	if room == "" {
		c.JSON(http.StatusBadRequest, httpresp.NewErrorResponse(httpresp.ErrRoomRequired))
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

	files := make([]mediadomain.UploadedFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		file, err := readFilePart(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpresp.NewErrorResponse(err.Error()))
			return
		}
		files = append(files, file)
	}

	items, err := h.media.UploadForRoom(c.Request.Context(), room, files)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpresp.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) saveManifest(c *gin.Context) {
	if !h.storageReady(c) {
		return
	}
	var req struct {
		Room    string                `json:"room"`
		Version int                   `json:"version"`
		Items   []domain.ManifestItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpresp.NewErrorResponse(httpresp.ErrInvalidManifestRequest))
		return
	}
	room := strings.TrimSpace(req.Room)
	if room == "" {
		c.JSON(http.StatusBadRequest, httpresp.NewErrorResponse(httpresp.ErrRoomRequired))
		return
	}

	url, err := h.manifests.Save(c.Request.Context(), room, req.Version, req.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpresp.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, ManifestResponse{
		Message: "Manifest saved successfully!",
		URL:     url,
		Version: req.Version,
	})
}

func readFilePart(fh *multipart.FileHeader) (mediadomain.UploadedFile, error) {
	f, err := fh.Open()
	if err != nil {
		return mediadomain.UploadedFile{}, fmt.Errorf("read file part %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return mediadomain.UploadedFile{}, fmt.Errorf("read file part %s: %w", fh.Filename, err)
	}
	return mediadomain.UploadedFile{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data}, nil
}
