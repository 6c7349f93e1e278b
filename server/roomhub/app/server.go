package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"signage_server/server/common/infra/object"
	commonlog "signage_server/server/common/log"
	roomapi "signage_server/server/roomhub/api"
	"signage_server/server/roomhub/service"
)

type Server struct {
	HTTPServer *http.Server
}

func NewServer(cfg Config) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, storeErr := object.Connect(ctx, object.Settings{
		Endpoint:      cfg.StorageEndpoint,
		AccessKey:     cfg.StorageAccessKey,
		SecretKey:     cfg.StorageSecretKey,
		UseSSL:        cfg.StorageUseSSL,
		PublicBaseURL: cfg.StoragePublicURL,
	}, cfg.MediaBucket, cfg.ManifestsBucket)
	if storeErr != nil {
		commonlog.Errorf("object storage unavailable, storage routes will fail: %v", storeErr)
	}

	media := service.NewMediaService(store, cfg.MediaBucket)
	manifests := service.NewManifestService(store, cfg.ManifestsBucket)
	h := roomapi.NewHandler(media, manifests, storeErr)

	r := gin.Default()
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	h.RegisterRoutes(r)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{HTTPServer: httpServer}, nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.HTTPServer.Shutdown(ctx)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
