package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"signage_server/server/common/infra/object"
	commonlog "signage_server/server/common/log"
	"signage_server/server/common/notify"
	mediaapi "signage_server/server/mediaman/api"
	"signage_server/server/mediaman/service"
)

type Server struct {
	HTTPServer *http.Server
	Queue      *notify.Queue
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
	}, cfg.MediaBucket)
	if storeErr != nil {
		commonlog.Errorf("object storage unavailable, storage routes will fail: %v", storeErr)
	}

	queue := notify.NewQueue()
	uploads := service.NewUploadService(store, cfg.MediaBucket, queue)
	h := mediaapi.NewHandler(uploads, queue, storeErr)

	r := gin.Default()
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	h.RegisterRoutes(r)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		// no write timeout: /events and /ws connections stay open
	}

	return &Server{HTTPServer: httpServer, Queue: queue}, nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.Queue.Close()
	return s.HTTPServer.Shutdown(ctx)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowWebSockets = true
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
