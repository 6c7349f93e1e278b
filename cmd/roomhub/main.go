package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	commonlog "signage_server/server/common/log"
	roomapp "signage_server/server/roomhub/app"
)

func main() {
	if err := godotenv.Load(); err != nil {
		commonlog.Infof("no .env file found, reading from environment")
	}
	cfg := roomapp.LoadConfig()

	server, err := roomapp.NewServer(cfg)
	if err != nil {
		log.Fatalf("initialize roomhub server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		commonlog.Infof("start roomhub http server on :%s", cfg.Port)
		if err := server.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("run roomhub http server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		commonlog.Errorf("shutdown roomhub server gracefully: %v", err)
	}
}
