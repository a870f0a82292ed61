package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/media2net-app/mihaelafitness/internal/config"
	"github.com/media2net-app/mihaelafitness/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if err := cfg.RequireServer(); err != nil {
		logrus.Fatal(err)
	}

	log := newLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := store.Open(ctx, cfg.DatabaseURL, log)
	cancel()
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer st.Close()

	router := newRouter(newHandler(st, cfg), cfg, log)

	log.WithField("addr", cfg.ListenAddr).Info("starting api server")
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// newRouter builds the gin engine with recovery, request logging, CORS and
// every API route.
func newRouter(h *Handler, cfg config.Config, log logrus.FieldLogger) *gin.Engine {
	router := gin.New()
	router.SetTrustedProxies(nil)
	router.Use(gin.Recovery(), requestLogging(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	h.registerRoutes(router)
	return router
}
