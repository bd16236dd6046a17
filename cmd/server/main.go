package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"badminton_board_backend/internal/config"
	"badminton_board_backend/internal/metrics"
	"badminton_board_backend/internal/router"
	"badminton_board_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.InitLogger("info")
		utils.LogError(err, "Failed to load configuration")
		os.Exit(1)
	}

	// Initialize Logger
	utils.InitLogger(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, err := openStore(ctx, cfg)
	if err != nil {
		utils.LogError(err, "Failed to open store")
		os.Exit(1)
	}
	defer kv.Close()
	utils.LogInfo("Store ready", map[string]interface{}{"driver": cfg.StoreDriver})

	m := metrics.New()
	engine := newEngine(cfg, m)

	// Setup all application routes
	router.Setup(engine, kv, utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiration), m)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			utils.LogError(err, "Graceful shutdown failed")
		}
	}()

	utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port})
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		utils.LogError(err, "Failed to start server")
		os.Exit(1)
	}
	utils.LogInfo("Server stopped")
}

func newEngine(cfg *config.Config, m *metrics.Metrics) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	// Add GinLogger middleware for request logging
	engine.Use(utils.GinLogger())
	engine.Use(m.Middleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Location"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	engine.GET("/metrics", m.Handler())
	return engine
}
