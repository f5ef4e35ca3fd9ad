package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rhyrak/hall-schedule/internal/ctxlog"
)

type envConfig struct {
	Port       string `validate:"required,numeric"`
	StorageDir string `validate:"required"`
	LogLevel   string `validate:"oneof=debug info warn error"`
	LogFormat  string `validate:"oneof=text json"`
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// loadEnvConfig reads the environment, loading .env first when present.
func loadEnvConfig() (*envConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg := &envConfig{
		Port:       getEnv("PORT", "3001"),
		StorageDir: getEnv("STORAGE_DIR", "db/generated"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "text"),
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	return cfg, nil
}

func main() {
	cfg, err := loadEnvConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := ctxlog.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	slog.SetDefault(logger)

	store, err := newStore(cfg.StorageDir)
	if err != nil {
		logger.Error("Cannot open storage.", "dir", cfg.StorageDir, "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(newServer(store, logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("Listening.", "addr", srv.Addr, "storage", cfg.StorageDir)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server stopped.", "error", err)
		os.Exit(1)
	}
}

func newRouter(s *server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger)

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	r.GET("/schedule", s.handleGetSchedule)
	r.GET("/schedule/:id", s.handleGetScheduleWithId)
	r.GET("/schedule/:id/venues", s.handleGetScheduleVenues)
	r.DELETE("/schedule/:id", s.handleDeleteScheduleWithId)
	r.POST("/schedule", s.handlePostSchedule)
	r.POST("/", s.handlePostSchedule)
	r.GET("/venues", s.handleGetVenues)

	return r
}
