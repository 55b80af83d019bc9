package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/openlabtools/labregistry/internal/config"
	"github.com/openlabtools/labregistry/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Log.Level)

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	svc := bootstrap(cfg)
	defer svc.shutdown()

	r := gin.New()
	registerRoutes(r, svc)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Infof("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
