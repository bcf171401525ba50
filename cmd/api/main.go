package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/cors"

	"brainchat/api/router"
	"brainchat/brain"
	"brainchat/config"
	"brainchat/db"
	"brainchat/generator"
	"brainchat/logger"
	"brainchat/repositories"
	"brainchat/services"
)

// @title           Brainchat API
// @version         1.0
// @description     Knowledge-base chat API with a metered Gemini fallback
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	if err := db.Init(context.Background()); err != nil {
		logger.Log.Errorf("failed to initialize MongoDB: %v", err)
		os.Exit(1)
	}

	brainPath := cfg.Brain.Path
	if brainPath == "" {
		brainPath = "brain.json"
	}
	kb, err := brain.Load(filepath.Join(config.GetBasePath(), brainPath))
	if err != nil {
		logger.Log.Errorf("failed to load knowledge base: %v", err)
		os.Exit(1)
	}
	logger.Log.Infof("knowledge base loaded: %d intents, fallback enabled=%v", len(kb.Intents), kb.FallbackEnabled())

	gen := generator.New(cfg.Env.GeminiAPIKey, cfg.Gemini.Model, cfg.Gemini.TimeoutSeconds)

	users := repositories.NewUserRepository(db.Database())
	aiLogs := repositories.NewAILogRepository(db.Database())

	chatSvc := services.NewChatService(users, kb, gen, aiLogs)
	rewardSvc := services.NewRewardService(users)

	r := router.New(chatSvc, rewardSvc)

	addr := ":" + cfg.Env.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           cors.Default().Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Log.Infof("listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Log.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}
