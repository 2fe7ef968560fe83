package main

import (
	"log"

	"practicetracker/backend/internal/config"
	"practicetracker/backend/internal/db"
	"practicetracker/backend/internal/handler"
	"practicetracker/backend/internal/repository"
	"practicetracker/backend/internal/router"
	"practicetracker/backend/internal/service"
)

func main() {
	cfg := config.Load()

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	practiceRepo := repository.NewPracticeRepository(database)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	practiceService := service.NewPracticeService(userRepo, practiceRepo, nil)

	authHandler := handler.NewAuthHandler(authService)
	practiceHandler := handler.NewPracticeHandler(practiceService)
	configHandler := handler.NewConfigHandler(cfg.SupabaseURL, cfg.SupabaseAnonKey)

	engine := router.New(authService, authHandler, practiceHandler, configHandler, router.Options{
		CORSOrigins:       cfg.CORSOrigins,
		AuthRatePerMinute: cfg.AuthRatePerMinute,
	})
	log.Printf("backend listening on :%s", cfg.Port)
	if err := engine.Run(":" + cfg.Port); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
