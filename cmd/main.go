package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i-himanshu29/Authentication-System/config"
	"github.com/i-himanshu29/Authentication-System/db"
	"github.com/i-himanshu29/Authentication-System/internal/auth/handler"
	pgrepo "github.com/i-himanshu29/Authentication-System/internal/auth/repository/postgres"
	redisrepo "github.com/i-himanshu29/Authentication-System/internal/auth/repository/redis"
	"github.com/i-himanshu29/Authentication-System/internal/auth/service"
	"github.com/i-himanshu29/Authentication-System/internal/mail"
)

const sessionSweepInterval = time.Hour

func main() {
	cfg := config.Load()
	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}

	redisClient, err := db.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	userRepo := pgrepo.NewUserRepository(dbPool)
	sessionRepo := pgrepo.NewSessionRepository(dbPool)
	blacklist := redisrepo.NewBlacklistStore(redisClient)
	mailer := mail.NewSMTPMailer(cfg)

	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	userService := service.NewUserService(userRepo, sessionRepo, tokenService, mailer, cfg)
	sessionService := service.NewSessionService(sessionRepo, userRepo, blacklist, userService, tokenService, cfg)

	authHandler := handler.NewAuthHandler(userService, sessionService)
	sessionHandler := handler.NewSessionHandler(userService, sessionService)
	authMiddleware := handler.NewAuthMiddleware(tokenService, blacklist)

	go func() {
		ticker := time.NewTicker(sessionSweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			sessionService.SweepExpiredSessions(ctx)
		}
	}()

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler, sessionHandler, authMiddleware)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
