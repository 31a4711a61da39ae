package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nymo/internal/db"
	"nymo/internal/handlers"
	"nymo/internal/router"
	"nymo/internal/services"
	"nymo/internal/store"
	"nymo/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.Info("Starting Nymo")

	cfg := utils.LoadConfig(".env", log)

	// Initialize Database; lifecycle stays here, components only borrow it
	gdb, err := db.Open(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.WithError(err).Fatal("Failed to access database handle")
	}
	defer sqlDB.Close()

	cache, err := utils.NewCache(cfg.CacheSize)
	if err != nil {
		log.WithError(err).Fatal("Failed to create cache")
	}

	st := store.New(gdb, log)
	feedService := services.NewFeedService(st)
	postService := services.NewPostService(st, cache)
	limiter := services.NewRateLimiter(cfg.RateLimits)

	r := gin.Default()
	router.RegisterRoutes(r, router.Handlers{
		Post:  handlers.NewPostHandler(feedService, postService, log),
		Vote:  handlers.NewVoteHandler(st, log),
		Stats: handlers.NewStatsHandler(postService, log),
	}, limiter, cfg.SessionSecret)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Nymo server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
	log.Info("Server stopped")
}
