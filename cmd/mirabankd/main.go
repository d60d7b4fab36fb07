package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mirabank/mirabank/internal/metrics"
	"github.com/mirabank/mirabank/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	port := getEnv("PORT", "8000")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	// Memory store by default; Postgres when DATABASE_URL is set.
	var store server.Store
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		log.Println("Connecting to PostgreSQL...")
		pg, err := server.NewPostgresStore(dbURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := pg.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to create schema: %v", err)
		}
		store = pg
	} else {
		store = server.NewMemoryStore()
	}
	defer store.Close()

	collector := metrics.NewCollector()

	router := gin.Default()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "mirabankd"})
	})
	router.GET("/metrics", gin.WrapH(collector.Handler()))

	handler := server.NewHandler(store, []byte(jwtSecret))
	handler.Register(router)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("mirabankd starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
