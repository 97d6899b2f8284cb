package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"gramroulette/internal/api/handler"
	"gramroulette/internal/economy"
	"gramroulette/internal/matchmaker"
	"gramroulette/internal/models"
	"gramroulette/internal/report"
	"gramroulette/internal/storage"
	"gramroulette/internal/telegram"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupDependencies() (*gorm.DB, *redis.Client) {
	dsn := envOr("DATABASE_DSN",
		"host=localhost user=user password=password dbname=gramroulette port=5432 sslmode=disable")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Report{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func matchPolicy() matchmaker.MatchPolicy {
	if os.Getenv("MATCH_POLICY") == "closest_rating" {
		return matchmaker.PolicyClosestRating
	}
	return matchmaker.PolicyFIFO
}

func main() {
	log.Println("Starting GramRoulette backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	db, rdb := setupDependencies()
	s := storage.NewStorageService(db, rdb)

	econ := economy.NewService(s)
	reports := report.NewService(s)
	mm := matchmaker.NewService(s, econ, matchPolicy())

	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is not set!")
	}
	bot, err := telegram.NewBotService(botToken, mm, s, econ, reports)
	if err != nil {
		log.Fatalf("Failed to start Telegram bot: %v", err)
	}
	mm.SetNotifier(bot)

	go bot.Run()

	r := gin.Default()
	h := handler.NewHandler(mm, envOr("JWT_SECRET", "dev-secret"), os.Getenv("ADMIN_SECRET"))

	r.GET("/healthz", h.Healthz)
	r.POST("/auth", h.Auth)

	ops := r.Group("/", h.AuthRequired())
	ops.GET("/stats", h.Stats)
	ops.GET("/ws", h.ServeStatsFeed)

	server := &http.Server{
		Addr:           envOr("HTTP_ADDR", ":8080"),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
