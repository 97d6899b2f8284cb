package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"gramroulette/internal/config"
	"gramroulette/internal/storage"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: os.Getenv("REDIS_ADDR")})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}

	storageSvc := storage.NewStorageService(db, rdb)

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "ban":
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin ban <telegram_id> [duration_in_hours]")
			os.Exit(1)
		}
		telegramID := parseID(os.Args[2])
		duration := config.BanDuration
		if len(os.Args) > 3 {
			hours, err := strconv.Atoi(os.Args[3])
			if err != nil {
				fmt.Println("Invalid duration. Please provide an integer.")
				os.Exit(1)
			}
			duration = time.Duration(hours) * time.Hour
		}
		if err := storageSvc.BanUser(telegramID, duration); err != nil {
			log.Fatalf("Error banning user: %v", err)
		}
		fmt.Printf("User %d has been banned for %v.\n", telegramID, duration)

	case "unban":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin unban <telegram_id>")
			os.Exit(1)
		}
		telegramID := parseID(os.Args[2])
		if err := storageSvc.UnbanUser(telegramID); err != nil {
			log.Fatalf("Error unbanning user: %v", err)
		}
		fmt.Printf("User %d has been unbanned.\n", telegramID)

	case "grant":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin grant <telegram_id> <tokens>")
			os.Exit(1)
		}
		telegramID := parseID(os.Args[2])
		amount, err := strconv.Atoi(os.Args[3])
		if err != nil {
			fmt.Println("Invalid token amount. Please provide an integer.")
			os.Exit(1)
		}
		if err := grantTokens(storageSvc, telegramID, amount); err != nil {
			log.Fatalf("Error granting tokens: %v", err)
		}
		fmt.Printf("Granted %d tokens to user %d.\n", amount, telegramID)

	case "user":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin user <telegram_id>")
			os.Exit(1)
		}
		telegramID := parseID(os.Args[2])
		if err := printUser(storageSvc, telegramID); err != nil {
			log.Fatalf("Error loading user: %v", err)
		}

	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func parseID(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Println("Invalid telegram ID. Please provide an integer.")
		os.Exit(1)
	}
	return id
}

func grantTokens(s storage.Storage, telegramID int64, amount int) error {
	user, err := s.GetOrCreateUser(telegramID)
	if err != nil {
		return err
	}
	user.Tokens += amount
	return s.SaveUser(user)
}

func printUser(s storage.Storage, telegramID int64) error {
	user, err := s.GetOrCreateUser(telegramID)
	if err != nil {
		return err
	}
	banned, err := s.IsUserBanned(telegramID)
	if err != nil {
		return err
	}
	fmt.Printf("ID: %s\n", user.ID)
	fmt.Printf("Telegram ID: %d\n", user.TelegramID)
	fmt.Printf("Tokens: %d\n", user.Tokens)
	fmt.Printf("Daily chats: %d/%d (last: %s)\n", user.DailyChats, config.DailyChatLimit, user.LastChatDate)
	fmt.Printf("Referral code: %s (redeemed one: %v)\n", user.ReferralCode, user.UsedReferral())
	fmt.Printf("Average rating: %.2f over %d ratings\n", user.AverageRating, len(user.Ratings))
	fmt.Printf("Reputation: %d\n", user.ReputationScore)
	fmt.Printf("Banned: %v\n", banned)
	return nil
}
