package storage

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"gramroulette/internal/config"
	"gramroulette/internal/models"
)

type Storage interface {
	GetOrCreateUser(telegramID int64) (*models.User, error)
	SaveUser(user *models.User) error
	FindUserByReferralCode(code string) (*models.User, error)

	SaveSession(session *models.Session) error
	CloseSession(sessionID string) error
	GetActiveSessionIDs() ([]string, error)

	SaveReport(report *models.Report) error
	CountRecentReports(reportedID int64, since time.Time) (int64, error)

	IsUserBanned(telegramID int64) (bool, error)
	BanUser(telegramID int64, duration time.Duration) error
	UnbanUser(telegramID int64) error

	CreateRatingToken(ratedID int64) (string, error)
	ResolveRatingToken(token string) (int64, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// GetOrCreateUser returns the ledger record for a Telegram chat ID,
// creating it with the default balance on first contact.
func (s *Service) GetOrCreateUser(telegramID int64) (*models.User, error) {
	var user models.User
	defaults := models.User{
		TelegramID:      telegramID,
		Tokens:          config.StartingTokens,
		ReputationScore: config.InitialReputation,
		Language:        "en",
	}

	result := s.DB.Where("telegram_id = ?", telegramID).FirstOrCreate(&user, defaults)
	if result.Error != nil {
		log.Printf("ERROR: Failed to get/create user %d: %v", telegramID, result.Error)
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("INFO: New user %d saved to database (ID: %s).", telegramID, user.ID)
	}
	return &user, nil
}

// SaveUser persists the ledger record in PostgreSQL.
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// FindUserByReferralCode looks up the owner of a referral code.
// Returns nil without error when no user owns the code.
func (s *Service) FindUserByReferralCode(code string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("referral_code = ?", code).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveSession persists a session row in PostgreSQL.
func (s *Service) SaveSession(session *models.Session) error {
	return s.DB.Save(session).Error
}

// CloseSession marks a session inactive and stamps EndedAt.
func (s *Service) CloseSession(sessionID string) error {
	return s.DB.Model(&models.Session{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"is_active": false,
			"ended_at":  gorm.Expr("NOW()"),
		}).Error
}

// GetActiveSessionIDs returns the IDs of all sessions still marked active.
func (s *Service) GetActiveSessionIDs() ([]string, error) {
	var sessionIDs []string
	if err := s.DB.Model(&models.Session{}).
		Where("is_active = ?", true).
		Pluck("session_id", &sessionIDs).Error; err != nil {
		log.Printf("ERROR: Failed to retrieve active session IDs: %v", err)
		return nil, err
	}
	return sessionIDs, nil
}

func (s *Service) SaveReport(report *models.Report) error {
	if report.ReportID == "" {
		report.ReportID = uuid.New().String()
	}
	if report.Status == "" {
		report.Status = "new"
	}

	result := s.DB.Create(report)
	if result.Error != nil {
		log.Printf("ERROR: Failed to save report for session %s: %v", report.SessionID, result.Error)
		return result.Error
	}
	return nil
}

// CountRecentReports counts reports filed against a user since the given time.
func (s *Service) CountRecentReports(reportedID int64, since time.Time) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Report{}).
		Where("reported_user_id = ? AND created_at >= ?", reportedID, since.Unix()).
		Count(&count).Error
	return count, err
}

// IsUserBanned checks the ban flag in Redis.
func (s *Service) IsUserBanned(telegramID int64) (bool, error) {
	key := "ban:" + strconv.FormatInt(telegramID, 10)
	status, err := s.Redis.Get(s.Ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return status != "", nil
}

// BanUser sets the ban flag in Redis with an expiry.
func (s *Service) BanUser(telegramID int64, duration time.Duration) error {
	key := "ban:" + strconv.FormatInt(telegramID, 10)
	return s.Redis.Set(s.Ctx, key, "active", duration).Err()
}

// UnbanUser clears the ban flag.
func (s *Service) UnbanUser(telegramID int64) error {
	key := "ban:" + strconv.FormatInt(telegramID, 10)
	return s.Redis.Del(s.Ctx, key).Err()
}

// CreateRatingToken mints an opaque token naming the user to be rated.
// The token is embedded in the rating prompt's callback data and expires
// on its own, so rating may arrive after the session already ended.
func (s *Service) CreateRatingToken(ratedID int64) (string, error) {
	token := uuid.New().String()
	key := "rating_token:" + token
	if err := s.Redis.Set(s.Ctx, key, strconv.FormatInt(ratedID, 10), config.RatingTokenTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// ResolveRatingToken returns the user named by a rating token, or 0 when
// the token is unknown or expired.
func (s *Service) ResolveRatingToken(token string) (int64, error) {
	key := "rating_token:" + token
	value, err := s.Redis.Get(s.Ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(value, 10, 64)
}
