package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq" // required for pq.Int64Array
	"gorm.io/gorm"

	"gramroulette/internal/config"
)

// User is the persistent per-user ledger record: tokens, daily chat
// progress, referral state and received ratings.
type User struct {
	ID         string `gorm:"primaryKey" json:"id"` // anonymous UUID
	TelegramID int64  `gorm:"uniqueIndex"`

	Tokens       int    `gorm:"default:10"`
	DailyChats   int    // completed chats today, reset on date rollover
	LastChatDate string // calendar date (YYYY-MM-DD) of the last credited chat
	ReferralCode string `gorm:"uniqueIndex"`
	ReferredBy   string // ID of the referring user; one-shot, empty if unused

	Ratings       pq.Int64Array `gorm:"type:bigint[]"` // scores 1-10, in arrival order
	AverageRating float64

	ReputationScore int    `gorm:"default:1000"`
	Language        string `gorm:"default:en"`
}

// UsedReferral reports whether the user has already redeemed a referral code.
func (u *User) UsedReferral() bool {
	return u.ReferredBy != ""
}

// BeforeCreate is a GORM hook called before the record is inserted.
// It assigns the anonymous UUID and a fresh referral code when unset.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.ReferralCode == "" {
		u.ReferralCode = NewReferralCode()
	}
	return
}

// NewReferralCode generates a short uppercase code for sharing in chat.
func NewReferralCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:config.ReferralCodeLen])
}
