// Package economy implements the ledger rules that gate session
// completion: the daily chat cap, the completion reward, one-shot
// referral bonuses and the peer-rating average.
package economy

import (
	"errors"
	"time"

	"gramroulette/internal/config"
	"gramroulette/internal/storage"
)

var (
	ErrReferralAlreadyUsed = errors.New("referral code already used")
	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrSelfReferral        = errors.New("cannot use your own referral code")
)

// Service applies the economy rules on top of the persistence layer.
type Service struct {
	Storage storage.Storage

	// now is injected in tests to control the date rollover.
	now func() time.Time
}

// NewService creates a new economy service.
func NewService(s storage.Storage) *Service {
	return &Service{Storage: s, now: time.Now}
}

func (e *Service) today() string {
	return e.now().Format("2006-01-02")
}

// RegisterChat credits a completed chat to the user. It resets the daily
// counter when the calendar date changed, declines without any ledger
// change when the daily cap is already reached, and otherwise adds the
// token reward. The returned bool reports whether the reward was granted.
func (e *Service) RegisterChat(telegramID int64) (bool, error) {
	user, err := e.Storage.GetOrCreateUser(telegramID)
	if err != nil {
		return false, err
	}

	today := e.today()
	if user.LastChatDate != today {
		user.DailyChats = 0
	}
	if user.DailyChats >= config.DailyChatLimit {
		return false, nil
	}

	user.DailyChats++
	user.Tokens += config.ChatReward
	user.LastChatDate = today
	if err := e.Storage.SaveUser(user); err != nil {
		return false, err
	}
	return true, nil
}

// UseReferralCode redeems a referral code for the user. A user may redeem
// at most one code, never their own. On success the redeemer and the code
// owner are both credited.
func (e *Service) UseReferralCode(telegramID int64, code string) error {
	user, err := e.Storage.GetOrCreateUser(telegramID)
	if err != nil {
		return err
	}
	if user.UsedReferral() {
		return ErrReferralAlreadyUsed
	}

	referrer, err := e.Storage.FindUserByReferralCode(code)
	if err != nil {
		return err
	}
	if referrer == nil {
		return ErrInvalidReferralCode
	}
	if referrer.TelegramID == telegramID {
		return ErrSelfReferral
	}

	user.Tokens += config.RefereeBonus
	user.ReferredBy = referrer.ID
	referrer.Tokens += config.ReferrerBonus

	if err := e.Storage.SaveUser(user); err != nil {
		return err
	}
	return e.Storage.SaveUser(referrer)
}

// AddRating appends a received score and recomputes the arithmetic mean
// of all ratings ever received. Range validation is the matchmaker's job.
func (e *Service) AddRating(telegramID int64, score int) error {
	user, err := e.Storage.GetOrCreateUser(telegramID)
	if err != nil {
		return err
	}

	user.Ratings = append(user.Ratings, int64(score))
	var sum int64
	for _, r := range user.Ratings {
		sum += r
	}
	user.AverageRating = float64(sum) / float64(len(user.Ratings))

	return e.Storage.SaveUser(user)
}

// AverageRatingOf returns the user's current rating average, or 0 when
// the user cannot be loaded. Used by the closest-rating match policy.
func (e *Service) AverageRatingOf(telegramID int64) float64 {
	user, err := e.Storage.GetOrCreateUser(telegramID)
	if err != nil {
		return 0
	}
	return user.AverageRating
}
