package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gramroulette/internal/config"
)

const ratingCallbackPrefix = "rate_"

// RatingCallbackData builds the callback payload for one score button.
// The token is opaque and short-lived, so the callback stays valid for a
// while after the session itself has ended.
func RatingCallbackData(token string, score int) string {
	return fmt.Sprintf("%s%s_%d", ratingCallbackPrefix, token, score)
}

// ParseRatingCallback extracts the rating token and score from callback
// data. Returns ok=false for anything that is not a rating callback.
func ParseRatingCallback(data string) (token string, score int, ok bool) {
	if !strings.HasPrefix(data, ratingCallbackPrefix) {
		return "", 0, false
	}
	rest := data[len(ratingCallbackPrefix):]
	sep := strings.LastIndex(rest, "_")
	if sep <= 0 {
		return "", 0, false
	}
	score, err := strconv.Atoi(rest[sep+1:])
	if err != nil {
		return "", 0, false
	}
	return rest[:sep], score, true
}

// ratingKeyboard lays out the 1-10 score buttons in two rows.
func ratingKeyboard(token string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for score := config.RatingScoreMin; score <= config.RatingScoreMax; score++ {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			strconv.Itoa(score), RatingCallbackData(token, score)))
		if len(row) == 5 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
