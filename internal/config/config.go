package config

import "time"

const (
	// Economy
	StartingTokens  = 10
	ChatReward      = 10
	DailyChatLimit  = 3
	RefereeBonus    = 20
	ReferrerBonus   = 30
	RatingScoreMin  = 1
	RatingScoreMax  = 10
	RatingTokenTTL  = 24 * time.Hour
	ReferralCodeLen = 6

	// Reputation / moderation
	InitialReputation      = 1000
	ReportPenalty          = 50
	BanThresholdReputation = 500
	BanThresholdFrequency  = 5
	BanFrequencyWindow     = 24 * time.Hour
	BanDuration            = 24 * time.Hour
)

var ReportWeights = map[string]int{
	"Low":      5,
	"Medium":   50,
	"Critical": 250,
}
