// Package report records in-chat reports and applies their reputation
// consequences, up to a temporary ban flag.
package report

import (
	"time"

	"gramroulette/internal/config"
	"gramroulette/internal/models"
	"gramroulette/internal/storage"
)

// Service handles the business logic for reports.
type Service struct {
	Storage storage.Storage
}

// NewService creates a new report service.
func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// HandleReport saves the report, applies the severity weight to the
// reported user's reputation, and checks the ban thresholds.
func (s *Service) HandleReport(report *models.Report) error {
	if err := s.Storage.SaveReport(report); err != nil {
		return err
	}

	weight := config.ReportWeights[report.Severity]
	if weight == 0 {
		weight = config.ReportPenalty
	}
	user, err := s.Storage.GetOrCreateUser(report.ReportedUserID)
	if err != nil {
		return err
	}
	user.ReputationScore -= weight
	if err := s.Storage.SaveUser(user); err != nil {
		return err
	}

	return s.checkForBan(user)
}

// checkForBan bans on low reputation or on report frequency within the
// rolling window.
func (s *Service) checkForBan(user *models.User) error {
	if user.ReputationScore < config.BanThresholdReputation {
		return s.Storage.BanUser(user.TelegramID, config.BanDuration)
	}

	count, err := s.Storage.CountRecentReports(user.TelegramID, time.Now().Add(-config.BanFrequencyWindow))
	if err != nil {
		return err
	}
	if count > config.BanThresholdFrequency {
		return s.Storage.BanUser(user.TelegramID, config.BanDuration)
	}
	return nil
}
