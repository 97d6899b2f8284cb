package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gramroulette/internal/config"
	"gramroulette/internal/models"
)

// MockStorage is a mock implementation of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetOrCreateUser(telegramID int64) (*models.User, error) {
	args := m.Called(telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) FindUserByReferralCode(code string) (*models.User, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SaveSession(session *models.Session) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *MockStorage) CloseSession(sessionID string) error {
	args := m.Called(sessionID)
	return args.Error(0)
}

func (m *MockStorage) GetActiveSessionIDs() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStorage) SaveReport(report *models.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockStorage) CountRecentReports(reportedID int64, since time.Time) (int64, error) {
	args := m.Called(reportedID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) IsUserBanned(telegramID int64) (bool, error) {
	args := m.Called(telegramID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) BanUser(telegramID int64, duration time.Duration) error {
	args := m.Called(telegramID, duration)
	return args.Error(0)
}

func (m *MockStorage) UnbanUser(telegramID int64) error {
	args := m.Called(telegramID)
	return args.Error(0)
}

func (m *MockStorage) CreateRatingToken(ratedID int64) (string, error) {
	args := m.Called(ratedID)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) ResolveRatingToken(token string) (int64, error) {
	args := m.Called(token)
	return args.Get(0).(int64), args.Error(1)
}

func TestHandleReportAppliesSeverityWeight(t *testing.T) {
	storageMock := new(MockStorage)
	svc := NewService(storageMock)

	user := &models.User{ID: "u2", TelegramID: 2, ReputationScore: config.InitialReputation}
	report := &models.Report{ReporterID: 1, ReportedUserID: 2, Severity: "Medium"}

	storageMock.On("SaveReport", report).Return(nil)
	storageMock.On("GetOrCreateUser", int64(2)).Return(user, nil)
	storageMock.On("SaveUser", user).Return(nil)
	storageMock.On("CountRecentReports", int64(2), mock.Anything).Return(int64(1), nil)

	assert.NoError(t, svc.HandleReport(report))
	assert.Equal(t, config.InitialReputation-config.ReportWeights["Medium"], user.ReputationScore)
	storageMock.AssertNotCalled(t, "BanUser", mock.Anything, mock.Anything)
}

func TestHandleReportUnknownSeverityFallsBack(t *testing.T) {
	storageMock := new(MockStorage)
	svc := NewService(storageMock)

	user := &models.User{ID: "u2", TelegramID: 2, ReputationScore: config.InitialReputation}
	report := &models.Report{ReporterID: 1, ReportedUserID: 2, Severity: "Mystery"}

	storageMock.On("SaveReport", report).Return(nil)
	storageMock.On("GetOrCreateUser", int64(2)).Return(user, nil)
	storageMock.On("SaveUser", user).Return(nil)
	storageMock.On("CountRecentReports", int64(2), mock.Anything).Return(int64(0), nil)

	assert.NoError(t, svc.HandleReport(report))
	assert.Equal(t, config.InitialReputation-config.ReportPenalty, user.ReputationScore)
}

func TestHandleReportBansOnLowReputation(t *testing.T) {
	storageMock := new(MockStorage)
	svc := NewService(storageMock)

	user := &models.User{ID: "u2", TelegramID: 2, ReputationScore: config.BanThresholdReputation + 10}
	report := &models.Report{ReporterID: 1, ReportedUserID: 2, Severity: "Critical"}

	storageMock.On("SaveReport", report).Return(nil)
	storageMock.On("GetOrCreateUser", int64(2)).Return(user, nil)
	storageMock.On("SaveUser", user).Return(nil)
	storageMock.On("BanUser", int64(2), config.BanDuration).Return(nil)

	assert.NoError(t, svc.HandleReport(report))
	assert.Less(t, user.ReputationScore, config.BanThresholdReputation)
	storageMock.AssertCalled(t, "BanUser", int64(2), config.BanDuration)
	storageMock.AssertNotCalled(t, "CountRecentReports", mock.Anything, mock.Anything)
}

func TestHandleReportBansOnFrequency(t *testing.T) {
	storageMock := new(MockStorage)
	svc := NewService(storageMock)

	user := &models.User{ID: "u2", TelegramID: 2, ReputationScore: config.InitialReputation}
	report := &models.Report{ReporterID: 1, ReportedUserID: 2, Severity: "Low"}

	storageMock.On("SaveReport", report).Return(nil)
	storageMock.On("GetOrCreateUser", int64(2)).Return(user, nil)
	storageMock.On("SaveUser", user).Return(nil)
	storageMock.On("CountRecentReports", int64(2), mock.Anything).
		Return(int64(config.BanThresholdFrequency+1), nil)
	storageMock.On("BanUser", int64(2), config.BanDuration).Return(nil)

	assert.NoError(t, svc.HandleReport(report))
	storageMock.AssertCalled(t, "BanUser", int64(2), config.BanDuration)
}
