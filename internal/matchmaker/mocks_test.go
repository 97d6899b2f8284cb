package matchmaker_test

import (
	"time"

	"github.com/stretchr/testify/mock"

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

// recordingNotifier captures outbound notices for assertions.
type recordingNotifier struct {
	notices []models.Notice
}

func (n *recordingNotifier) Notify(notice models.Notice) {
	n.notices = append(n.notices, notice)
}

func (n *recordingNotifier) noticesFor(userID int64) []models.Notice {
	var out []models.Notice
	for _, notice := range n.notices {
		if notice.UserID == userID {
			out = append(out, notice)
		}
	}
	return out
}
