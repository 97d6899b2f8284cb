package models

type Report struct {
	ReportID       string `gorm:"primaryKey"`
	ReporterID     int64
	ReportedUserID int64
	SessionID      string
	Severity       string // "Low", "Medium", "Critical"
	Status         string // "new", "reviewed", "confirmed"
	CreatedAt      int64  `gorm:"autoCreateTime"`
}
