package model

// IssueReport stores one issue record as its canonical JSON payload plus the
// columns the store sorts and upserts on.
type IssueReport struct {
	ReportID  string `gorm:"column:report_id;primaryKey"`
	CreatedAt string `gorm:"column:created_at;type:text;not null"`
	UpdatedAt string `gorm:"column:updated_at;type:text;not null;index"`
	Payload   string `gorm:"column:payload;type:text;not null"`
}

func (IssueReport) TableName() string {
	return "issue_reports"
}
