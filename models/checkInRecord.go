package models

import "time"

// CheckInRecord là một lượt điểm danh. CheckOutTime == nil nghĩa là lượt
// điểm danh còn mở.
type CheckInRecord struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID       string     `gorm:"type:varchar(64);not null;index:idx_check_in_user_time,priority:1;uniqueIndex:idx_check_in_open_session,where:check_out_time IS NULL" json:"userId"`
	UserEmail    string     `gorm:"type:varchar(255)" json:"userEmail"`
	Name         string     `gorm:"type:varchar(255);not null;index" json:"name"`
	CompanyName  string     `gorm:"type:varchar(255);not null;index" json:"companyName"`
	Location     string     `gorm:"type:varchar(255);not null;index" json:"location"`
	CheckInTime  time.Time  `gorm:"not null;index:idx_check_in_user_time,priority:2;index" json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime"`
	CheckInAdd   string     `gorm:"type:text" json:"checkInAdd"`
	CheckOutAdd  string     `gorm:"type:text" json:"checkOutAdd"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (CheckInRecord) TableName() string {
	return "check_in_records"
}

// IsOpen: bản ghi chưa check-out
func (r *CheckInRecord) IsOpen() bool {
	return r.CheckOutTime == nil
}

// Clone tạo bản sao không dùng chung con trỏ CheckOutTime
func (r CheckInRecord) Clone() CheckInRecord {
	if r.CheckOutTime != nil {
		t := *r.CheckOutTime
		r.CheckOutTime = &t
	}
	return r
}
