package dto

// HistoryQuery là bộ lọc cục bộ cho lịch sử của chính user
type HistoryQuery struct {
	Company string `form:"company"`
	Date    string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// RecordQuery là bộ lọc của admin. Các field rỗng bị bỏ qua.
type RecordQuery struct {
	UserID      string `form:"userId" json:"userId,omitempty"`
	Name        string `form:"name" json:"name,omitempty"`
	CompanyName string `form:"companyName" json:"companyName,omitempty"`
	Location    string `form:"location" json:"location,omitempty"`
	From        string `form:"from" json:"from,omitempty" binding:"omitempty,datetime=2006-01-02"`
	To          string `form:"to" json:"to,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Cursor      string `form:"cursor" json:"-"`
	Limit       int    `form:"limit" json:"-" binding:"omitempty,min=1,max=100"`
	// Restore lấy lại bộ lọc đã lưu lần trước cho các field còn trống
	Restore bool `form:"restore" json:"-"`
	// Reset xóa bộ lọc đã lưu
	Reset bool `form:"reset" json:"-"`
}

// ExportQuery thêm định dạng file cho RecordQuery
type ExportQuery struct {
	RecordQuery
	Format string `form:"format" binding:"omitempty,oneof=csv pdf xlsx"`
}
