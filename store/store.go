package store

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"salescheck/constants"
	apperrors "salescheck/errors"
	"salescheck/models"

	"github.com/goccy/go-json"
)

// RecordStore là tập bản ghi điểm danh dùng chung cho mọi user và admin
type RecordStore interface {
	// CreateOpenRecord thêm bản ghi chưa check-out và trả về id. Việc kiểm tra
	// "user chưa có phiên mở" và insert là nguyên tử, trùng thì trả về
	// ErrOpenSessionExists.
	CreateOpenRecord(ctx context.Context, record *models.CheckInRecord) (string, error)
	// CloseRecord ghi checkOutTime và checkOutAdd cho bản ghi đang mở. Đây là
	// lần cập nhật duy nhất của một bản ghi.
	CloseRecord(ctx context.Context, id string, at time.Time, address string) (*models.CheckInRecord, error)
	GetRecord(ctx context.Context, id string) (*models.CheckInRecord, error)
	// FindOpenSession trả về bản ghi đang mở của user, nil nếu không có
	FindOpenSession(ctx context.Context, userID string) (*models.CheckInRecord, error)
	ListByUser(ctx context.Context, userID string) ([]models.CheckInRecord, error)
	Query(ctx context.Context, filter RecordFilter, page PageRequest) (*RecordPage, error)
	// CountOpenSessions gom phiên mở theo user, trả về user có hơn một phiên
	// mở hoặc có phiên check-in trước olderThan
	CountOpenSessions(ctx context.Context, olderThan time.Time) ([]OpenSessionCount, error)
}

// OpenSessionCount tổng hợp phiên đang mở của một user
type OpenSessionCount struct {
	UserID        string    `json:"userId" bson:"_id"`
	Count         int64     `json:"count" bson:"count"`
	OldestCheckIn time.Time `json:"oldestCheckIn" bson:"oldest"`
}

// RecordFilter là bộ lọc của admin. Field rỗng bị bỏ qua, các field còn lại
// kết hợp bằng AND.
type RecordFilter struct {
	UserID      string `json:"userId,omitempty"`
	Name        string `json:"name,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	Location    string `json:"location,omitempty"`
	// CheckInFrom tính cả biên, CheckInUntil không tính
	CheckInFrom  *time.Time `json:"checkInFrom,omitempty"`
	CheckInUntil *time.Time `json:"checkInUntil,omitempty"`
}

// Matches áp dụng bộ lọc trên một bản ghi đã tải
func (f RecordFilter) Matches(r *models.CheckInRecord) bool {
	if f.UserID != "" && r.UserID != f.UserID {
		return false
	}
	if f.Name != "" && r.Name != f.Name {
		return false
	}
	if f.CompanyName != "" && r.CompanyName != f.CompanyName {
		return false
	}
	if f.Location != "" && r.Location != f.Location {
		return false
	}
	if f.CheckInFrom != nil && r.CheckInTime.Before(*f.CheckInFrom) {
		return false
	}
	if f.CheckInUntil != nil && !r.CheckInTime.Before(*f.CheckInUntil) {
		return false
	}
	return true
}

// DayRange đổi khoảng ngày [from, to] (YYYY-MM-DD, có thể để trống) thành
// khoảng thời gian nửa mở dùng trong RecordFilter
func DayRange(from, to string, loc *time.Location) (*time.Time, *time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	var start, end *time.Time
	if from = strings.TrimSpace(from); from != "" {
		d, err := time.ParseInLocation(constants.DateLayout, from, loc)
		if err != nil {
			return nil, nil, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "invalid from date", err)
		}
		start = &d
	}
	if to = strings.TrimSpace(to); to != "" {
		d, err := time.ParseInLocation(constants.DateLayout, to, loc)
		if err != nil {
			return nil, nil, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "invalid to date", err)
		}
		next := d.AddDate(0, 0, 1)
		end = &next
	}
	if start != nil && end != nil && !start.Before(*end) {
		return nil, nil, apperrors.NewAppError(apperrors.ErrCodeValidation, "from date must not be after to date", nil)
	}
	return start, end, nil
}

type PageRequest struct {
	Limit  int
	Cursor string
}

func (p PageRequest) normalizedLimit() int {
	switch {
	case p.Limit <= 0:
		return constants.DefaultPageSize
	case p.Limit > constants.MaxPageSize:
		return constants.MaxPageSize
	default:
		return p.Limit
	}
}

type RecordPage struct {
	Records    []models.CheckInRecord `json:"records"`
	NextCursor string                 `json:"nextCursor,omitempty"`
	HasMore    bool                   `json:"hasMore"`
	Limit      int                    `json:"limit"`
}

// cursor đánh dấu bản ghi cuối của trang theo thứ tự (checkInTime DESC, id DESC)
type cursor struct {
	CheckInTime time.Time `json:"t"`
	ID          string    `json:"id"`
}

func encodeCursor(r models.CheckInRecord) string {
	b, _ := json.Marshal(cursor{CheckInTime: r.CheckInTime.UTC(), ID: r.ID})
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeCursor(s string) (*cursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, apperrors.ErrInvalidCursor
	}
	var c cursor
	if err := json.Unmarshal(raw, &c); err != nil || c.ID == "" || c.CheckInTime.IsZero() {
		return nil, apperrors.ErrInvalidCursor
	}
	return &c, nil
}

// after: r nằm sau vị trí cursor
func (c *cursor) after(r models.CheckInRecord) bool {
	if c == nil {
		return true
	}
	if r.CheckInTime.Before(c.CheckInTime) {
		return true
	}
	return r.CheckInTime.Equal(c.CheckInTime) && r.ID < c.ID
}

// buildPage cắt kết quả limit+1 thành một trang
func buildPage(records []models.CheckInRecord, limit int) *RecordPage {
	page := &RecordPage{Records: records, Limit: limit}
	if len(records) > limit {
		page.Records = records[:limit]
		page.HasMore = true
		page.NextCursor = encodeCursor(page.Records[limit-1])
	}
	if page.Records == nil {
		page.Records = []models.CheckInRecord{}
	}
	return page
}

// summarizeOpen gom các bản ghi đang mở theo user
func summarizeOpen(open []models.CheckInRecord, olderThan time.Time) []OpenSessionCount {
	byUser := make(map[string]*OpenSessionCount)
	var order []string
	for _, r := range open {
		c, ok := byUser[r.UserID]
		if !ok {
			c = &OpenSessionCount{UserID: r.UserID, OldestCheckIn: r.CheckInTime}
			byUser[r.UserID] = c
			order = append(order, r.UserID)
		}
		c.Count++
		if r.CheckInTime.Before(c.OldestCheckIn) {
			c.OldestCheckIn = r.CheckInTime
		}
	}

	result := make([]OpenSessionCount, 0)
	for _, userID := range order {
		c := byUser[userID]
		if c.Count > 1 || c.OldestCheckIn.Before(olderThan) {
			result = append(result, *c)
		}
	}
	return result
}
