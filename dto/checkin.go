package dto

import (
	"time"

	"salescheck/models"
)

// PositionPayload là vị trí mà client lấy được từ Geolocation API
type PositionPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	// Timestamp tính bằng mili giây từ epoch
	Timestamp int64 `json:"timestamp"`
}

// PositionError là lỗi Geolocation API trả về cho client.
// Code: 1 permission denied, 2 position unavailable, 3 timeout.
type PositionError struct {
	Code    int    `json:"code" binding:"oneof=1 2 3"`
	Message string `json:"message"`
}

// LocationInput đi kèm mọi request check-in/check-out
type LocationInput struct {
	Position      *PositionPayload `json:"position"`
	PositionError *PositionError   `json:"positionError"`
}

type CheckInInput struct {
	LocationInput
	// Name bị bỏ qua, tên luôn lấy từ tài khoản đăng nhập
	Name        string `json:"name"`
	Location    string `json:"location" binding:"omitempty,location"`
	CompanyName string `json:"companyName" binding:"omitempty,max=255"`
}

type CheckOutInput struct {
	LocationInput
}

// CheckInFormResponse là trạng thái form check-in hiện tại của user
type CheckInFormResponse struct {
	State        string     `json:"state"`
	RecordID     string     `json:"recordId,omitempty"`
	Name         string     `json:"name"`
	Location     string     `json:"location"`
	CompanyName  string     `json:"companyName"`
	CheckInTime  *time.Time `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime"`
	CheckInAdd   string     `json:"checkInAdd,omitempty"`
	CheckOutAdd  string     `json:"checkOutAdd,omitempty"`
	// ResetAfterMs chỉ có sau check-out: client xóa location và company sau khoảng này
	ResetAfterMs int64      `json:"resetAfterMs,omitempty"`
}

// CheckOutResponse là kết quả check-out
type CheckOutResponse struct {
	Record *models.CheckInRecord `json:"record"`
	Form   CheckInFormResponse   `json:"form"`
}
