package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"salescheck/dto"
	apperrors "salescheck/errors"
)

// Coordinates là một vị trí đã được chấp nhận
type Coordinates struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
}

// Locator lấy vị trí thiết bị cho một thao tác check-in/check-out
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// LocatorFunc cho phép dùng hàm như Locator
type LocatorFunc func(ctx context.Context) (Coordinates, error)

func (f LocatorFunc) Locate(ctx context.Context) (Coordinates, error) { return f(ctx) }

// GeolocationPolicy quy định vị trí nào còn dùng được
type GeolocationPolicy struct {
	// Timeout là độ trễ tối đa giữa lúc lấy vị trí và lúc server nhận
	Timeout time.Duration
	// MaxAge > 0 thay thế Timeout khi kiểm tra độ cũ của vị trí
	MaxAge time.Duration
	Now    func() time.Time
}

func (p GeolocationPolicy) maxAge() time.Duration {
	if p.MaxAge > 0 {
		return p.MaxAge
	}
	if p.Timeout > 0 {
		return p.Timeout
	}
	return 15 * time.Second
}

// RequestLocator dùng vị trí (hoặc lỗi) mà client gửi kèm request
type RequestLocator struct {
	input  dto.LocationInput
	policy GeolocationPolicy
}

func NewRequestLocator(input dto.LocationInput, policy GeolocationPolicy) *RequestLocator {
	if policy.Now == nil {
		policy.Now = time.Now
	}
	return &RequestLocator{input: input, policy: policy}
}

func (l *RequestLocator) Locate(ctx context.Context) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, locationError(apperrors.ErrLocationTimeout, err.Error())
	}

	if pe := l.input.PositionError; pe != nil {
		switch pe.Code {
		case 1:
			return Coordinates{}, locationError(apperrors.ErrPermissionDenied, pe.Message)
		case 3:
			return Coordinates{}, locationError(apperrors.ErrLocationTimeout, pe.Message)
		default:
			return Coordinates{}, locationError(apperrors.ErrPositionUnavailable, pe.Message)
		}
	}

	pos := l.input.Position
	if pos == nil {
		return Coordinates{}, locationError(apperrors.ErrLocationUnsupported, "")
	}
	if !validCoordinate(pos.Latitude, 90) || !validCoordinate(pos.Longitude, 180) {
		return Coordinates{}, locationError(apperrors.ErrPositionUnavailable,
			fmt.Sprintf("invalid coordinates %v,%v", pos.Latitude, pos.Longitude))
	}

	// không có thời điểm lấy vị trí thì không phân biệt được với vị trí cũ
	if pos.Timestamp <= 0 {
		return Coordinates{}, locationError(apperrors.ErrLocationTimeout, "position has no timestamp")
	}
	taken := time.UnixMilli(pos.Timestamp)
	if l.policy.Now().Sub(taken) > l.policy.maxAge() {
		return Coordinates{}, locationError(apperrors.ErrLocationTimeout, "position is stale")
	}

	return Coordinates{
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
		Accuracy:  pos.Accuracy,
	}, nil
}

func validCoordinate(v, limit float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -limit && v <= limit
}

// locationError bọc lỗi vị trí thành LOCATION_UNAVAILABLE kèm lý do
func locationError(cause error, detail string) error {
	reason := cause.Error()
	if detail != "" {
		reason = reason + ": " + detail
	}
	return apperrors.NewAppError(apperrors.ErrCodeLocationUnavailable, reason, cause)
}
