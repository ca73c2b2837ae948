package response

import (
	"net/http"

	apperrors "salescheck/errors"
	"salescheck/i18n"

	"github.com/gin-gonic/gin"
)

// Response định nghĩa cấu trúc response
type Response struct {
	Code       int         `json:"code"`
	Mess       string      `json:"mess"`
	ErrorCode  string      `json:"errorCode,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination định nghĩa cấu trúc phân trang theo con trỏ
type Pagination struct {
	Limit      int    `json:"limit"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

func t(c *gin.Context, id string, data ...map[string]any) string {
	return i18n.T(c.Request.Context(), id, data...)
}

// Success trả về response thành công
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: t(c, "success"),
		Data: data,
	})
}

// SuccessWithMessage trả về response thành công kèm thông báo đã dịch
func SuccessWithMessage(c *gin.Context, messageID string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: t(c, messageID),
		Data: data,
	})
}

// SuccessWithPagination trả về response thành công có phân trang
func SuccessWithPagination(c *gin.Context, data interface{}, p Pagination) {
	c.JSON(http.StatusOK, Response{
		Code:       1,
		Mess:       t(c, "success"),
		Data:       data,
		Pagination: &p,
	})
}

// Error trả về response lỗi theo mã AppError, lỗi khác coi là lỗi server
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		ServerError(c)
		return
	}

	status, messageID := statusFor(appErr.Code)
	mess := appErr.Message
	switch {
	case appErr.Code == apperrors.ErrCodeLocationUnavailable:
		mess = t(c, messageID, map[string]any{"Reason": appErr.Message})
	case messageID != "":
		mess = t(c, messageID)
	}

	c.JSON(status, Response{
		Code:      0,
		Mess:      mess,
		ErrorCode: string(appErr.Code),
	})
}

func statusFor(code apperrors.ErrorCode) (int, string) {
	switch code {
	case apperrors.ErrCodeRequiredField:
		return http.StatusBadRequest, "validation_failed"
	case apperrors.ErrCodeValidation, apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeInvalidEmail, apperrors.ErrCodeInvalidPassword:
		return http.StatusBadRequest, ""
	case apperrors.ErrCodeInvalidCursor:
		return http.StatusBadRequest, "invalid_cursor"
	case apperrors.ErrCodeInvalidCode, apperrors.ErrCodeExpiredCode:
		return http.StatusBadRequest, "invalid_code"
	case apperrors.ErrCodeLocationUnavailable:
		return http.StatusUnprocessableEntity, "location_unavailable"
	case apperrors.ErrCodeAlreadyCheckedIn:
		return http.StatusConflict, "already_checked_in"
	case apperrors.ErrCodeNoActiveSession:
		return http.StatusConflict, "no_active_session"
	case apperrors.ErrCodeInProgress:
		return http.StatusConflict, "operation_in_progress"
	case apperrors.ErrCodeUserExists:
		return http.StatusConflict, "user_exists"
	case apperrors.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized, "invalid_credentials"
	case apperrors.ErrCodeUnauthorized, apperrors.ErrCodeInvalidToken:
		return http.StatusUnauthorized, "unauthorized"
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden, "forbidden"
	case apperrors.ErrCodeUserNotFound, apperrors.ErrCodeDBNotFound:
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}

// ServerError trả về response lỗi server
func ServerError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, Response{
		Code: 0,
		Mess: t(c, "server_error"),
	})
}

// Unauthorized trả về response chưa xác thực
func Unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, Response{
		Code: 0,
		Mess: t(c, "unauthorized"),
	})
}

// Forbidden trả về response không có quyền
func Forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, Response{
		Code: 0,
		Mess: t(c, "forbidden"),
	})
}

// NotFound trả về response không tìm thấy
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, Response{
		Code: 0,
		Mess: t(c, "not_found"),
	})
}

// BadRequest trả về response lỗi bad request
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = t(c, "bad_request")
	}
	c.JSON(http.StatusBadRequest, Response{
		Code: 0,
		Mess: message,
	})
}
