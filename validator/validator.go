package validator

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	apperrors "salescheck/errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RequiredFieldsMessage là thông báo khi form check-in thiếu trường
const RequiredFieldsMessage = "Please fill in all required fields"

const maxLocationLength = 120

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterBindings đăng ký tag notblank và location cho gin binding
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		return err
	}
	return v.RegisterValidation("location", validLocation)
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validLocation chấp nhận địa điểm có sẵn hoặc text tự do in được
func validLocation(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" || utf8.RuneCountInString(s) > maxLocationLength {
		return false
	}
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// ValidateCheckIn kiểm tra các trường bắt buộc của form check-in
func ValidateCheckIn(name, location, companyName string) error {
	if strings.TrimSpace(name) == "" ||
		strings.TrimSpace(location) == "" ||
		strings.TrimSpace(companyName) == "" {
		return apperrors.NewAppError(apperrors.ErrCodeRequiredField, RequiredFieldsMessage, apperrors.ErrMissingRequired)
	}
	if utf8.RuneCountInString(strings.TrimSpace(location)) > maxLocationLength {
		return apperrors.NewAppError(apperrors.ErrCodeValidation, "Location is too long", apperrors.ErrInvalidInput)
	}
	return nil
}

// ValidateSignUp validate thông tin đăng ký
func ValidateSignUp(email, password, displayName string) error {
	if strings.TrimSpace(email) == "" {
		return apperrors.NewAppError(apperrors.ErrCodeRequiredField, "Email is required", nil)
	}
	if !IsValidEmail(email) {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidEmail, "Invalid email", nil)
	}
	if strings.TrimSpace(displayName) == "" {
		return apperrors.NewAppError(apperrors.ErrCodeRequiredField, "Display name is required", nil)
	}
	return ValidatePassword(password)
}

// ValidatePassword yêu cầu mật khẩu tối thiểu 6 ký tự
func ValidatePassword(password string) error {
	if password == "" {
		return apperrors.NewAppError(apperrors.ErrCodeRequiredField, "Password is required", nil)
	}
	if len(password) < 6 {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidPassword, "Password must be at least 6 characters", nil)
	}
	return nil
}

// IsValidEmail kiểm tra email hợp lệ
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}
