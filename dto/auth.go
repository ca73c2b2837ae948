package dto

import "time"

type RegisterInput struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"displayName" binding:"required,notblank,max=255"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginInput struct {
	IDToken string `json:"idToken" binding:"required"`
}

type ForgetPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordInput struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// UpdateProfileInput được bind từ multipart form, avatar là file tùy chọn
type UpdateProfileInput struct {
	DisplayName string `form:"displayName" json:"displayName" binding:"omitempty,notblank,max=255"`
}

type UserLoginResponse struct {
	UserID      string    `json:"id"`
	UserName    string    `json:"name"`
	UserEmail   string    `json:"email"`
	UserAvatar  string    `json:"avatar"`
	IsAdmin     bool      `json:"isAdmin"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	AccessToken string    `json:"accessToken,omitempty"`
}

type SessionResponse struct {
	SignedIn bool               `json:"signedIn"`
	IsAdmin  bool               `json:"isAdmin"`
	User     *UserLoginResponse `json:"user,omitempty"`
}

type GoogleUser struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verifiedEmail"`
	Picture       string `json:"picture"`
	Subject       string `json:"sub"`
}
