package controllers

import (
	"io"

	"salescheck/dto"
	"salescheck/middleware"
	"salescheck/models"
	"salescheck/response"
	"salescheck/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	idp services.IdentityProvider
}

func NewAuthController(idp services.IdentityProvider) *AuthController {
	return &AuthController{idp: idp}
}

func toUserResponse(user *models.User, admin bool, accessToken string) dto.UserLoginResponse {
	return dto.UserLoginResponse{
		UserID:      user.ID,
		UserName:    user.Name,
		UserEmail:   user.Email,
		UserAvatar:  user.Avatar,
		IsAdmin:     admin,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
		AccessToken: accessToken,
	}
}

func authResponse(c *gin.Context, result *services.AuthResult) {
	userResponse := toUserResponse(result.User, result.Session.IsAdmin, "")
	response.Success(c, gin.H{
		"user_info":   userResponse,
		"accessToken": result.AccessToken,
	})
}

// Register godoc
// @Summary Đăng ký tài khoản bằng email và mật khẩu
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterInput true "Thông tin đăng ký"
// @Success 200 {object} response.Response
// @Failure 400,409 {object} response.Response
// @Router /auth/register [post]
func (a *AuthController) Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := a.idp.SignUp(c.Request.Context(), input.Email, input.Password, input.DisplayName)
	if err != nil {
		response.Error(c, err)
		return
	}
	authResponse(c, result)
}

// Login godoc
// @Summary Đăng nhập bằng email và mật khẩu
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginInput true "Thông tin đăng nhập"
// @Success 200 {object} response.Response
// @Failure 400,401 {object} response.Response
// @Router /auth/login [post]
func (a *AuthController) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := a.idp.SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	authResponse(c, result)
}

// GoogleLogin godoc
// @Summary Đăng nhập bằng Google ID token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.GoogleLoginInput true "ID token"
// @Success 200 {object} response.Response
// @Failure 400,401 {object} response.Response
// @Router /auth/google [post]
func (a *AuthController) GoogleLogin(c *gin.Context) {
	var input dto.GoogleLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := a.idp.SignInWithGoogle(c.Request.Context(), input.IDToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	authResponse(c, result)
}

// Logout godoc
// @Summary Đăng xuất, thu hồi access token hiện tại
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [delete]
func (a *AuthController) Logout(c *gin.Context) {
	if err := a.idp.SignOut(c.Request.Context(), middleware.GetToken(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "signed_out", nil)
}

// ForgotPassword godoc
// @Summary Gửi mã đặt lại mật khẩu qua email
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.ForgetPasswordInput true "Email"
// @Success 200 {object} response.Response
// @Router /auth/forgot-password [post]
func (a *AuthController) ForgotPassword(c *gin.Context) {
	var input dto.ForgetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// luôn trả về thành công để không lộ email nào đã đăng ký
	if err := a.idp.SendPasswordReset(c.Request.Context(), input.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "reset_sent", nil)
}

// ResetPassword godoc
// @Summary Đặt lại mật khẩu bằng mã xác thực
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.ResetPasswordInput true "Email, mã và mật khẩu mới"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/reset-password [post]
func (a *AuthController) ResetPassword(c *gin.Context) {
	var input dto.ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := a.idp.ResetPassword(c.Request.Context(), input.Email, input.Code, input.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "password_reset", nil)
}

// Me godoc
// @Summary Session hiện tại (user, isAdmin)
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response{data=dto.SessionResponse}
// @Router /auth/me [get]
func (a *AuthController) Me(c *gin.Context) {
	session := middleware.GetSession(c)
	if !session.SignedIn() {
		response.Success(c, dto.SessionResponse{})
		return
	}

	user, err := a.idp.CurrentUser(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	userResponse := toUserResponse(user, session.IsAdmin, "")
	response.Success(c, dto.SessionResponse{
		SignedIn: true,
		IsAdmin:  session.IsAdmin,
		User:     &userResponse,
	})
}

// UpdateProfile godoc
// @Summary Cập nhật tên hiển thị và avatar
// @Tags auth
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param displayName formData string false "Tên hiển thị"
// @Param avatar formData file false "Ảnh đại diện"
// @Success 200 {object} response.Response
// @Router /auth/profile [put]
func (a *AuthController) UpdateProfile(c *gin.Context) {
	var input dto.UpdateProfileInput
	if err := c.ShouldBind(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var avatar io.Reader
	if fileHeader, err := c.FormFile("avatar"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		defer file.Close()
		avatar = file
	}

	session := middleware.GetSession(c)
	user, err := a.idp.UpdateProfile(c.Request.Context(), session, input.DisplayName, avatar)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "profile_updated", toUserResponse(user, session.IsAdmin, ""))
}
