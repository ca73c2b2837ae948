package middleware

import (
	"strings"

	"salescheck/models"
	"salescheck/response"
	"salescheck/services"

	"github.com/gin-gonic/gin"
)

const (
	sessionKey = "session"
	tokenKey   = "accessToken"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	// websocket không gửi được header, cho phép token qua query
	return c.Query("token")
}

// AuthMiddleware xử lý authentication và gán Session vào context
func AuthMiddleware(idp services.IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		session, err := idp.Authenticate(c.Request.Context(), token)
		if err != nil || !session.SignedIn() {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		// Lưu thông tin user vào context
		c.Set(sessionKey, session)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// AdminOnly kiểm tra quyền admin, dùng sau AuthMiddleware
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		if !session.SignedIn() {
			response.Unauthorized(c)
			c.Abort()
			return
		}
		if !session.IsAdmin {
			response.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSession trả về session ẩn danh khi request chưa qua AuthMiddleware
func GetSession(c *gin.Context) models.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(models.Session); ok {
			return s
		}
	}
	return models.AnonymousSession()
}

func GetToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}

// ErrorHandler xử lý lỗi controller đẩy vào c.Errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			response.Error(c, c.Errors.Last().Err)
		}
	}
}
