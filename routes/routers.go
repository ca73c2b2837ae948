package routes

import (
	"context"
	"net/http"
	"time"

	"salescheck/controllers"
	_ "salescheck/docs"
	middlewares "salescheck/middleware"
	"salescheck/response"
	"salescheck/services"
	"salescheck/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// HealthCheck kiểm tra một phụ thuộc bên ngoài (database, redis...)
type HealthCheck func(ctx context.Context) error

type Dependencies struct {
	Identity     services.IdentityProvider
	CheckIn      *controllers.CheckInController
	History      *controllers.HistoryController
	Auth         *controllers.AuthController
	Melody       *melody.Melody
	HealthChecks map[string]HealthCheck
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	router.Use(middlewares.SessionMiddleware(), middlewares.LocaleMiddleware(), middlewares.ErrorHandler())
	router.NoRoute(response.NotFound)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	router.GET("/health", healthHandler(deps.HealthChecks))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := middlewares.AuthMiddleware(deps.Identity)

	v1 := router.Group("/api/v1")
	v1.POST("/auth/register", deps.Auth.Register)
	v1.POST("/auth/login", deps.Auth.Login)
	v1.POST("/auth/google", deps.Auth.GoogleLogin)
	v1.DELETE("/auth/logout", auth, deps.Auth.Logout)
	v1.POST("/auth/forgot-password", deps.Auth.ForgotPassword)
	v1.POST("/auth/reset-password", deps.Auth.ResetPassword)
	v1.GET("/auth/me", auth, deps.Auth.Me)
	v1.PUT("/auth/profile", auth, deps.Auth.UpdateProfile)

	v1.GET("/locations", deps.CheckIn.GetLocations)
	v1.GET("/checkin", auth, deps.CheckIn.GetForm)
	v1.POST("/checkin", auth, deps.CheckIn.CheckIn)
	v1.POST("/checkout", auth, deps.CheckIn.CheckOut)
	v1.GET("/history", auth, deps.History.GetHistory)

	admin := v1.Group("/admin", auth, middlewares.AdminOnly())
	admin.GET("/records", deps.History.GetRecords)
	admin.GET("/records/export", deps.History.ExportRecords)

	//ws
	if deps.Melody != nil {
		router.GET("/ws", auth, func(c *gin.Context) {
			session := middlewares.GetSession(c)
			keys := map[string]interface{}{
				notification.KeyUserID:  session.User.ID,
				notification.KeyIsAdmin: session.IsAdmin,
			}
			if err := deps.Melody.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
				c.Error(err)
			}
		})
	}
}

func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		status := make(map[string]string, len(checks))
		healthy := true
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status[name] = err.Error()
				healthy = false
				continue
			}
			status[name] = "ok"
		}

		if !healthy {
			c.JSON(http.StatusServiceUnavailable, response.Response{Code: 0, Mess: "unhealthy", Data: status})
			return
		}
		response.Success(c, status)
	}
}
