package auth

import (
	"github.com/irisida/leave-management/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer *casbin.Enforcer,
) {
	authGroup := r.Group("/auth")
	{
		// login is the brute-force target, keep it on a tight per-IP limit
		authGroup.POST("/login", middleware.RateLimitByIP(rate.Limit(1), 5), handler.Login)
		authGroup.POST("/refresh", handler.Refresh)
		authGroup.POST("/register",
			middleware.AuthMiddleware(),
			middleware.Authorize(enforcer, "employee", "create"),
			handler.Register,
		)
		authGroup.GET("/me", middleware.AuthMiddleware(), handler.Me)
	}
}
