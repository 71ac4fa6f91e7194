package leaverequest

import (
	"github.com/irisida/leave-management/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer *casbin.Enforcer,
	rdb *redis.Client,
) {
	requests := r.Group("/leave-requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.POST("",
			middleware.Authorize(enforcer, "leave_request", "create"),
			middleware.RateLimitByUser(rate.Limit(1), 5),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		requests.GET("",
			middleware.Authorize(enforcer, "leave_request", "read"),
			handler.GetAll,
		)
		requests.GET("/:id",
			middleware.Authorize(enforcer, "leave_request", "read"),
			handler.GetById,
		)
		requests.POST("/:id/approve",
			middleware.Authorize(enforcer, "leave_request", "approve"),
			handler.Approve,
		)
		requests.POST("/:id/reject",
			middleware.Authorize(enforcer, "leave_request", "reject"),
			handler.Reject,
		)
		requests.POST("/:id/cancel",
			middleware.Authorize(enforcer, "leave_request", "cancel"),
			middleware.RateLimitByUser(rate.Limit(1), 5),
			handler.Cancel,
		)
	}

	my := r.Group("/my")
	my.Use(middleware.AuthMiddleware())
	{
		my.GET("/leave",
			middleware.Authorize(enforcer, "leave_request", "read_own"),
			handler.MyLeave,
		)
	}
}
