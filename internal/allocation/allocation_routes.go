package allocation

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
	seed := r.Group("/leave-types")
	seed.Use(middleware.AuthMiddleware())
	{
		// seeding walks the whole directory, keep it slow
		seed.POST("/:id/allocations",
			middleware.Authorize(enforcer, "allocation", "seed"),
			middleware.RateLimitByUser(rate.Limit(0.2), 1),
			middleware.Idempotency(rdb),
			handler.Seed,
		)
	}

	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("/:id/allocations",
			middleware.Authorize(enforcer, "allocation", "read"),
			handler.GetForEmployee,
		)
	}

	my := r.Group("/my")
	my.Use(middleware.AuthMiddleware())
	{
		my.GET("/allocations",
			middleware.Authorize(enforcer, "allocation", "read_own"),
			handler.GetMine,
		)
	}
}
