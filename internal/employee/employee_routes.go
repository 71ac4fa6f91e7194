package employee

import (
	"github.com/irisida/leave-management/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer *casbin.Enforcer,
) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", middleware.Authorize(enforcer, "employee", "read"), handler.GetAll)
		employees.GET("/:id", middleware.Authorize(enforcer, "employee", "read"), handler.GetById)
	}
}
