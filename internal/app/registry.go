package app

import (
	"database/sql"

	"github.com/irisida/leave-management/internal/allocation"
	"github.com/irisida/leave-management/internal/auth"
	"github.com/irisida/leave-management/internal/employee"
	"github.com/irisida/leave-management/internal/leaverequest"
	"github.com/irisida/leave-management/internal/leavetype"
	"github.com/irisida/leave-management/internal/messaging/kafka"
	"github.com/irisida/leave-management/internal/middleware"
	"github.com/irisida/leave-management/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	allocationRepo := allocation.NewRepository(gormDB)
	leaveRequestRepo := leaverequest.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(employeeRepo)
	employeeService := employee.NewService(employeeRepo)
	leaveTypeService := leavetype.NewService(db, leaveTypeRepo)
	allocationService := allocation.NewService(db, allocationRepo, leaveTypeRepo, employeeRepo)
	leaveRequestService := leaverequest.NewService(db, leaveRequestRepo, allocationRepo, outboxRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	allocationHandler := allocation.NewHandler(allocationService)
	leaveRequestHandler := leaverequest.NewHandler(leaveRequestService, allocationService)

	router.Use(middleware.ContextLogger(zap.L()))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, enforcer)
		employee.RegisterRoutes(api, employeeHandler, enforcer)
		leavetype.RegisterRoutes(api, leaveTypeHandler, enforcer)
		allocation.RegisterRoutes(api, allocationHandler, enforcer, rdb)
		leaverequest.RegisterRoutes(api, leaveRequestHandler, enforcer, rdb)
	}

	return nil
}
