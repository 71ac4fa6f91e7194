package app

import (
	"os"

	"github.com/irisida/leave-management/internal/allocation"
	"github.com/irisida/leave-management/internal/employee"
	"github.com/irisida/leave-management/internal/leaverequest"
	"github.com/irisida/leave-management/internal/leavetype"
	"github.com/irisida/leave-management/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp connects the infrastructure and registers every module's routes
// on the router.
func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	if err := migrate(gormDB); err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	return registerModules(router, sqlDB, gormDB, redisClient)
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&employee.Employee{},
		&leavetype.LeaveType{},
		&allocation.Allocation{},
		&leaverequest.LeaveRequest{},
	); err != nil {
		return err
	}

	// The outbox is written with database/sql, not gorm, so it keeps a plain
	// DDL migration.
	return db.Exec(`
CREATE TABLE IF NOT EXISTS outbox_events (
    id            UUID PRIMARY KEY,
    request_id    TEXT,
    aggregate_type TEXT NOT NULL,
    aggregate_id  UUID NOT NULL,
    event_type    TEXT NOT NULL,
    topic         TEXT NOT NULL,
    payload       JSONB NOT NULL,
    status        TEXT NOT NULL DEFAULT 'pending',
    retry_count   INT NOT NULL DEFAULT 0,
    error_message TEXT,
    next_retry_at TIMESTAMPTZ,
    processed_at  TIMESTAMPTZ,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`).Error
}
