package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/irisida/leave-management/internal/employee"
	"github.com/irisida/leave-management/internal/middleware"
	"github.com/irisida/leave-management/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, employeeID, role string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"employee_id": employeeID,
		"role":        role,
		"exp":         time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return signed
}

func TestAuthMiddleware_TagsRequestLoggerWithEmployeeID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", testSecret)

	core, logs := observer.New(zap.InfoLevel)
	empID := uuid.New().String()

	router := gin.New()
	router.Use(middleware.ContextLogger(zap.New(core)))
	router.GET("/ping", middleware.AuthMiddleware(), func(c *gin.Context) {
		contextutil.GetLogger(c.Request.Context(), nil).Info("handled")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, empID, employee.RoleEmployee))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, empID, fields["employee_id"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestContextLogger_UnauthenticatedRequestHasNoEmployeeField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zap.InfoLevel)

	router := gin.New()
	router.Use(middleware.ContextLogger(zap.New(core)))
	router.GET("/open", func(c *gin.Context) {
		contextutil.GetLogger(c.Request.Context(), nil).Info("handled")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("X-Request-ID", "rid-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "rid-123", fields["request_id"])
	assert.NotContains(t, fields, "employee_id")
}
