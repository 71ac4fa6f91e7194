package allocation

import (
	"net/http"

	"github.com/irisida/leave-management/internal/shared/apperror"
	"github.com/irisida/leave-management/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("allocation.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("allocation.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("allocation request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Seed provisions current-period allocations for every employee against the
// leave type in the path.
func (h *Handler) Seed(c *gin.Context) {
	ctx := c.Request.Context()
	leaveTypeID := c.Param("id")

	resp, err := h.service.Seed(ctx, leaveTypeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// GetForEmployee is the admin view of one employee's current-period balances.
func (h *Handler) GetForEmployee(c *gin.Context) {
	ctx := c.Request.Context()
	employeeID := c.Param("id")

	resp, err := h.service.GetByEmployee(ctx, employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// GetMine returns the caller's own current-period balances.
func (h *Handler) GetMine(c *gin.Context) {
	ctx := c.Request.Context()
	employeeID := c.GetString("employee_id")

	resp, err := h.service.GetByEmployee(ctx, employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
