package leaverequest

import (
	"net/http"

	"github.com/irisida/leave-management/internal/allocation"
	"github.com/irisida/leave-management/internal/employee"
	"github.com/irisida/leave-management/internal/shared/apperror"
	"github.com/irisida/leave-management/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service     Service
	allocations allocation.Service
	logger      *zap.Logger
}

func NewHandler(service Service, allocations allocation.Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leaverequest.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.handler")
	}
	return &Handler{service: service, allocations: allocations, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request call failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Submit files a new leave request for the authenticated employee.
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitLeaveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), c.GetString("employee_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

// GetAll is the administrator index with headline counts.
func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetById(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	resp, err := h.service.Approve(c.Request.Context(), c.Param("id"), c.GetString("employee_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	resp, err := h.service.Reject(c.Request.Context(), c.Param("id"), c.GetString("employee_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// Cancel lets the requesting employee withdraw their own request, or an
// administrator withdraw anyone's.
func (h *Handler) Cancel(c *gin.Context) {
	actingAsAdmin := c.GetString("role") == employee.RoleAdministrator

	resp, err := h.service.Cancel(c.Request.Context(), c.Param("id"), c.GetString("employee_id"), actingAsAdmin)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// MyLeave is the employee dashboard: current balances plus request history.
func (h *Handler) MyLeave(c *gin.Context) {
	ctx := c.Request.Context()
	employeeID := c.GetString("employee_id")

	allocations, err := h.allocations.GetByEmployee(ctx, employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	requests, err := h.service.ListByEmployee(ctx, employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, MyLeaveResponse{
		Allocations: allocations,
		Requests:    requests,
	}, nil)
}
