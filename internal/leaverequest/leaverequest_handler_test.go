package leaverequest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/irisida/leave-management/internal/allocation"
	"github.com/irisida/leave-management/internal/employee"
	"github.com/irisida/leave-management/internal/leaverequest"
	leaverequesterrors "github.com/irisida/leave-management/internal/leaverequest/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveRequestService struct {
	createFn         func(ctx context.Context, employeeID string, req leaverequest.SubmitLeaveRequestRequest) (leaverequest.LeaveRequestResponse, error)
	approveFn        func(ctx context.Context, id, approverID string) (leaverequest.LeaveRequestResponse, error)
	rejectFn         func(ctx context.Context, id, approverID string) (leaverequest.LeaveRequestResponse, error)
	cancelFn         func(ctx context.Context, id, actorID string, actingAsAdmin bool) (leaverequest.LeaveRequestResponse, error)
	getByIDFn        func(ctx context.Context, id string) (leaverequest.LeaveRequestResponse, error)
	listByEmployeeFn func(ctx context.Context, employeeID string) ([]leaverequest.LeaveRequestResponse, error)
	listAllFn        func(ctx context.Context) (leaverequest.LeaveRequestSummaryResponse, error)
}

func (f *fakeLeaveRequestService) Create(ctx context.Context, employeeID string, req leaverequest.SubmitLeaveRequestRequest) (leaverequest.LeaveRequestResponse, error) {
	return f.createFn(ctx, employeeID, req)
}
func (f *fakeLeaveRequestService) Approve(ctx context.Context, id, approverID string) (leaverequest.LeaveRequestResponse, error) {
	return f.approveFn(ctx, id, approverID)
}
func (f *fakeLeaveRequestService) Reject(ctx context.Context, id, approverID string) (leaverequest.LeaveRequestResponse, error) {
	return f.rejectFn(ctx, id, approverID)
}
func (f *fakeLeaveRequestService) Cancel(ctx context.Context, id, actorID string, actingAsAdmin bool) (leaverequest.LeaveRequestResponse, error) {
	return f.cancelFn(ctx, id, actorID, actingAsAdmin)
}
func (f *fakeLeaveRequestService) GetByID(ctx context.Context, id string) (leaverequest.LeaveRequestResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeLeaveRequestService) ListByEmployee(ctx context.Context, employeeID string) ([]leaverequest.LeaveRequestResponse, error) {
	return f.listByEmployeeFn(ctx, employeeID)
}
func (f *fakeLeaveRequestService) ListAll(ctx context.Context) (leaverequest.LeaveRequestSummaryResponse, error) {
	return f.listAllFn(ctx)
}

type fakeAllocationService struct {
	getByEmployeeFn func(ctx context.Context, employeeID string) ([]allocation.AllocationResponse, error)
}

func (f *fakeAllocationService) Seed(ctx context.Context, leaveTypeID string) (allocation.SeedResult, error) {
	return allocation.SeedResult{}, nil
}
func (f *fakeAllocationService) HasAllocation(ctx context.Context, employeeID, leaveTypeID string) (bool, error) {
	return false, nil
}
func (f *fakeAllocationService) GetByEmployee(ctx context.Context, employeeID string) ([]allocation.AllocationResponse, error) {
	return f.getByEmployeeFn(ctx, employeeID)
}
func (f *fakeAllocationService) GetByEmployeeAndType(ctx context.Context, employeeID, leaveTypeID string) (allocation.AllocationResponse, error) {
	return allocation.AllocationResponse{}, nil
}

func TestLeaveRequestHandler_Submit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		employeeID := uuid.New().String()
		leaveTypeID := uuid.New().String()

		svc := &fakeLeaveRequestService{
			createFn: func(ctx context.Context, eid string, req leaverequest.SubmitLeaveRequestRequest) (leaverequest.LeaveRequestResponse, error) {
				assert.Equal(t, employeeID, eid)
				assert.Equal(t, leaveTypeID, req.LeaveTypeID)
				return leaverequest.LeaveRequestResponse{
					ID:                   uuid.New().String(),
					RequestingEmployeeID: eid,
					LeaveTypeID:          req.LeaveTypeID,
					StartDate:            req.StartDate,
					EndDate:              req.EndDate,
					DaysRequested:        4,
					Status:               leaverequest.StatusPending,
				}, nil
			},
		}

		h := leaverequest.NewHandler(svc, &fakeAllocationService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type_id":"` + leaveTypeID + `","start_date":"2026-03-01","end_date":"2026-03-05"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("employee_id", employeeID)

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leaverequest.LeaveRequestResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, leaverequest.StatusPending, got.Status)
		assert.Equal(t, 4, got.DaysRequested)
	})

	t.Run("negative validation error", func(t *testing.T) {
		h := leaverequest.NewHandler(&fakeLeaveRequestService{}, &fakeAllocationService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("negative insufficient allocation", func(t *testing.T) {
		svc := &fakeLeaveRequestService{
			createFn: func(ctx context.Context, eid string, req leaverequest.SubmitLeaveRequestRequest) (leaverequest.LeaveRequestResponse, error) {
				return leaverequest.LeaveRequestResponse{}, leaverequesterrors.ErrInsufficientAllocation
			},
		}

		h := leaverequest.NewHandler(svc, &fakeAllocationService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type_id":"` + uuid.New().String() + `","start_date":"2026-03-01","end_date":"2026-03-05"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("employee_id", uuid.New().String())

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "insufficient allocation exists to process the request", env.Error.Message)
	})
}

func TestLeaveRequestHandler_Cancel(t *testing.T) {
	t.Run("admin role is passed through", func(t *testing.T) {
		id := uuid.New().String()
		adminID := uuid.New().String()

		svc := &fakeLeaveRequestService{
			cancelFn: func(ctx context.Context, gotID, actorID string, actingAsAdmin bool) (leaverequest.LeaveRequestResponse, error) {
				assert.Equal(t, id, gotID)
				assert.Equal(t, adminID, actorID)
				assert.True(t, actingAsAdmin)
				return leaverequest.LeaveRequestResponse{ID: gotID, Status: leaverequest.StatusCancelled}, nil
			},
		}

		h := leaverequest.NewHandler(svc, &fakeAllocationService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leave-requests/"+id+"/cancel", nil)
		c.Params = gin.Params{{Key: "id", Value: id}}
		c.Set("employee_id", adminID)
		c.Set("role", employee.RoleAdministrator)

		h.Cancel(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative foreign request as plain employee", func(t *testing.T) {
		id := uuid.New().String()

		svc := &fakeLeaveRequestService{
			cancelFn: func(ctx context.Context, gotID, actorID string, actingAsAdmin bool) (leaverequest.LeaveRequestResponse, error) {
				assert.False(t, actingAsAdmin)
				return leaverequest.LeaveRequestResponse{}, leaverequesterrors.ErrNotRequestOwner
			},
		}

		h := leaverequest.NewHandler(svc, &fakeAllocationService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leave-requests/"+id+"/cancel", nil)
		c.Params = gin.Params{{Key: "id", Value: id}}
		c.Set("employee_id", uuid.New().String())
		c.Set("role", employee.RoleEmployee)

		h.Cancel(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})
}

func TestLeaveRequestHandler_MyLeave(t *testing.T) {
	t.Run("combines balances and history", func(t *testing.T) {
		employeeID := uuid.New().String()

		allocSvc := &fakeAllocationService{
			getByEmployeeFn: func(ctx context.Context, eid string) ([]allocation.AllocationResponse, error) {
				assert.Equal(t, employeeID, eid)
				return []allocation.AllocationResponse{{LeaveTypeName: "Annual", NumberOfDays: 21}}, nil
			},
		}
		svc := &fakeLeaveRequestService{
			listByEmployeeFn: func(ctx context.Context, eid string) ([]leaverequest.LeaveRequestResponse, error) {
				assert.Equal(t, employeeID, eid)
				return []leaverequest.LeaveRequestResponse{{Status: leaverequest.StatusApproved, DaysRequested: 4}}, nil
			},
		}

		h := leaverequest.NewHandler(svc, allocSvc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/my/leave", nil)
		c.Set("employee_id", employeeID)

		h.MyLeave(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leaverequest.MyLeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got.Allocations, 1)
		assert.Len(t, got.Requests, 1)
		assert.Equal(t, 21, got.Allocations[0].NumberOfDays)
	})
}

func TestLeaveRequestHandler_GetAll(t *testing.T) {
	t.Run("summary with counts", func(t *testing.T) {
		svc := &fakeLeaveRequestService{
			listAllFn: func(ctx context.Context) (leaverequest.LeaveRequestSummaryResponse, error) {
				return leaverequest.LeaveRequestSummaryResponse{
					Total:    3,
					Approved: 1,
					Pending:  1,
					Rejected: 1,
					Requests: make([]leaverequest.LeaveRequestResponse, 3),
				}, nil
			},
		}

		h := leaverequest.NewHandler(svc, &fakeAllocationService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leave-requests", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var got leaverequest.LeaveRequestSummaryResponse
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, 3, got.Total)
	})
}

func TestLeaveRequestHandler_Approve(t *testing.T) {
	t.Run("negative terminal state", func(t *testing.T) {
		svc := &fakeLeaveRequestService{
			approveFn: func(ctx context.Context, id, approverID string) (leaverequest.LeaveRequestResponse, error) {
				return leaverequest.LeaveRequestResponse{}, leaverequesterrors.ErrTerminalState
			},
		}

		h := leaverequest.NewHandler(svc, &fakeAllocationService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		id := uuid.New().String()
		c.Request = httptest.NewRequest(http.MethodPost, "/leave-requests/"+id+"/approve", nil)
		c.Params = gin.Params{{Key: "id", Value: id}}
		c.Set("employee_id", uuid.New().String())

		h.Approve(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})
}
