package leaverequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/irisida/leave-management/internal/allocation"
	allocationerrors "github.com/irisida/leave-management/internal/allocation/errors"
	"github.com/irisida/leave-management/internal/events"
	leaverequesterrors "github.com/irisida/leave-management/internal/leaverequest/errors"
	"github.com/irisida/leave-management/internal/messaging/kafka"
	"github.com/irisida/leave-management/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leaverequest_service.go -destination=mock/leaverequest_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, employeeID string, req SubmitLeaveRequestRequest) (LeaveRequestResponse, error)
	Approve(ctx context.Context, id, approverID string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, id, approverID string) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, id, actorID string, actingAsAdmin bool) (LeaveRequestResponse, error)
	GetByID(ctx context.Context, id string) (LeaveRequestResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error)
	ListAll(ctx context.Context) (LeaveRequestSummaryResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	allocations allocation.Repository
	outbox      kafka.OutboxRepository
	now         func() time.Time
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	allocations allocation.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithClock(db, repo, allocations, outbox, time.Now, logger...)
}

// NewServiceWithClock pins the clock used for "now" and the current period so
// the whole lifecycle is deterministic under test.
func NewServiceWithClock(
	db *sql.DB,
	repo Repository,
	allocations allocation.Repository,
	outbox kafka.OutboxRepository,
	now func() time.Time,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		allocations: allocations,
		outbox:      outbox,
		now:         now,
		logger:      l,
	}
}

func (s *service) period() int {
	return s.now().Year()
}

// Create validates the date range and the current balance, then persists a
// pending request. The balance itself is untouched until approval, so several
// pending requests can each pass the check against the same undeducted
// balance; days are only reserved when an admin approves.
func (s *service) Create(ctx context.Context, employeeID string, req SubmitLeaveRequestRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("create leave request",
		zap.String("employee_id", employeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	empUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidEmployeeID
	}
	typeUUID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidLeaveTypeID
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if endDate.Before(startDate) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidDateRange
	}

	daysRequested := daysBetween(startDate, endDate)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave request begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qalloc := s.allocations.WithTx(tx)

	alloc, err := qalloc.FindByEmployeeAndType(ctx, empUUID, typeUUID, s.period())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, allocationerrors.ErrAllocationNotFound
		}
		s.logger.Error("create leave request allocation lookup failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if daysRequested > alloc.NumberOfDays {
		s.logger.Warn("create leave request insufficient allocation",
			zap.String("employee_id", employeeID),
			zap.Int("days_requested", daysRequested),
			zap.Int("balance", alloc.NumberOfDays),
		)
		return LeaveRequestResponse{}, leaverequesterrors.ErrInsufficientAllocation
	}

	lr := &LeaveRequest{
		ID:                   uuid.New(),
		RequestingEmployeeID: empUUID,
		LeaveTypeID:          typeUUID,
		StartDate:            startDate,
		EndDate:              endDate,
		DateRequested:        s.now(),
		Approved:             nil,
		Cancelled:            false,
	}

	if err := qtx.Create(ctx, lr); err != nil {
		s.logger.Error("create leave request persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := s.writeLifecycleEvent(ctx, tx, events.LeaveRequestSubmitted, lr, employeeID); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave request commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("create leave request success",
		zap.String("leave_request_id", lr.ID.String()),
		zap.String("employee_id", employeeID),
		zap.Int("days_requested", daysRequested),
	)

	return mapToResponse(*lr), nil
}

// Approve deducts the requested days from the employee's allocation and marks
// the request approved, atomically.
func (s *service) Approve(ctx context.Context, id, approverID string) (LeaveRequestResponse, error) {
	return s.action(ctx, id, approverID, true)
}

// Reject marks the request rejected. The balance is untouched.
func (s *service) Reject(ctx context.Context, id, approverID string) (LeaveRequestResponse, error) {
	return s.action(ctx, id, approverID, false)
}

func (s *service) action(ctx context.Context, id, approverID string, approve bool) (LeaveRequestResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidRequestID
	}
	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("action leave request begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qalloc := s.allocations.WithTx(tx)

	lr, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}

	if lr.Cancelled {
		return LeaveRequestResponse{}, leaverequesterrors.ErrTerminalState
	}
	if lr.Approved != nil {
		s.logger.Warn("action on already actioned leave request",
			zap.String("leave_request_id", id),
			zap.String("status", lr.Status()),
		)
		return LeaveRequestResponse{}, leaverequesterrors.ErrAlreadyActioned
	}

	eventType := events.LeaveRequestRejected
	if approve {
		eventType = events.LeaveRequestApproved

		alloc, err := qalloc.FindByEmployeeAndType(ctx, lr.RequestingEmployeeID, lr.LeaveTypeID, s.period())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return LeaveRequestResponse{}, allocationerrors.ErrAllocationNotFound
			}
			return LeaveRequestResponse{}, err
		}
		if err := qalloc.AddDays(ctx, alloc.ID, -lr.DaysRequested()); err != nil {
			s.logger.Error("approve leave request balance adjust failed",
				zap.String("leave_request_id", id),
				zap.Error(err),
			)
			return LeaveRequestResponse{}, err
		}
	}

	approved := approve
	now := s.now()
	lr.Approved = &approved
	lr.ApprovedByID = &approverUUID
	lr.DateActioned = &now

	if err := qtx.Update(ctx, lr); err != nil {
		s.logger.Error("action leave request persist failed",
			zap.String("leave_request_id", id),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	if err := s.writeLifecycleEvent(ctx, tx, eventType, lr, approverID); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("action leave request commit failed",
			zap.String("leave_request_id", id),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request actioned",
		zap.String("leave_request_id", id),
		zap.String("status", lr.Status()),
		zap.String("approver_id", approverID),
	)

	return mapToResponse(*lr), nil
}

// Cancel returns the requested days to the allocation and marks the request
// cancelled. The refund happens whether or not the request had been approved;
// that is the modeled business rule, not an oversight. A pending request can
// be cancelled by its owner, anything by an administrator; rejected and
// cancelled requests are terminal.
func (s *service) Cancel(ctx context.Context, id, actorID string, actingAsAdmin bool) (LeaveRequestResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidRequestID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel leave request begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qalloc := s.allocations.WithTx(tx)

	lr, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}

	if lr.Cancelled {
		return LeaveRequestResponse{}, leaverequesterrors.ErrTerminalState
	}
	if lr.Approved != nil && !*lr.Approved {
		return LeaveRequestResponse{}, leaverequesterrors.ErrTerminalState
	}
	if !actingAsAdmin && lr.RequestingEmployeeID != actorUUID {
		return LeaveRequestResponse{}, leaverequesterrors.ErrNotRequestOwner
	}

	alloc, err := qalloc.FindByEmployeeAndType(ctx, lr.RequestingEmployeeID, lr.LeaveTypeID, s.period())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, allocationerrors.ErrAllocationNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if err := qalloc.AddDays(ctx, alloc.ID, lr.DaysRequested()); err != nil {
		s.logger.Error("cancel leave request balance refund failed",
			zap.String("leave_request_id", id),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	lr.Cancelled = true
	lr.CancellationStaffID = &actorUUID

	if err := qtx.Update(ctx, lr); err != nil {
		s.logger.Error("cancel leave request persist failed",
			zap.String("leave_request_id", id),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	if err := s.writeLifecycleEvent(ctx, tx, events.LeaveRequestCancelled, lr, actorID); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel leave request commit failed",
			zap.String("leave_request_id", id),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request cancelled",
		zap.String("leave_request_id", id),
		zap.String("actor_id", actorID),
		zap.Int("days_refunded", lr.DaysRequested()),
	)

	return mapToResponse(*lr), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveRequestResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidRequestID
	}

	lr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	return mapToResponse(*lr), nil
}

func (s *service) ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error) {
	empUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, leaverequesterrors.ErrInvalidEmployeeID
	}

	requests, err := s.repo.FindByEmployee(ctx, empUUID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) ListAll(ctx context.Context) (LeaveRequestSummaryResponse, error) {
	requests, err := s.repo.FindAll(ctx)
	if err != nil {
		return LeaveRequestSummaryResponse{}, err
	}

	summary := LeaveRequestSummaryResponse{
		Total:    len(requests),
		Requests: mapToListResponse(requests),
	}
	for _, lr := range requests {
		switch {
		case lr.Approved == nil:
			summary.Pending++
		case *lr.Approved:
			summary.Approved++
		default:
			summary.Rejected++
		}
	}
	return summary, nil
}

func (s *service) writeLifecycleEvent(ctx context.Context, tx *sql.Tx, eventType string, lr *LeaveRequest, actorID string) error {
	payload, err := json.Marshal(events.LeaveRequestEvent{
		EventType:      eventType,
		LeaveRequestID: lr.ID.String(),
		EmployeeID:     lr.RequestingEmployeeID.String(),
		LeaveTypeID:    lr.LeaveTypeID.String(),
		StartDate:      lr.StartDate.Format("2006-01-02"),
		EndDate:        lr.EndDate.Format("2006-01-02"),
		DaysRequested:  lr.DaysRequested(),
		ActorID:        actorID,
		OccurredAt:     s.now().UTC(),
	})
	if err != nil {
		return err
	}

	err = s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   lr.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveRequestLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		s.logger.Error("write lifecycle outbox event failed",
			zap.String("leave_request_id", lr.ID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
	return err
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaverequesterrors.ErrInvalidDateFormat
	}
	return t, nil
}

func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

func mapToResponse(lr LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:                   lr.ID.String(),
		RequestingEmployeeID: lr.RequestingEmployeeID.String(),
		LeaveTypeID:          lr.LeaveTypeID.String(),
		StartDate:            lr.StartDate.Format("2006-01-02"),
		EndDate:              lr.EndDate.Format("2006-01-02"),
		DaysRequested:        lr.DaysRequested(),
		Status:               lr.Status(),
		DateRequested:        lr.DateRequested.Format(time.RFC3339),
	}
	if lr.LeaveType != nil {
		resp.LeaveTypeName = lr.LeaveType.Name
	}
	if lr.DateActioned != nil {
		v := lr.DateActioned.Format(time.RFC3339)
		resp.DateActioned = &v
	}
	if lr.ApprovedByID != nil {
		v := lr.ApprovedByID.String()
		resp.ApprovedByID = &v
	}
	if lr.CancellationStaffID != nil {
		v := lr.CancellationStaffID.String()
		resp.CancellationStaffID = &v
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, lr := range requests {
		resp[i] = mapToResponse(lr)
	}
	return resp
}
