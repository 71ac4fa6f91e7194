package allocation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	allocationerrors "github.com/irisida/leave-management/internal/allocation/errors"
	"github.com/irisida/leave-management/internal/employee"
	"github.com/irisida/leave-management/internal/leavetype"
	leavetypeerrors "github.com/irisida/leave-management/internal/leavetype/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=allocation_service.go -destination=mock/allocation_service_mock.go -package=mock
type Service interface {
	Seed(ctx context.Context, leaveTypeID string) (SeedResult, error)
	HasAllocation(ctx context.Context, employeeID, leaveTypeID string) (bool, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]AllocationResponse, error)
	GetByEmployeeAndType(ctx context.Context, employeeID, leaveTypeID string) (AllocationResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	types     leavetype.Repository
	employees employee.Repository
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	types leavetype.Repository,
	employees employee.Repository,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithClock(db, repo, types, employees, time.Now, logger...)
}

// NewServiceWithClock fixes the clock the service derives "now" and the
// current period (year) from, keeping seeding and lookups stable within one
// operation and deterministic in tests.
func NewServiceWithClock(
	db *sql.DB,
	repo Repository,
	types leavetype.Repository,
	employees employee.Repository,
	now func() time.Time,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("allocation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("allocation.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		types:     types,
		employees: employees,
		now:       now,
		logger:    l,
	}
}

func (s *service) period() int {
	return s.now().Year()
}

// Seed creates one allocation per EMPLOYEE-role user for the current period,
// carrying the leave type's default days. Employees already holding an
// allocation are skipped silently, so the operation can be repeated safely.
func (s *service) Seed(ctx context.Context, leaveTypeID string) (SeedResult, error) {
	typeUUID, err := uuid.Parse(leaveTypeID)
	if err != nil {
		return SeedResult{}, allocationerrors.ErrInvalidLeaveTypeID
	}

	period := s.period()
	s.logger.Debug("seed allocations requested",
		zap.String("leave_type_id", leaveTypeID),
		zap.Int("period", period),
	)

	lt, err := s.types.FindByID(ctx, leaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SeedResult{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return SeedResult{}, err
	}

	emps, err := s.employees.FindByRole(ctx, employee.RoleEmployee)
	if err != nil {
		return SeedResult{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("seed allocations begin tx failed", zap.Error(err))
		return SeedResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	result := SeedResult{LeaveTypeID: leaveTypeID, Period: period}
	for _, emp := range emps {
		exists, err := qtx.Exists(ctx, typeUUID, emp.ID, period)
		if err != nil {
			s.logger.Error("seed allocation existence check failed",
				zap.String("employee_id", emp.ID.String()),
				zap.Error(err),
			)
			return SeedResult{}, err
		}
		if exists {
			result.Skipped++
			continue
		}

		created, err := qtx.CreateIfAbsent(ctx, &Allocation{
			ID:           uuid.New(),
			EmployeeID:   emp.ID,
			LeaveTypeID:  typeUUID,
			Period:       period,
			NumberOfDays: lt.DefaultDays,
			DateCreated:  s.now(),
		})
		if err != nil {
			s.logger.Error("seed allocation persist failed",
				zap.String("employee_id", emp.ID.String()),
				zap.Error(err),
			)
			return SeedResult{}, err
		}
		if created {
			result.Created++
		} else {
			// a concurrent seed got there first
			result.Skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("seed allocations commit failed", zap.Error(err))
		return SeedResult{}, err
	}

	s.logger.Info("seed allocations success",
		zap.String("leave_type_id", leaveTypeID),
		zap.Int("period", period),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
	)

	return result, nil
}

// HasAllocation reports whether the employee already holds an allocation for
// the leave type in the current period.
func (s *service) HasAllocation(ctx context.Context, employeeID, leaveTypeID string) (bool, error) {
	empUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return false, allocationerrors.ErrInvalidEmployeeID
	}
	typeUUID, err := uuid.Parse(leaveTypeID)
	if err != nil {
		return false, allocationerrors.ErrInvalidLeaveTypeID
	}
	return s.repo.Exists(ctx, typeUUID, empUUID, s.period())
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]AllocationResponse, error) {
	empUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, allocationerrors.ErrInvalidEmployeeID
	}

	allocations, err := s.repo.FindByEmployee(ctx, empUUID, s.period())
	if err != nil {
		return nil, err
	}
	return mapToListResponse(allocations), nil
}

func (s *service) GetByEmployeeAndType(ctx context.Context, employeeID, leaveTypeID string) (AllocationResponse, error) {
	empUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return AllocationResponse{}, allocationerrors.ErrInvalidEmployeeID
	}
	typeUUID, err := uuid.Parse(leaveTypeID)
	if err != nil {
		return AllocationResponse{}, allocationerrors.ErrInvalidLeaveTypeID
	}

	a, err := s.repo.FindByEmployeeAndType(ctx, empUUID, typeUUID, s.period())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AllocationResponse{}, allocationerrors.ErrAllocationNotFound
		}
		return AllocationResponse{}, err
	}
	return mapToResponse(*a), nil
}

func mapToResponse(a Allocation) AllocationResponse {
	resp := AllocationResponse{
		ID:           a.ID.String(),
		EmployeeID:   a.EmployeeID.String(),
		LeaveTypeID:  a.LeaveTypeID.String(),
		Period:       a.Period,
		NumberOfDays: a.NumberOfDays,
		DateCreated:  a.DateCreated.Format("2006-01-02"),
	}
	if a.LeaveType != nil {
		resp.LeaveTypeName = a.LeaveType.Name
	}
	return resp
}

func mapToListResponse(allocations []Allocation) []AllocationResponse {
	resp := make([]AllocationResponse, len(allocations))
	for i, a := range allocations {
		resp[i] = mapToResponse(a)
	}
	return resp
}
