package allocation

import (
	"context"
	"database/sql"

	"github.com/irisida/leave-management/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=allocation_repo.go -destination=mock/allocation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateIfAbsent(ctx context.Context, a *Allocation) (bool, error)
	Exists(ctx context.Context, leaveTypeID, employeeID uuid.UUID, period int) (bool, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID, period int) ([]Allocation, error)
	FindByEmployeeAndType(ctx context.Context, employeeID, leaveTypeID uuid.UUID, period int) (*Allocation, error)
	AddDays(ctx context.Context, id uuid.UUID, delta int) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

// CreateIfAbsent inserts the allocation unless one already exists for the
// same (employee, type, period). Returns whether a row was written.
func (r *repository) CreateIfAbsent(ctx context.Context, a *Allocation) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "employee_id"},
				{Name: "leave_type_id"},
				{Name: "period"},
			},
			DoNothing: true,
		}).
		Create(a)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) Exists(ctx context.Context, leaveTypeID, employeeID uuid.UUID, period int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Allocation{}).
		Where("leave_type_id = ?", leaveTypeID).
		Where("employee_id = ?", employeeID).
		Where("period = ?", period).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID uuid.UUID, period int) ([]Allocation, error) {
	var allocations []Allocation
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		Where("employee_id = ?", employeeID).
		Where("period = ?", period).
		Order("date_created ASC").
		Find(&allocations).Error
	return allocations, err
}

func (r *repository) FindByEmployeeAndType(ctx context.Context, employeeID, leaveTypeID uuid.UUID, period int) (*Allocation, error) {
	var a Allocation
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		Where("employee_id = ?", employeeID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("period = ?", period).
		First(&a).Error
	return &a, err
}

// AddDays shifts the balance by delta (negative on approve, positive on
// cancel). Bounds checking is the caller's concern.
func (r *repository) AddDays(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&Allocation{}).
		Where("id = ?", id).
		UpdateColumn("number_of_days", gorm.Expr("number_of_days + ?", delta)).Error
}
