package allocation

import (
	"time"

	"github.com/irisida/leave-management/internal/leavetype"

	"github.com/google/uuid"
)

// Allocation is the number of leave days an employee holds for one leave type
// in one period (calendar year). The composite unique index backs the
// upsert-on-conflict seeding so two concurrent seeds cannot double-insert.
type Allocation struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_allocation_employee_type_period"`
	LeaveTypeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_allocation_employee_type_period"`
	Period       int       `gorm:"type:int;not null;uniqueIndex:uq_allocation_employee_type_period"`
	NumberOfDays int       `gorm:"type:int;not null"`
	DateCreated  time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time

	LeaveType *leavetype.LeaveType `gorm:"foreignKey:LeaveTypeID"`
}

func (Allocation) TableName() string {
	return "leave_allocations"
}
