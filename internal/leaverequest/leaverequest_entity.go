package leaverequest

import (
	"time"

	"github.com/irisida/leave-management/internal/leavetype"

	"github.com/google/uuid"
)

// LeaveRequest is one employee's ask for a date range against an allocation.
// Approved is tri-state: nil while pending, then the admin's decision.
type LeaveRequest struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestingEmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee"`
	LeaveTypeID          uuid.UUID `gorm:"type:uuid;not null"`
	StartDate            time.Time `gorm:"type:date;not null"`
	EndDate              time.Time `gorm:"type:date;not null"`
	DateRequested        time.Time `gorm:"not null"`
	DateActioned         *time.Time
	Approved             *bool
	Cancelled            bool       `gorm:"not null;default:false"`
	CancellationStaffID  *uuid.UUID `gorm:"type:uuid"`
	ApprovedByID         *uuid.UUID `gorm:"type:uuid"`

	LeaveType *leavetype.LeaveType `gorm:"foreignKey:LeaveTypeID"`
}

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// Status derives the lifecycle state from the stored tri-state fields.
func (lr LeaveRequest) Status() string {
	if lr.Cancelled {
		return StatusCancelled
	}
	if lr.Approved == nil {
		return StatusPending
	}
	if *lr.Approved {
		return StatusApproved
	}
	return StatusRejected
}

// DaysRequested is the truncating calendar-day difference between the two
// dates; a same-day request counts as zero days.
func (lr LeaveRequest) DaysRequested() int {
	return int(lr.EndDate.Sub(lr.StartDate).Hours() / 24)
}
