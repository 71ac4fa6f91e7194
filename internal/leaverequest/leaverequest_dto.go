package leaverequest

import "github.com/irisida/leave-management/internal/allocation"

type SubmitLeaveRequestRequest struct {
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
}

type LeaveRequestResponse struct {
	ID                   string  `json:"id"`
	RequestingEmployeeID string  `json:"requesting_employee_id"`
	LeaveTypeID          string  `json:"leave_type_id"`
	LeaveTypeName        string  `json:"leave_type_name,omitempty"`
	StartDate            string  `json:"start_date"`
	EndDate              string  `json:"end_date"`
	DaysRequested        int     `json:"days_requested"`
	Status               string  `json:"status"`
	DateRequested        string  `json:"date_requested"`
	DateActioned         *string `json:"date_actioned,omitempty"`
	ApprovedByID         *string `json:"approved_by_id,omitempty"`
	CancellationStaffID  *string `json:"cancellation_staff_id,omitempty"`
}

// LeaveRequestSummaryResponse is the administrator index: every request plus
// the headline counts.
type LeaveRequestSummaryResponse struct {
	Total    int                    `json:"total"`
	Approved int                    `json:"approved"`
	Pending  int                    `json:"pending"`
	Rejected int                    `json:"rejected"`
	Requests []LeaveRequestResponse `json:"requests"`
}

// MyLeaveResponse combines the caller's balances with their request history.
type MyLeaveResponse struct {
	Allocations []allocation.AllocationResponse `json:"allocations"`
	Requests    []LeaveRequestResponse          `json:"requests"`
}
