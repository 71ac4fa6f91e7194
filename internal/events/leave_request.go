package events

import "time"

const LeaveRequestLifecycleTopic = "leave.request.lifecycle.v1"

const (
	LeaveRequestSubmitted = "leave_request.submitted"
	LeaveRequestApproved  = "leave_request.approved"
	LeaveRequestRejected  = "leave_request.rejected"
	LeaveRequestCancelled = "leave_request.cancelled"
)

// LeaveRequestEvent is the payload published for every lifecycle transition.
// Consumers use it to notify the employee and their manager.
type LeaveRequestEvent struct {
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	EmployeeID     string    `json:"employee_id"`
	LeaveTypeID    string    `json:"leave_type_id"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	DaysRequested  int       `json:"days_requested"`
	ActorID        string    `json:"actor_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}
