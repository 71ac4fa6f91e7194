package allocation

type AllocationResponse struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	LeaveTypeID   string `json:"leave_type_id"`
	LeaveTypeName string `json:"leave_type_name,omitempty"`
	Period        int    `json:"period"`
	NumberOfDays  int    `json:"number_of_days"`
	DateCreated   string `json:"date_created"`
}

// SeedResult reports the outcome of seeding one leave type across the
// employee directory.
type SeedResult struct {
	LeaveTypeID string `json:"leave_type_id"`
	Period      int    `json:"period"`
	Created     int    `json:"created"`
	Skipped     int    `json:"skipped"`
}
