package rbac_test

import (
	"testing"

	"github.com/irisida/leave-management/internal/rbac"

	"github.com/stretchr/testify/assert"
)

func TestEnforcer_RolePolicy(t *testing.T) {
	e, err := rbac.NewEnforcer()
	assert.NoError(t, err)

	cases := []struct {
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{"EMPLOYEE", "leave_request", "create", true},
		{"EMPLOYEE", "leave_request", "cancel", true},
		{"EMPLOYEE", "leave_request", "approve", false},
		{"EMPLOYEE", "leave_type", "create", false},
		{"EMPLOYEE", "allocation", "seed", false},
		{"ADMINISTRATOR", "leave_request", "approve", true},
		{"ADMINISTRATOR", "leave_request", "reject", true},
		{"ADMINISTRATOR", "allocation", "seed", true},
		{"ADMINISTRATOR", "employee", "read", true},
		// admins inherit employee permissions
		{"ADMINISTRATOR", "leave_request", "create", true},
		{"ADMINISTRATOR", "allocation", "read_own", true},
		// unknown role gets nothing
		{"CONTRACTOR", "leave_request", "create", false},
	}

	for _, tc := range cases {
		allowed, err := e.Enforce(tc.role, tc.resource, tc.action)
		assert.NoError(t, err)
		assert.Equal(t, tc.allowed, allowed, "%s %s:%s", tc.role, tc.resource, tc.action)
	}
}
