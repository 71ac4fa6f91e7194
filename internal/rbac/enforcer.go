package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// The application has exactly two roles. Policies are compiled in rather than
// stored per tenant: an administrator can additionally do everything an
// employee can (grouping policy below).
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

var policies = [][]string{
	{"EMPLOYEE", "leave_request", "create"},
	{"EMPLOYEE", "leave_request", "read_own"},
	{"EMPLOYEE", "leave_request", "cancel"},
	{"EMPLOYEE", "allocation", "read_own"},
	{"EMPLOYEE", "leave_type", "read"},

	{"ADMINISTRATOR", "leave_type", "create"},
	{"ADMINISTRATOR", "leave_type", "update"},
	{"ADMINISTRATOR", "leave_type", "delete"},
	{"ADMINISTRATOR", "allocation", "seed"},
	{"ADMINISTRATOR", "allocation", "read"},
	{"ADMINISTRATOR", "leave_request", "read"},
	{"ADMINISTRATOR", "leave_request", "approve"},
	{"ADMINISTRATOR", "leave_request", "reject"},
	{"ADMINISTRATOR", "employee", "read"},
	{"ADMINISTRATOR", "employee", "create"},
}

var groupings = [][]string{
	{"ADMINISTRATOR", "EMPLOYEE"},
}

// NewEnforcer builds the casbin enforcer with the static role policy loaded.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range groupings {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	return e, nil
}
