// Package authz admits authenticated callers to routes by role. Ownership of a
// particular shipment is decided later by the domain authorization gate.
package authz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	tableName  = "casbin_rule"
	rolePrefix = "role:"
)

const roleModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// Policy allows a role to call Action on the route pattern Object.
type Policy struct {
	Role   string
	Object string
	Action string
}

// DefaultPolicies are the routes each account role may reach.
func DefaultPolicies() []Policy {
	return []Policy{
		{Role: "seller", Object: "/api/v1/sellers/logout", Action: "GET"},
		{Role: "seller", Object: "/api/v1/shipments", Action: "POST"},
		{Role: "seller", Object: "/api/v1/shipments/:id", Action: "DELETE"},
		{Role: "seller", Object: "/api/v1/shipments/:id/cancel", Action: "POST"},
		{Role: "seller", Object: "/api/v1/shipments/:id/tags", Action: "*"},

		{Role: "partner", Object: "/api/v1/partners/logout", Action: "GET"},
		{Role: "partner", Object: "/api/v1/partners/me", Action: "PATCH"},
		{Role: "partner", Object: "/api/v1/shipments/:id", Action: "PUT"},
		{Role: "partner", Object: "/api/v1/shipments/:id", Action: "PATCH"},
	}
}

// Enforcer wraps a synced casbin enforcer whose policies live in the database.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*Enforcer, error) {
	if db == nil {
		return nil, errors.New("authz db is nil")
	}

	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", tableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter: %w", err)
	}
	m, err := model.NewModelFromString(roleModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy: %w", err)
	}
	return &Enforcer{enforcer: enforcer}, nil
}

// Seed adds the missing policies and returns how many were added.
func (e *Enforcer) Seed(policies []Policy) (int, error) {
	added := 0
	for _, p := range policies {
		ok, err := e.enforcer.AddPolicy(subject(p.Role), p.Object, normalizeAction(p.Action))
		if err != nil {
			return added, fmt.Errorf("add policy %s %s: %w", p.Action, p.Object, err)
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// Allowed reports whether role may call method on path.
func (e *Enforcer) Allowed(role, path, method string) (bool, error) {
	return e.enforcer.Enforce(subject(role), path, normalizeAction(method))
}

func subject(role string) string {
	return rolePrefix + strings.TrimSpace(role)
}

func normalizeAction(action string) string {
	action = strings.ToUpper(strings.TrimSpace(action))
	if action == "" {
		return "*"
	}
	return action
}
