// SPDX-License-Identifier: Apache-2.0

// Package policy gates who may force-enable or force-disable a module via
// CLI override. It is strictly additive: when unconfigured, every request
// is allowed and the sequencer's default precedence (see
// internal/sequencer) is unchanged.
package policy

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Action is the enable/disable decision a CLI override requests.
type Action string

const (
	ActionEnable  Action = "enable"
	ActionDisable Action = "disable"
)

// rbacModel is a conventional RBAC model: a subject may perform an action on
// a module if it holds a role (direct or inherited) granted that action on
// that module, or on the wildcard module "*".
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (r.sub == p.sub || g(r.sub, p.sub)) && (r.obj == p.obj || p.obj == "*") && r.act == p.act
`

// Gate wraps a casbin enforcer over a SQLite-backed policy store. A nil Gate
// is a valid no-op gate: every IsAllowed call returns true.
type Gate struct {
	enforcer casbin.IEnforcer
}

// NewGate opens (creating if necessary) a SQLite-backed policy store at
// dbPath and returns a Gate enforcing the RBAC model above. Passing "" for
// dbPath returns a nil, no-op Gate.
func NewGate(dbPath string) (*Gate, error) {
	if dbPath == "" {
		return nil, nil
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening policy store %s: %w", dbPath, err)
	}

	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("creating policy adapter: %w", err)
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("loading RBAC model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("creating enforcer: %w", err)
	}
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("loading policy: %w", err)
	}

	return &Gate{enforcer: enforcer}, nil
}

// IsAllowed reports whether subject may perform action on module. A nil
// Gate always allows.
func (g *Gate) IsAllowed(subject, moduleName string, action Action) (bool, error) {
	if g == nil {
		return true, nil
	}
	ok, err := g.enforcer.Enforce(subject, moduleName, string(action))
	if err != nil {
		return false, fmt.Errorf("evaluating policy for %s on %s: %w", subject, moduleName, err)
	}
	return ok, nil
}

// Grant adds a direct policy allowing subject to perform action on module
// ("*" for every module). It is called from this package's tests; the CLI
// has no policy administration command.
func (g *Gate) Grant(subject, moduleName string, action Action) error {
	if g == nil {
		return fmt.Errorf("policy: gate is not configured")
	}
	if _, err := g.enforcer.AddPolicy(subject, moduleName, string(action)); err != nil {
		return fmt.Errorf("granting policy: %w", err)
	}
	return g.enforcer.SavePolicy()
}

// AssignRole grants subject a role, e.g. "release-manager".
func (g *Gate) AssignRole(subject, role string) error {
	if g == nil {
		return fmt.Errorf("policy: gate is not configured")
	}
	if _, err := g.enforcer.AddRoleForUser(subject, role); err != nil {
		return fmt.Errorf("assigning role: %w", err)
	}
	return g.enforcer.SavePolicy()
}
