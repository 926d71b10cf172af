package rbac

import (
	"fmt"
	"sort"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const modelText = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj
`

// Policy answers role/permission questions through a casbin enforcer that is
// rebuilt wholesale on Replace.
type Policy struct {
	mu       sync.RWMutex
	enforcer *casbin.Enforcer
	roles    []string
}

func NewPolicy(roles []Role) *Policy {
	p := &Policy{}
	if err := p.Replace(roles); err != nil {
		panic(err)
	}
	return p
}

func (p *Policy) Allowed(userRoles []string, perm Permission) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.enforcer == nil {
		return false
	}
	for _, r := range userRoles {
		ok, err := p.enforcer.Enforce(r, string(perm))
		if err == nil && ok {
			return true
		}
	}
	return false
}

func (p *Policy) Roles() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.roles))
	copy(out, p.roles)
	return out
}

// PermissionsForRoles returns the union of permissions for the provided roles,
// inherited ones included.
func (p *Policy) PermissionsForRoles(roles []string) []Permission {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.enforcer == nil {
		return nil
	}
	set := map[Permission]struct{}{}
	for _, r := range roles {
		perms, err := p.enforcer.GetImplicitPermissionsForUser(r)
		if err != nil {
			continue
		}
		for _, rule := range perms {
			if len(rule) >= 2 {
				set[Permission(rule[1])] = struct{}{}
			}
		}
	}
	out := make([]Permission, 0, len(set))
	for perm := range set {
		out = append(out, perm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (p *Policy) Replace(roles []Role) error {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return fmt.Errorf("rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return fmt.Errorf("rbac enforcer: %w", err)
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
		for _, perm := range r.Permissions {
			if _, err := e.AddPolicy(r.Name, string(perm)); err != nil {
				return fmt.Errorf("rbac policy %s: %w", r.Name, err)
			}
		}
		for _, parent := range r.Inherits {
			if _, err := e.AddGroupingPolicy(r.Name, parent); err != nil {
				return fmt.Errorf("rbac inherit %s: %w", r.Name, err)
			}
		}
	}
	sort.Strings(names)
	p.mu.Lock()
	p.enforcer = e
	p.roles = names
	p.mu.Unlock()
	return nil
}
