package rbac

import "testing"

func TestPolicyAllowed_DefaultRoles(t *testing.T) {
	p := NewPolicy(DefaultRoles())

	if !p.Allowed([]string{RoleAdministrator}, PermUsersManage) {
		t.Fatal("administrator must have users.manage")
	}
	if !p.Allowed([]string{RoleAdministrator}, PermCheckout) {
		t.Fatal("administrator must inherit orders.checkout from member")
	}
	if p.Allowed([]string{RoleMember}, PermUsersManage) {
		t.Fatal("member must not have users.manage")
	}
	if !p.Allowed([]string{RoleMember}, PermProfileEdit) {
		t.Fatal("member must have profile.edit")
	}
	if p.Allowed(nil, PermProfileView) {
		t.Fatal("no roles must grant nothing")
	}
}

func TestPolicyReplace_RebuildsEnforcer(t *testing.T) {
	p := NewPolicy(nil)
	if err := p.Replace([]Role{{Name: "custom", Permissions: []Permission{PermLogsView}}}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if !p.Allowed([]string{"custom"}, PermLogsView) {
		t.Fatal("custom role must have logs.view")
	}
	if p.Allowed([]string{RoleAdministrator}, PermLogsView) {
		t.Fatal("replaced policy must drop old roles")
	}
}

func TestPermissionsForRoles_UniqueUnion(t *testing.T) {
	p := NewPolicy(DefaultRoles())
	perms := p.PermissionsForRoles([]string{RoleMember, RoleAdministrator})
	if len(perms) != len(AllPermissions()) {
		t.Fatalf("expected %d unique permissions, got %d: %v", len(AllPermissions()), len(perms), perms)
	}
	member := p.PermissionsForRoles([]string{RoleMember})
	if len(member) != 4 {
		t.Fatalf("expected 4 member permissions, got %v", member)
	}
}
