package rbac

import "testing"

func TestIsKnownPermission(t *testing.T) {
	if !IsKnownPermission(PermProductsManage) {
		t.Fatal("products.manage must be known")
	}
	if IsKnownPermission("custom.permission") {
		t.Fatal("custom.permission must be unknown")
	}
}
