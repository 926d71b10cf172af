package rbac

type Permission string

type Role struct {
	Name        string
	Inherits    []string
	Permissions []Permission
}

const (
	RoleMember        = "member"
	RoleAdministrator = "administrator"
)

const (
	PermProfileView    Permission = "profile.view"
	PermProfileEdit    Permission = "profile.edit"
	PermCheckout       Permission = "orders.checkout"
	PermOrdersView     Permission = "orders.view"
	PermUsersView      Permission = "users.view"
	PermUsersManage    Permission = "users.manage"
	PermRegistrations  Permission = "registrations.manage"
	PermProductsManage Permission = "products.manage"
	PermLogsView       Permission = "logs.view"
	PermSettingsManage Permission = "settings.manage"
)

var permissions = []Permission{
	PermProfileView, PermProfileEdit,
	PermCheckout, PermOrdersView,
	PermUsersView, PermUsersManage, PermRegistrations,
	PermProductsManage,
	PermLogsView,
	PermSettingsManage,
}

var knownPermissionSet = buildPermissionSet()

func buildPermissionSet() map[Permission]struct{} {
	out := make(map[Permission]struct{}, len(permissions))
	for _, p := range permissions {
		out[p] = struct{}{}
	}
	return out
}

func AllPermissions() []Permission {
	out := make([]Permission, len(permissions))
	copy(out, permissions)
	return out
}

func IsKnownPermission(p Permission) bool {
	_, ok := knownPermissionSet[p]
	return ok
}

// Administrators inherit everything a member can do.
var roles = []Role{
	{Name: RoleMember, Permissions: []Permission{PermProfileView, PermProfileEdit, PermCheckout, PermOrdersView}},
	{Name: RoleAdministrator, Inherits: []string{RoleMember}, Permissions: []Permission{PermUsersView, PermUsersManage, PermRegistrations, PermProductsManage, PermLogsView, PermSettingsManage}},
}

func DefaultRoles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}
