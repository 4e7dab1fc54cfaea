package core

// Well-known permissions
const (
	PermissionViewMigrateReports  = "view migrate reports"
	PermissionAdministerMigration = "administer migrations"
)

// AccessChecker answers permission questions for the current caller
type AccessChecker interface {
	HasPermission(permission string) bool
}

// PermissionSet is an AccessChecker backed by a fixed list of permissions
type PermissionSet map[string]struct{}

// NewPermissionSet builds a PermissionSet from a list of permission names
func NewPermissionSet(permissions ...string) PermissionSet {
	set := make(PermissionSet, len(permissions))
	for _, p := range permissions {
		set[p] = struct{}{}
	}
	return set
}

// HasPermission reports whether the permission is in the set
func (s PermissionSet) HasPermission(permission string) bool {
	_, ok := s[permission]
	return ok
}
