package authorization

// RoleKind is the variant tag of RoleClass.
type RoleKind string

const (
	KindRequester  RoleKind = "requester"
	KindContractor RoleKind = "contractor"
	KindAdmin      RoleKind = "admin"
)

// RoleClass collapses the raw roles into the three classes the ticket
// workflow distinguishes. An Admin may be limited to one department; a nil
// scope administers every department.
type RoleClass struct {
	Kind            RoleKind
	DepartmentScope *Department
}

func Requester() RoleClass  { return RoleClass{Kind: KindRequester} }
func Contractor() RoleClass { return RoleClass{Kind: KindContractor} }

// Admin returns an admin class. Pass nil for an unscoped admin.
func Admin(scope *Department) RoleClass {
	return RoleClass{Kind: KindAdmin, DepartmentScope: scope}
}

// Class maps a raw role to its role class.
func (r UserRole) Class() RoleClass {
	switch r {
	case RoleSuperAdmin, RoleTenantAdmin:
		return Admin(nil)
	case RoleContractor:
		return Contractor()
	}
	if dept, ok := departmentByAdminRole[r]; ok {
		return Admin(&dept)
	}
	return Requester()
}

func (c RoleClass) IsAdmin() bool      { return c.Kind == KindAdmin }
func (c RoleClass) IsRequester() bool  { return c.Kind == KindRequester }
func (c RoleClass) IsContractor() bool { return c.Kind == KindContractor }

// Administers reports whether an admin class covers the given department.
func (c RoleClass) Administers(dept Department) bool {
	if !c.IsAdmin() {
		return false
	}
	return c.DepartmentScope == nil || *c.DepartmentScope == dept
}

func (c RoleClass) String() string {
	if c.IsAdmin() && c.DepartmentScope != nil {
		return string(c.Kind) + ":" + string(*c.DepartmentScope)
	}
	return string(c.Kind)
}
