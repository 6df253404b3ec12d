package authorization

import "strings"

type UserRole string

const (
	RoleSuperAdmin       UserRole = "SUPER_ADMIN"
	RoleTenantAdmin      UserRole = "TENANT_ADMIN"
	RoleITAdmin          UserRole = "IT_ADMIN"
	RoleSalesAdmin       UserRole = "SALES_ADMIN"
	RoleRetailAdmin      UserRole = "RETAIL_ADMIN"
	RoleMaintenanceAdmin UserRole = "MAINTENANCE_ADMIN"
	RoleProjectsAdmin    UserRole = "PROJECTS_ADMIN"
	RoleEndUser          UserRole = "END_USER"
	RoleContractor       UserRole = "CONTRACTOR"
)

// Department partitions tickets between the department-scoped admin roles.
type Department string

const (
	DepartmentGeneral     Department = "GENERAL"
	DepartmentIT          Department = "IT"
	DepartmentSales       Department = "SALES"
	DepartmentRetail      Department = "RETAIL"
	DepartmentMaintenance Department = "MAINTENANCE"
	DepartmentProjects    Department = "PROJECTS"
)

var validDepartments = map[Department]bool{
	DepartmentGeneral:     true,
	DepartmentIT:          true,
	DepartmentSales:       true,
	DepartmentRetail:      true,
	DepartmentMaintenance: true,
	DepartmentProjects:    true,
}

func (d Department) IsValid() bool {
	return validDepartments[d]
}

// ParseDepartment normalizes user input; empty means GENERAL.
func ParseDepartment(s string) (Department, bool) {
	if s == "" {
		return DepartmentGeneral, true
	}
	d := Department(strings.ToUpper(s))
	return d, d.IsValid()
}

var departmentByAdminRole = map[UserRole]Department{
	RoleITAdmin:          DepartmentIT,
	RoleSalesAdmin:       DepartmentSales,
	RoleRetailAdmin:      DepartmentRetail,
	RoleMaintenanceAdmin: DepartmentMaintenance,
	RoleProjectsAdmin:    DepartmentProjects,
}

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleTenantAdmin, RoleEndUser, RoleContractor:
		return true
	}
	_, scoped := departmentByAdminRole[r]
	return scoped
}

func (r UserRole) IsAdmin() bool {
	return r.Class().IsAdmin()
}

// IsBillingAdmin reports roles allowed to manage the tenant subscription.
func (r UserRole) IsBillingAdmin() bool {
	return r == RoleSuperAdmin || r == RoleTenantAdmin
}

func ParseUserRole(s string) (UserRole, bool) {
	role := UserRole(strings.ToUpper(s))
	return role, role.IsValid()
}
