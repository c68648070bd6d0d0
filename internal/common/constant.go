package common

// Role names recognized by the access-control layer. Stored verbatim in the
// user record's "role" field.
const (
	RoleAdmin    = "Admin"
	RoleSubAdmin = "Sub Admin"
	RoleManager  = "Manager"
	RoleEmployee = "Employee"
)
