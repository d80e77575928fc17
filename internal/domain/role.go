package domain

// Role is the caller's role as carried in the access token
type Role string

// Roles
const (
	RoleAdmin            Role = "admin"
	RoleContentAuditor   Role = "content_auditor"
	RoleTechnicalAuditor Role = "technical_auditor"
	RoleContributor      Role = "contributor"
	RoleReader           Role = "reader"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleContentAuditor, RoleTechnicalAuditor, RoleContributor, RoleReader:
		return true
	}
	return false
}

// Principal is the authenticated caller
type Principal struct {
	ID   uint64 `json:"id"`
	Role Role   `json:"role"`
}
