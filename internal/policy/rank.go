package policy

import "github.com/diwan-maarifa/diwan-backend/internal/domain"

var roleRanks = map[domain.Role]int{
	domain.RoleAdmin:            5,
	domain.RoleContentAuditor:   4,
	domain.RoleTechnicalAuditor: 4,
	domain.RoleContributor:      3,
	domain.RoleReader:           1,
}

// RoleRank returns the rank of role; unknown roles rank 0
func RoleRank(role domain.Role) int {
	return roleRanks[role]
}

// HasRole reports whether role ranks at least as high as required.
// Only for feature gating; transitions use the stage table.
func HasRole(role, required domain.Role) bool {
	return RoleRank(role) >= RoleRank(required)
}
