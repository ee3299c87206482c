// internal/domain/models/resolve.go
package models

// Resolved club-scoped roles. A member's effective role in a club is
// derived from their account type plus the membership tier they occupy;
// admins resolve to RoleAdmin regardless of club membership.
const (
	RoleAdmin = "admin"
	RoleNone  = ""
)

// ResolveRole computes a user's effective role within a club.
// Returns RoleNone if the user is neither an admin nor present in any
// of the club's tiers.
func ResolveRole(u *User, c *Club) string {
	if u.Type == TypeAdmin {
		return RoleAdmin
	}
	for _, s := range c.Members.Students {
		if s == u.Email {
			return RoleStudent
		}
	}
	for _, o := range c.Members.Officers {
		if o == u.Email {
			return RoleOfficer
		}
	}
	for _, a := range c.Members.Advisors {
		if a == u.Email {
			return RoleAdvisor
		}
	}
	return RoleNone
}
