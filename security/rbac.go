package security

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAttendee  Role = "attendee"
	RoleOrganizer Role = "organizer"
	RoleSpeaker   Role = "speaker"
	RoleSponsor   Role = "sponsor"
	RoleAdmin     Role = "admin"
)

type Permission struct {
	Resource string
	Action   string
}

// Static role-to-permission table. Unknown roles fall back to attendee.
var rolePermissions = map[Role][]Permission{
	RoleAttendee: {
		{"profile", "read"},
		{"profile", "update"},
		{"agenda", "read"},
		{"agenda", "create"},
		{"agenda", "update"},
		{"matchmaking", "read"},
		{"tickets", "purchase"},
		{"tickets", "read"},
	},
	RoleOrganizer: {
		{"profile", "read"},
		{"profile", "update"},
		{"events", "create"},
		{"events", "read"},
		{"events", "update"},
		{"events", "delete"},
		{"sessions", "create"},
		{"sessions", "read"},
		{"sessions", "update"},
		{"sessions", "delete"},
		{"dashboard", "read"},
		{"attendees", "read"},
		{"sponsors", "create"},
		{"sponsors", "read"},
		{"sponsors", "update"},
		{"sponsors", "delete"},
	},
	RoleSpeaker: {
		{"profile", "read"},
		{"profile", "update"},
		{"sessions", "read"},
		{"sessions", "update"}, // only their own sessions
	},
	RoleSponsor: {
		{"profile", "read"},
		{"profile", "update"},
		{"sponsors", "read"},
		{"sponsors", "update"}, // only their own sponsor profile
	},
	RoleAdmin: {
		{"*", "*"},
	},
}

// Route prefixes with restricted roles. Routes without an entry are allowed
// for any authenticated role.
var routeRoles = map[string][]Role{
	"/api/analytics": {RoleOrganizer, RoleAdmin},
	"/api/admin":     {RoleAdmin},
}

// HasPermission is a pure lookup against the static table, with wildcard
// support on resource and action. Admin matches everything.
func HasPermission(role Role, resource, action string) bool {
	if role == RoleAdmin {
		return true
	}

	permissions, ok := rolePermissions[role]
	if !ok {
		permissions = rolePermissions[RoleAttendee]
	}

	for _, p := range permissions {
		if p.Resource == resource && p.Action == action {
			return true
		}
		if p.Resource == "*" || (p.Resource == resource && p.Action == "*") {
			return true
		}
	}
	return false
}

func RequirePermission(role Role, resource, action string) error {
	if !HasPermission(role, resource, action) {
		return fmt.Errorf("role %q is not allowed to %s %s", role, action, resource)
	}
	return nil
}

func CanAccessRoute(role Role, route string) bool {
	for prefix, allowed := range routeRoles {
		if strings.HasPrefix(route, prefix) {
			for _, r := range allowed {
				if r == role {
					return true
				}
			}
			return false
		}
	}
	return true
}

func RoleFromString(s string) Role {
	switch Role(s) {
	case RoleAttendee, RoleOrganizer, RoleSpeaker, RoleSponsor, RoleAdmin:
		return Role(s)
	}
	return RoleAttendee
}
