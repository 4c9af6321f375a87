package model

import "strings"

// Role is the closed set of account roles recognised by the API.  Every
// authorization decision switches exhaustively over this type instead of
// comparing loose strings in handlers.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleOwner    Role = "OWNER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole normalizes a raw role string into a Role.  Whitespace and case
// are ignored.  "RESTAURANT_OWNER" is accepted as a legacy alias for OWNER
// since older clients still send it.  The second return value reports
// whether the input named a known role.
func ParseRole(raw string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "CUSTOMER":
		return RoleCustomer, true
	case "OWNER", "RESTAURANT_OWNER":
		return RoleOwner, true
	case "ADMIN":
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// CanManageRestaurants reports whether the role may create, update or
// delete restaurants and their tables.
func (r Role) CanManageRestaurants() bool {
	switch r {
	case RoleOwner, RoleAdmin:
		return true
	case RoleCustomer:
		return false
	}
	return false
}

// CanCreateBookings reports whether the role may create bookings on its
// own behalf.  Owners manage restaurants but do not book through the API.
func (r Role) CanCreateBookings() bool {
	switch r {
	case RoleCustomer, RoleAdmin:
		return true
	case RoleOwner:
		return false
	}
	return false
}
