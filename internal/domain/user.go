package domain

import "strings"

type UserRole string

const (
	UserRoleFarmer         UserRole = "farmer"
	UserRoleLandowner      UserRole = "landowner"
	UserRoleEquipmentOwner UserRole = "equipment_owner"
)

// Valid reports whether r is one of the marketplace roles
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleFarmer, UserRoleLandowner, UserRoleEquipmentOwner:
		return true
	}
	return false
}

type User struct {
	ID        int32    `json:"user_id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Role      UserRole `json:"user_type"`
}

// DisplayName returns "first last", falling back to the email address
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	return u.Email
}

// Viewer is the acting user. Classification and aggregation are always
// relative to a viewer.
type Viewer struct {
	ID   int32
	Role UserRole
}
