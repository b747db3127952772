package models

// RoleType defines the role derived from a login email
type RoleType string

const (
	RoleFaculty RoleType = "faculty"
	RoleStudent RoleType = "student"
	RoleInvalid RoleType = "invalid"
)
