package user

import (
	"strings"
	"time"
)

// Roles
const (
	RoleRoot      = "root"
	RoleUniAdmin  = "uni_admin"
	RoleProfessor = "professor"
	RoleStudent   = "student"
)

var (
	AllRoles = []string{RoleRoot, RoleUniAdmin, RoleProfessor, RoleStudent}

	rolePriorities = map[string]int{
		RoleRoot:      40,
		RoleUniAdmin:  30,
		RoleProfessor: 20,
		RoleStudent:   10,
	}

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Professor", Value: RoleProfessor},
		{Name: "University Admin", Value: RoleUniAdmin},
		{Name: "Root", Value: RoleRoot},
	}
)

func RolePriority(role string) int {
	return rolePriorities[role]
}

func MaxRolePriority(roles []string) int {
	var max int
	for _, role := range roles {
		if RolePriority(role) > max {
			max = RolePriority(role)
		}
	}
	return max
}

func IsValidRole(role string) bool {
	_, ok := rolePriorities[role]
	return ok
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	IsActive     bool      `json:"is_active"`
	Roles        []string  `json:"roles"`
	UniversityID int       `json:"university_id,omitempty"` // 0 for root users
	CreatedAt    time.Time `json:"created_at"`              // UTC
	UpdatedAt    time.Time `json:"updated_at"`              // UTC
	LastLogin    time.Time `json:"last_login"`              // UTC
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

func (u *User) IsRoot() bool {
	return u.HasRole(RoleRoot)
}

func (u *User) IsUniAdmin() bool {
	return u.HasRole(RoleUniAdmin)
}

func (u *User) IsProfessor() bool {
	return u.HasRole(RoleProfessor)
}

func (u *User) IsStudent() bool {
	return u.HasRole(RoleStudent)
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string   `json:"name" validate:"required"`
	Username        string   `json:"username" validate:"omitempty,min=6,alphanum"`
	Email           string   `json:"email" validate:"required,email"`
	Password        string   `json:"password" validate:"required"`
	PasswordConfirm string   `json:"password_confirm" validate:"required,eqfield=Password"`
	Roles           []string `json:"roles" validate:"omitempty,allroles"`
	UniversityID    int      `json:"university_id,omitempty"`
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Name     string   `json:"name,omitempty"`
	Username string   `json:"username,omitempty" validate:"omitempty,min=6,alphanum"`
	Email    string   `json:"email,omitempty" validate:"omitempty,email"`
	IsActive *bool    `json:"is_active,omitempty"`
	Roles    []string `json:"roles,omitempty" validate:"omitempty,allroles"`
}
