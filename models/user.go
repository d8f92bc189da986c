package models

import (
	"strings"
	"time"
)

// User represents a local account with a role and a home site.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	Role         string     `json:"role"`
	Site         string     `json:"site"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	DateJoined   time.Time  `json:"date_joined"`
}

// UserForm represents form data for creating a user
type UserForm struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Site     string `json:"site"`
	Password string `json:"password"`
}

// Validate validates the user form data
func (f *UserForm) Validate() []string {
	var errors []string

	if strings.TrimSpace(f.Email) == "" {
		errors = append(errors, "Email is required")
	} else if !strings.Contains(f.Email, "@") {
		errors = append(errors, "Email format is invalid")
	}

	if strings.TrimSpace(f.FullName) == "" {
		errors = append(errors, "Full name is required")
	}

	if !IsValidRole(f.Role) {
		errors = append(errors, "Role must be one of BOSS, HQ_ADMIN, BRANCH_AGENT, ACCOUNTING")
	}

	if !IsValidSite(f.Site) {
		errors = append(errors, "Site must be one of BE, PN, DLA, KIN")
	}

	if len(f.Password) < 8 {
		errors = append(errors, "Password must be at least 8 characters")
	}

	return errors
}

// LoginForm represents login credentials
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the login form data
func (f *LoginForm) Validate() []string {
	var errors []string

	if strings.TrimSpace(f.Email) == "" {
		errors = append(errors, "Email is required")
	}
	if f.Password == "" {
		errors = append(errors, "Password is required")
	}

	return errors
}
