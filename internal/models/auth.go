package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserRole represents the workflow roles recognised by the licence service.
type UserRole string

const (
	RoleCA    UserRole = "CA"
	RoleRO    UserRole = "RO"
	RoleDM    UserRole = "DM"
	RoleAdmin UserRole = "ADMIN"
)

// Valid reports whether the role is known.
func (r UserRole) Valid() bool {
	switch r {
	case RoleCA, RoleRO, RoleDM, RoleAdmin:
		return true
	}
	return false
}

// JWTClaims represents the JWT payload issued by the sign-in service.
type JWTClaims struct {
	Username string   `json:"user_name"`
	Role     UserRole `json:"role"`
	FullName string   `json:"full_name,omitempty"`
	jwt.RegisteredClaims
}
