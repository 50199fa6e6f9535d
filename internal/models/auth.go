package models

import "github.com/golang-jwt/jwt/v5"

// UserRole is the application role carried in the access token.
type UserRole string

const (
	RoleAdmin       UserRole = "Admin"
	RoleDirector    UserRole = "Director"
	RoleSubDirector UserRole = "Sub-director"
	RoleCoordinator UserRole = "Coordinador"
	RoleTeacher     UserRole = "Docente"
	RoleAuxiliary   UserRole = "Auxiliar"
)

// JWTClaims is the payload of access tokens issued by the hosted auth provider.
type JWTClaims struct {
	Email        string       `json:"email"`
	Role         string       `json:"role"`
	AppMetadata  UserMetadata `json:"app_metadata"`
	UserMetadata UserMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

// UserMetadata carries the application role assigned to the user.
type UserMetadata struct {
	Role UserRole `json:"rol,omitempty"`
}

// UserID returns the subject of the token.
func (c *JWTClaims) UserID() string {
	return c.Subject
}

// AppRole resolves the application role, preferring app metadata.
func (c *JWTClaims) AppRole() UserRole {
	if c.AppMetadata.Role != "" {
		return c.AppMetadata.Role
	}
	return c.UserMetadata.Role
}
