package models

import "github.com/golang-jwt/jwt/v5"

// Actor roles carried in the JWT role claim.
const (
	RoleUser    = "user"
	RoleCaptain = "captain"
	RoleAdmin   = "admin"
)

type JwtCustomClaims struct {
	ActorID string `json:"actorID"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}
