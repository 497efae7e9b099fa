package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Papéis aceitos nos tokens de acesso
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

type Claims struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}
