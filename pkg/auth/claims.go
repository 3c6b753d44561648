package auth

import (
	"github.com/angelmondragon/orderdesk/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Username string
	Role     enums.Role
	Branch   string
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued by the login service.
type AccessTokenClaims struct {
	Username string     `json:"username"`
	Role     enums.Role `json:"role"`
	Branch   string     `json:"branch,omitempty"`
	jwt.RegisteredClaims
}
