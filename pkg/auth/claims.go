package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/tvshop-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.Role
	// JTI doubles as the cart session id. A fresh one is generated when empty.
	JTI string
}

// AccessTokenClaims is the wire form of an access token. The user id travels
// in the standard "sub" claim.
type AccessTokenClaims struct {
	Role enums.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity is what a verified token says about its bearer.
type Identity struct {
	UserID    uuid.UUID
	Role      enums.Role
	SessionID string
	ExpiresAt time.Time
}
