package auth

import (
	"github.com/carewell/carebook-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	SubjectID uuid.UUID
	Role      enums.ActorRole
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients. SubjectID is
// a customer id for member tokens and an operator id for admin tokens.
type AccessTokenClaims struct {
	SubjectID uuid.UUID       `json:"subject_id"`
	Role      enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}
