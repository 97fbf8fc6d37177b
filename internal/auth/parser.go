package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type profileClaims struct {
	ProfileID string `json:"profile_id"`
	jwt.RegisteredClaims
}

// Parser validates HS256 bearer tokens carrying a profile_id claim.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

// Parse returns the profile id from a signed token.
func (p *Parser) Parse(token string) (uuid.UUID, error) {
	claims := &profileClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	if !parsed.Valid {
		return uuid.Nil, fmt.Errorf("invalid token")
	}

	profileID, err := uuid.Parse(claims.ProfileID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid profile_id claim: %w", err)
	}
	return profileID, nil
}
