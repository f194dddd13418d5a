package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID     uuid.UUID
	ProviderID *uuid.UUID
	Role       string
}

type rawClaims struct {
	UserID     string `json:"user_id"`
	ProviderID string `json:"provider_id,omitempty"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Parse(token string) (*Claims, error) {
	var raw rawClaims
	parsed, err := jwt.ParseWithClaims(token, &raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(raw.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims := &Claims{
		UserID: userID,
		Role:   raw.Role,
	}

	if raw.ProviderID != "" {
		providerID, err := uuid.Parse(raw.ProviderID)
		if err != nil {
			return nil, ErrInvalidToken
		}
		claims.ProviderID = &providerID
	}

	return claims, nil
}
