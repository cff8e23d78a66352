package auth

import (
	"context"
	"fmt"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access token claims used by the provider
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// JWTVerifier checks access tokens locally with the provider's signing secret
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for HS256 tokens signed with secret
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify validates the token signature and expiry and returns the identity it carries
func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*models.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &models.Identity{ID: claims.Subject, Email: claims.Email}, nil
}
