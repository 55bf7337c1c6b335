package service

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/snehn77/Editor/internal/models"
	appErrors "github.com/snehn77/Editor/pkg/errors"
)

// AnonymousUser attributes changes made without an identity.
const AnonymousUser = "Anonymous"

// IdentityService verifies bearer tokens issued by the upstream identity provider.
// The editor never issues tokens itself.
type IdentityService struct {
	secret []byte
	issuer string
}

// NewIdentityService constructs the verifier. An empty secret disables verification.
func NewIdentityService(secret, issuer string) *IdentityService {
	return &IdentityService{secret: []byte(secret), issuer: issuer}
}

// Enabled reports whether tokens can be verified.
func (s *IdentityService) Enabled() bool {
	return s != nil && len(s.secret) > 0
}

// ValidateToken parses and validates an access token returning the claims.
func (s *IdentityService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	if !s.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token verification disabled")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if strings.TrimSpace(claims.Username) == "" {
		claims.Username = claims.Subject
	}
	return claims, nil
}

// ResolveUsername picks the acting user: verified claims first, then the
// name supplied with the request, then AnonymousUser.
func ResolveUsername(claims *models.JWTClaims, supplied string) string {
	if claims != nil && strings.TrimSpace(claims.Username) != "" {
		return strings.TrimSpace(claims.Username)
	}
	if s := strings.TrimSpace(supplied); s != "" {
		return s
	}
	return AnonymousUser
}
