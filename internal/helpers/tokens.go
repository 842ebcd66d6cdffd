package helpers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

// TokenClaims is the payload carried by access and refresh tokens.
// The jti (RegisteredClaims.ID) doubles as the revocation key.
type TokenClaims struct {
	UserID string `json:"_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// SignToken issues an HS256 token with a fresh uuid jti.
func SignToken(userID, email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyToken checks signature and expiry and returns the claims.
func VerifyToken(tokenStr, secret string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

// GoogleClaims is the subset of a Google ID token this service needs.
type GoogleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	jwt.RegisteredClaims
}

// GoogleTokenVerifier validates Google-issued ID tokens against the
// Google JWKS endpoint. The key set is fetched once and refreshed in
// the background rather than on every verification.
type GoogleTokenVerifier struct {
	clientID string
	jwksURL  string

	mu   sync.Mutex
	jwks *keyfunc.JWKS
}

func NewGoogleTokenVerifier(clientID string) *GoogleTokenVerifier {
	return &GoogleTokenVerifier{clientID: clientID, jwksURL: googleJWKSURL}
}

// keys returns the cached JWKS, fetching it on first use. A failed
// fetch is not cached, so the next verification retries.
func (v *GoogleTokenVerifier) keys() (*keyfunc.JWKS, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.jwks != nil {
		return v.jwks, nil
	}
	jwks, err := keyfunc.Get(v.jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Google JWKS: %v", err)
	}
	v.jwks = jwks
	return jwks, nil
}

func (v *GoogleTokenVerifier) Verify(ctx context.Context, credential string) (*GoogleClaims, error) {
	jwks, err := v.keys()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(credential, &GoogleClaims{}, jwks.Keyfunc,
		jwt.WithAudience(v.clientID),
		jwt.WithIssuer("https://accounts.google.com"),
	)
	if err != nil {
		return nil, fmt.Errorf("google token validation failed: %v", err)
	}
	claims, ok := token.Claims.(*GoogleClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid google token claims")
	}
	return claims, nil
}
