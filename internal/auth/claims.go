package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// purposeActivation marks a token that may only activate an account.
// Session tokens carry no purpose; the two are never interchangeable.
const purposeActivation = "activation"

// defaultTokenTTLHours is one week, the session token lifetime used
// when configuration does not override it.
const defaultTokenTTLHours = 168

// Claims extends JWT registered claims with Feedgate-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"user_id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	IsAdmin  bool   `json:"is_admin"`
	Purpose  string `json:"purpose,omitempty"`
}

// GenerateToken creates a signed session token for a user.
// Session tokens are validated by signature only (no DB hit per request).
func GenerateToken(user *User, secret string, ttlHours int) (string, error) {
	if ttlHours <= 0 {
		ttlHours = defaultTokenTTLHours
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlHours) * time.Hour)),
			ID:        uuid.NewString(),
		},
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// GenerateActivationToken creates a short-lived token that can only be
// used to activate the given account.
func GenerateActivationToken(userID int64, secret string, ttlHours int) (string, error) {
	if ttlHours <= 0 {
		ttlHours = 24
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlHours) * time.Hour)),
			ID:        uuid.NewString(),
		},
		UserID:  userID,
		Purpose: purposeActivation,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing activation token: %w", err)
	}
	return signed, nil
}

// ParseActivationToken validates an activation token and returns the
// account it activates. Session tokens are rejected.
func ParseActivationToken(tokenString, secret string) (int64, error) {
	claims, err := parseClaims(tokenString, secret)
	if err != nil {
		return 0, err
	}
	if claims.Purpose != purposeActivation {
		return 0, fmt.Errorf("%w: not an activation token", ErrTokenInvalid)
	}
	return claims.UserID, nil
}

// parseClaims validates signature and expiry, returning the claims.
// Expiry is reported distinctly so callers can phrase it separately.
func parseClaims(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.UserID == 0 {
		return nil, fmt.Errorf("%w: missing user id", ErrTokenInvalid)
	}

	return claims, nil
}
