package jwt

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/event-manager-services/common/errors"
)

// Claims represents JWT claims structure
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Manager signs and validates HS256 tokens
type Manager struct {
	secretKey  []byte
	expiration time.Duration
	now        func() time.Time
}

// NewManager creates a token manager; expiration <= 0 falls back to 7 days
func NewManager(secret string, expiration time.Duration) *Manager {
	if expiration <= 0 {
		expiration = 7 * 24 * time.Hour
	}
	return &Manager{
		secretKey:  []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken generates a JWT token for a user
func (m *Manager) GenerateToken(userID, email string) (string, error) {
	now := m.now()

	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// ValidateToken validates a JWT token and returns claims.
// Failures are *errors.AppError (token expired or invalid token).
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return m.secretKey, nil
	}, jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.TokenExpired().WithCause(err)
		}
		return nil, apperrors.InvalidToken().WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.InvalidToken()
	}

	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, apperrors.InvalidToken().WithDetails("token has no user id")
	}

	return claims, nil
}

// TokenFromHeader returns the second whitespace-separated segment of an
// Authorization header value ("<scheme> <token>"). The scheme is not checked.
func TokenFromHeader(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return "", apperrors.MissingHeader("Authorization")
	}
	return parts[1], nil
}
