package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/recipe-service/internal/domain"
)

const (
	// RefreshTokenType marks tokens that may be exchanged for a new access token.
	RefreshTokenType = "refresh"

	// minKeyBytes is the minimum decoded secret length accepted for HS256.
	minKeyBytes = 32
)

// ErrInvalidRefreshToken is returned when a token presented for exchange is
// expired, malformed, or not marked as a refresh token.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// Claims describes the JWT payload. Unrecognized claims are ignored on parse;
// the fields here are the only ones this service reads or writes.
type Claims struct {
	UserID    string `json:"userId,omitempty"`
	TokenType string `json:"tokenType,omitempty"`
	jwt.RegisteredClaims
}

// IsRefresh reports whether the claims mark a refresh token.
func (c Claims) IsRefresh() bool {
	return c.TokenType == RefreshTokenType
}

// TokenManager signs and verifies JWT tokens. The signing key is decoded once
// at construction and treated as immutable afterwards, so a single manager is
// safe for concurrent use across requests.
type TokenManager struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager decodes the base64 secret and validates its strength.
// Construction fails fast on a short or undecodable secret so a weak key is a
// startup error rather than a per-request one.
func NewTokenManager(base64Secret string, accessTTL, refreshTTL time.Duration) (*TokenManager, error) {
	key, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("decode jwt secret: %w", err)
	}
	if len(key) < minKeyBytes {
		return nil, fmt.Errorf("jwt secret too short: need at least %d bytes, got %d", minKeyBytes, len(key))
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token ttls must be positive")
	}
	return &TokenManager{
		key:        key,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (tm *TokenManager) AccessTTL() time.Duration {
	return tm.accessTTL
}

// IssueAccessToken signs a short-lived token carrying the user id claim.
func (tm *TokenManager) IssueAccessToken(user *domain.User) (string, time.Time, error) {
	return tm.sign(user.Email, Claims{UserID: user.ID}, tm.accessTTL)
}

// IssueRefreshToken signs a long-lived token marked with the refresh type claim.
func (tm *TokenManager) IssueRefreshToken(user *domain.User) (string, time.Time, error) {
	return tm.sign(user.Email, Claims{UserID: user.ID, TokenType: RefreshTokenType}, tm.refreshTTL)
}

// ReissueAccessFromRefresh exchanges a valid refresh token for a fresh access
// token. The new token gets a new issued-at and expiry; nothing is carried
// over from the refresh token except subject and user id.
func (tm *TokenManager) ReissueAccessFromRefresh(refreshToken string) (string, time.Time, error) {
	if !tm.IsRefreshValid(refreshToken) {
		return "", time.Time{}, ErrInvalidRefreshToken
	}
	claims := tm.ParseClaims(refreshToken)
	return tm.sign(claims.Subject, Claims{UserID: claims.UserID}, tm.accessTTL)
}

func (tm *TokenManager) sign(subject string, claims Claims, ttl time.Duration) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	tokenString, err := token.SignedString(tm.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// parseClaims verifies the signature but not expiry; expiry is checked
// separately so expired tokens still yield their claims.
func (tm *TokenManager) parseClaims(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.key, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ParseClaims decodes and signature-checks the token. Verification failure is
// routine (garbage headers, tampered tokens) so it degrades to zero-value
// claims instead of an error; callers treat the result as anonymous.
func (tm *TokenManager) ParseClaims(tokenStr string) Claims {
	claims, err := tm.parseClaims(tokenStr)
	if err != nil {
		return Claims{}
	}
	return *claims
}

// ExtractSubject returns the token subject, or "" when the token does not verify.
func (tm *TokenManager) ExtractSubject(tokenStr string) string {
	return tm.ParseClaims(tokenStr).Subject
}

// IsExpired reports whether the token expiry has passed. Any decode failure
// or missing expiry counts as expired.
func (tm *TokenManager) IsExpired(tokenStr string) bool {
	claims, err := tm.parseClaims(tokenStr)
	if err != nil || claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Before(tm.now())
}

// IsTokenValid checks the token against the resolved user: the subject must
// exactly match the user's email and the token must not be expired.
func (tm *TokenManager) IsTokenValid(tokenStr string, user *domain.User) bool {
	subject := tm.ExtractSubject(tokenStr)
	return subject != "" && subject == user.Email && !tm.IsExpired(tokenStr)
}

// IsRefreshValid reports whether the token is an unexpired refresh token.
func (tm *TokenManager) IsRefreshValid(tokenStr string) bool {
	if tm.IsExpired(tokenStr) {
		return false
	}
	return tm.ParseClaims(tokenStr).IsRefresh()
}
