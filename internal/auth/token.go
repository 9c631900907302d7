package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken signals a signature or structural failure.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired signals a structurally valid token past its expiry.
	ErrTokenExpired = errors.New("token has expired")
)

// TokenUse tags the purpose a session token was issued for, so a refresh
// token can never be presented where an access token is expected.
type TokenUse string

const (
	TokenUseAccess  TokenUse = "access"
	TokenUseRefresh TokenUse = "refresh"
)

// Claims describes the JWT payload for session tokens.
type Claims struct {
	TokenUse TokenUse `json:"token_use,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies signed access and refresh tokens. Both
// kinds share one signing mechanism and claim shape; they differ only in
// lifetime and the token_use tag. Safe for concurrent use.
type TokenManager struct {
	secret     []byte
	method     jwt.SigningMethod
	parser     *jwt.Parser
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager builds a manager for the given HMAC algorithm (HS256,
// HS384 or HS512). Non-positive lifetimes fall back to 15 and 1440 minutes.
func NewTokenManager(secret, algorithm string, accessTTLMinutes, refreshTTLMinutes int) (*TokenManager, error) {
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if accessTTLMinutes <= 0 {
		accessTTLMinutes = 15
	}
	if refreshTTLMinutes <= 0 {
		refreshTTLMinutes = 1440
	}
	return &TokenManager{
		secret: []byte(secret),
		method: method,
		// Expiry is judged by callers against the exp claim, so structural
		// decoding must succeed for expired tokens too.
		parser:     jwt.NewParser(jwt.WithValidMethods([]string{method.Alg()}), jwt.WithoutClaimsValidation()),
		accessTTL:  time.Duration(accessTTLMinutes) * time.Minute,
		refreshTTL: time.Duration(refreshTTLMinutes) * time.Minute,
	}, nil
}

// IssueAccess signs a short-lived access token for the subject.
func (tm *TokenManager) IssueAccess(subject string) (string, time.Time, error) {
	return tm.Issue(subject, TokenUseAccess, tm.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for the subject.
func (tm *TokenManager) IssueRefresh(subject string) (string, time.Time, error) {
	return tm.Issue(subject, TokenUseRefresh, tm.refreshTTL)
}

// Issue signs a token with an explicit lifetime.
func (tm *TokenManager) Issue(subject string, use TokenUse, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(tm.method, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Decode verifies the signature and structure of a token and returns its
// claims. Any failure yields an empty claim set rather than an error; callers
// treat a missing sub claim as decode failure and judge expiry themselves.
func (tm *TokenManager) Decode(tokenStr string) *Claims {
	parsed, err := tm.parser.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	})
	if err != nil || !parsed.Valid {
		return &Claims{}
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return &Claims{}
	}
	return claims
}

// ValidateRefresh decodes a refresh token and returns its subject. It fails
// with ErrInvalidToken on signature/structural failure, a missing sub claim
// or a token not issued for refresh use, and with ErrTokenExpired once the
// expiry instant has been reached.
func (tm *TokenManager) ValidateRefresh(tokenStr string) (string, error) {
	claims := tm.Decode(tokenStr)
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return "", ErrInvalidToken
	}
	if claims.TokenUse != TokenUseRefresh {
		return "", ErrInvalidToken
	}
	if !time.Now().Before(claims.ExpiresAt.Time) {
		return "", ErrTokenExpired
	}
	return claims.Subject, nil
}
