package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/theetaz/complaint-service/pkg/util"
)

const subjectKey = "auth_subject"

// CredentialGate validates bearer credentials on protected routes. It only
// verifies the token and yields the subject; looking up the principal is the
// caller's responsibility.
type CredentialGate struct {
	tokens *TokenManager
}

// NewCredentialGate constructs the gate.
func NewCredentialGate(tokens *TokenManager) *CredentialGate {
	return &CredentialGate{tokens: tokens}
}

// Handle enforces authentication. The credential is taken from the
// Authorization header, falling back to the token query parameter; when a
// header is present it wins and its scheme must be Bearer. Rejections never
// reach the wrapped handler.
func (g *CredentialGate) Handle(c *fiber.Ctx) error {
	var credential string
	if authHeader := c.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return apperrors.NewUnauthorized("invalid authentication scheme")
		}
		credential = parts[1]
	} else {
		credential = c.Query("token")
	}
	if credential == "" {
		return apperrors.NewUnauthorized("token is missing, please provide a valid token")
	}

	claims := g.tokens.Decode(credential)
	if claims.Subject == "" || claims.ExpiresAt == nil || claims.TokenUse != TokenUseAccess {
		return apperrors.NewUnauthorized("invalid authentication credentials")
	}
	if !time.Now().Before(claims.ExpiresAt.Time) {
		return apperrors.NewTokenExpired("token has expired")
	}

	c.Locals(subjectKey, claims.Subject)
	return c.Next()
}

// SubjectFromContext retrieves the authenticated principal's email.
func SubjectFromContext(c *fiber.Ctx) (string, bool) {
	subject, ok := c.Locals(subjectKey).(string)
	return subject, ok && subject != ""
}
