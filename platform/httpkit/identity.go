// Package httpkit provides JWT-based identity middleware for the chat and
// operator surfaces. This is part of the platform layer and contains no
// business logic.
package httpkit

import (
	"errors"
	"strings"
	"time"

	"hashlife_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// ContextSessionIDKey is the gin context key for the authenticated chat session ID.
	ContextSessionIDKey = "sessionID"
	// ContextOperatorKey is the gin context key marking an authenticated operator.
	ContextOperatorKey = "operator"

	errMissingToken = "missing token"
	errInvalidToken = "invalid token"

	audienceChatSession = "chat-session"
	audienceOperator    = "operator"
)

// NewSessionToken mints a signed token bound to a single chat session.
// The shell presents it on every subsequent call for that session.
func NewSessionToken(secret string, sessionID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID.String(),
		Audience:  jwt.ClaimStrings{audienceChatSession},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// SessionAuth validates the session token and stores the session ID on the
// gin context. The token must match the :id path parameter so one session's
// token cannot drive another session.
func SessionAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := parseBearer(c, secret, audienceChatSession)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": errInvalidToken})
			return
		}

		if pathID := c.Param("id"); pathID != "" && pathID != sessionID {
			c.AbortWithStatusJSON(403, gin.H{"error": "token does not match session"})
			return
		}

		c.Set(ContextSessionIDKey, sessionID)
		c.Next()
	}
}

// OperatorAuth validates operator tokens for the monitoring endpoints.
// When no secret is configured, the admin surface is disabled entirely.
func OperatorAuth(secret string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(404, gin.H{"error": "not found"})
			return
		}

		if _, err := parseBearer(c, secret, audienceOperator); err != nil {
			if log != nil {
				log.HTTPError(c.Request.Method, c.Request.URL.Path, 401, err, c.ClientIP())
			}
			c.AbortWithStatusJSON(401, gin.H{"error": errInvalidToken})
			return
		}

		c.Set(ContextOperatorKey, true)
		c.Next()
	}
}

func parseBearer(c *gin.Context, secret, audience string) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", errors.New(errMissingToken)
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithAudience(audience))
	if err != nil || !token.Valid {
		return "", errors.New(errInvalidToken)
	}

	return claims.Subject, nil
}
