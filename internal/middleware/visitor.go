package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/darknesspwnsu/tppcnomics-analytics/internal/logger"
)

const (
	visitorCookieName = "visitor_token"
	// VisitorIDKey is the gin context key handlers read the visitor id from.
	VisitorIDKey = "visitor_id"
)

// VisitorMiddleware issues and validates the signed visitor cookie. The id
// inside is an opaque UUID; nothing downstream treats it as an account.
type VisitorMiddleware struct {
	log       *logger.Logger
	secretKey []byte
	cookieTTL time.Duration
}

func NewVisitorMiddleware(log *logger.Logger, secretKey string, cookieTTL time.Duration) *VisitorMiddleware {
	return &VisitorMiddleware{
		log:       log.With("middleware", "VisitorMiddleware"),
		secretKey: []byte(secretKey),
		cookieTTL: cookieTTL,
	}
}

// Identify resolves the visitor id from the cookie, minting a fresh identity
// when the cookie is absent, expired or tampered with.
func (vm *VisitorMiddleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(visitorCookieName); err == nil {
			if visitorID, err := vm.parseToken(raw); err == nil {
				c.Set(VisitorIDKey, visitorID)
				c.Next()
				return
			}
		}

		visitorID := uuid.NewString()
		token, err := vm.signToken(visitorID)
		if err != nil {
			vm.log.Error("failed to sign visitor token", "error", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(visitorCookieName, token, int(vm.cookieTTL.Seconds()), "/", "", false, true)
		c.Set(VisitorIDKey, visitorID)
		c.Next()
	}
}

func (vm *VisitorMiddleware) signToken(visitorID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   visitorID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(vm.cookieTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(vm.secretKey)
}

func (vm *VisitorMiddleware) parseToken(raw string) (string, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return vm.secretKey, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid visitor token: %w", err)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("visitor token missing subject")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("visitor token subject is not a uuid")
	}
	return claims.Subject, nil
}

// VisitorID reads the resolved visitor id off the request context.
func VisitorID(c *gin.Context) string {
	if v, ok := c.Get(VisitorIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
