package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/timmy/jobtrack/internal/apperr"
	"github.com/timmy/jobtrack/internal/logger"
	"github.com/timmy/jobtrack/internal/tenant"
)

// AuthConfig configures identity token verification.
type AuthConfig struct {
	Secret []byte
	Issuer string // Checked when non-empty
}

// IdentityClaims is the payload of an identity token.
type IdentityClaims struct {
	BusinessID int64  `json:"business_id"`
	Username   string `json:"username"`
	jwt.RegisteredClaims
}

// Auth verifies the bearer token and attaches the caller's identity to the
// request context. Requests without a valid token are answered with 401.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "authentication required")
			return
		}

		claims := &IdentityClaims{}
		_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
			return cfg.Secret, nil
		})
		if err != nil {
			logger.FromContext(c.Request.Context()).WithError(err).Debug("Rejected identity token")
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		if claims.BusinessID <= 0 {
			abortUnauthorized(c, "token carries no business")
			return
		}

		ctx := tenant.WithIdentity(c.Request.Context(), tenant.Identity{
			BusinessID: claims.BusinessID,
			Username:   claims.Username,
		})
		ctx = logger.SetTenant(ctx, claims.BusinessID, claims.Username)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// IssueToken signs an identity token. Tokens are normally issued by the
// account service; this is used by tests and local tooling.
func IssueToken(cfg AuthConfig, businessID int64, username string, ttl time.Duration) (string, error) {
	if len(cfg.Secret) == 0 {
		return "", errors.New("jwt secret is empty")
	}
	now := time.Now()
	claims := IdentityClaims{
		BusinessID: businessID,
		Username:   username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// abortUnauthorized writes the 401 envelope. It mirrors handler.RespondError
// without importing the handler package.
func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success":   false,
		"error":     apperr.CodeUnauthorized,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
