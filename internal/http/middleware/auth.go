// README: JWT auth middleware; resolves the caller's identity, role and festival.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	CallerIDKey       = "caller_id"
	CallerRoleKey     = "caller_role"
	CallerFestivalKey = "caller_festival"
)

// Claims is the token payload: Subject carries the caller id.
type Claims struct {
	Role       string `json:"role"`
	FestivalID string `json:"festival_id"`
	jwt.RegisteredClaims
}

// Auth validates the Bearer token and stores the caller in the gin context.
// With an empty secret validation is disabled and identity comes from
// headers, which keeps local development and tests runnable without minting
// tokens.
func Auth(secret string) gin.HandlerFunc {
	if secret == "" {
		return func(c *gin.Context) {
			c.Set(CallerIDKey, c.GetHeader("X-User-ID"))
			c.Set(CallerRoleKey, c.GetHeader("X-User-Role"))
			c.Set(CallerFestivalKey, c.GetHeader("X-Festival-ID"))
			c.Next()
		}
	}

	key := []byte(secret)
	return func(c *gin.Context) {
		claims, err := parseToken(c.GetHeader("Authorization"), key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(CallerIDKey, claims.Subject)
		c.Set(CallerRoleKey, claims.Role)
		c.Set(CallerFestivalKey, claims.FestivalID)
		c.Next()
	}
}

// FestivalScope rejects callers whose festival claim does not match the
// festival in the path. An empty claim (admin tokens, header mode without the
// festival header) is not restricted.
func FestivalScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		claim := c.GetString(CallerFestivalKey)
		if claim != "" && claim != c.Param("festivalID") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden for this festival"})
			return
		}
		c.Next()
	}
}

func parseToken(header string, key []byte) (*Claims, error) {
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == "" || raw == header {
		return nil, errors.New("missing bearer token")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
