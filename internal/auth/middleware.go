package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CookieName is the session cookie set by the login route
const CookieName = "admin_token"

// ContextKeyUser holds the authenticated admin username
const ContextKeyUser = "admin_user"

// AuthMiddleware accepts the session cookie or an Authorization bearer token
// carrying the admin role. A cookie that fails validation does not hide a
// valid bearer token.
func AuthMiddleware(jwtService *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		candidates := tokensFromRequest(c)
		if len(candidates) == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		for _, token := range candidates {
			claims, err := jwtService.ValidateToken(token)
			if err != nil || claims.Role != RoleAdmin {
				continue
			}
			c.Set(ContextKeyUser, claims.Username)
			c.Next()
			return
		}

		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		c.Abort()
	}
}

// tokensFromRequest returns the cookie token then the bearer token, skipping
// whichever is absent.
func tokensFromRequest(c *gin.Context) []string {
	var tokens []string
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		tokens = append(tokens, cookie)
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		if token := strings.TrimSpace(parts[1]); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// SetSessionCookie stores token in an httpOnly cookie for the token lifetime
func SetSessionCookie(c *gin.Context, jwtService *Service, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(jwtService.TTL().Seconds()), "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}
