package handlers

import (
	"net/http"

	"burim-estate/internal/auth"
	"burim-estate/internal/logger"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves admin login and logout
type AuthHandler struct {
	credentials  *auth.Credentials
	jwtService   *auth.Service
	secureCookie bool
	log          *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(credentials *auth.Credentials, jwtService *auth.Service, secureCookie bool, log *logger.Logger) *AuthHandler {
	return &AuthHandler{credentials: credentials, jwtService: jwtService, secureCookie: secureCookie, log: log}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the admin credentials and sets the session cookie
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !h.credentials.Verify(req.Username, req.Password) {
		h.log.Warn("[Auth] Failed login for %q from %s", req.Username, c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.jwtService.GenerateToken(req.Username, auth.RoleAdmin)
	if err != nil {
		h.log.Error("[Auth] Failed to generate token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	auth.SetSessionCookie(c, h.jwtService, token, h.secureCookie)
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_in": int(h.jwtService.TTL().Seconds()),
	})
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	auth.ClearSessionCookie(c, h.secureCookie)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
