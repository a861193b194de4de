package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/auth"
)

// PostToken exchanges credentials for an HS256 access token.
func (h *Handler) PostToken(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, exp, err := auth.IssueToken(user, h.JWTIssuer, h.JWTKey, h.AccessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"expires_at":   exp.Unix(),
	})
}

// GetStats returns the dashboard view model as JSON.
func (h *Handler) GetStats(c *gin.Context) {
	dash, err := h.Tracker.BuildDashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dash)
}
