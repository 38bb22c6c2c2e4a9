package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const callerIDKey = "callerID"

// authRequired verifies the bearer token and stashes the authenticated
// user id for handlers. Everything past this middleware can trust
// callerID to be set.
func (s *Server) authRequired(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token not provided"})
		return
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token invalid"})
		return
	}

	c.Set(callerIDKey, userID)
	c.Next()
}

func callerID(c *gin.Context) string {
	return c.GetString(callerIDKey)
}
