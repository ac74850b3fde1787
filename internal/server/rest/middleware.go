package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/datalyst-app/authd/internal/common"
	"github.com/datalyst-app/authd/internal/server/auth"
)

// subjectKey is the gin context key holding the verified token subject.
const subjectKey = "subject"

// requireToken verifies the bearer session token and stores its subject on
// the request context for downstream handlers.
func (s *Server) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if !strings.HasPrefix(header, common.BearerSchemePrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		token := strings.TrimPrefix(header, common.BearerSchemePrefix)
		subject, err := auth.GetSubjectFromToken(token, s.jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(subjectKey, subject)
		c.Next()
	}
}
