package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yigit/examseating/internal/app/models"
	"github.com/yigit/examseating/internal/pkg/apperrors"
)

// Session keys
const (
	SessionKeyEmail = "email"
	SessionKeyRole  = "role"
)

// ContextKeyEmail holds the signed-in email on the gin context
const ContextKeyEmail = "email"

// ErrInvalidCredentials is returned to callers without a faculty session
var ErrInvalidCredentials = apperrors.NewForbiddenError("Invalid credentials")

// FacultyRequired aborts with 403 unless the session carries the faculty role
func FacultyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		role, _ := session.Get(SessionKeyRole).(string)
		if role != string(models.RoleFaculty) {
			HandleAPIError(c, ErrInvalidCredentials)
			c.Abort()
			return
		}

		if email, ok := session.Get(SessionKeyEmail).(string); ok {
			c.Set(ContextKeyEmail, email)
		}
		c.Next()
	}
}

// FacultyRequiredIf applies FacultyRequired only when enabled is true
func FacultyRequiredIf(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return FacultyRequired()
}
