package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/placementai/internal/session"
)

const LoginPath = "/login"

// RequireLogin sends anonymous callers to the login page with message.
func RequireLogin(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := session.FromContext(c)
		if !st.Authenticated() {
			st.AddFlash(session.FlashWarning, message)
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin lets only admin sessions through.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		st := session.FromContext(c)
		if !st.Authenticated() || !st.IsAdmin {
			st.AddFlash(session.FlashDanger, "Admin access required")
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
