package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/placementai/internal/session"
	"github.com/rs/zerolog/log"
)

// Render writes an HTML page. Every page gets the caller's identity and the
// flashes queued so far; rendering consumes the flashes.
func Render(ctx *gin.Context, status int, page string, data gin.H) {
	st := session.FromContext(ctx)
	if data == nil {
		data = gin.H{}
	}
	data["User"] = st.UserEmail
	data["IsAdmin"] = st.IsAdmin
	data["Flashes"] = st.PopFlashes()
	ctx.HTML(status, page, data)
}

// RedirectWithFlash queues a flash message and redirects with 302.
func RedirectWithFlash(ctx *gin.Context, category, message, location string) {
	session.FromContext(ctx).AddFlash(category, message)
	ctx.Redirect(http.StatusFound, location)
}

// RenderError logs err and renders the generic error page.
func RenderError(ctx *gin.Context, err error, msg string) {
	log.Error().Err(err).Str("path", ctx.Request.URL.Path).Msg(msg)
	Render(ctx, http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Error",
		"Message": "We could not complete your request. Please try again later.",
	})
}
