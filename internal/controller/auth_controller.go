package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/placementai/internal/dto"
	"github.com/lshigami/placementai/internal/service"
	"github.com/lshigami/placementai/internal/session"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Home renders the landing page.
func (c *AuthController) Home(ctx *gin.Context) {
	Render(ctx, http.StatusOK, "home.html", gin.H{"Title": "Home"})
}

func (c *AuthController) SignupPage(ctx *gin.Context) {
	Render(ctx, http.StatusOK, "signup.html", gin.H{"Title": "Sign up"})
}

// Signup handles POST /signup.
func (c *AuthController) Signup(ctx *gin.Context) {
	var form dto.CredentialsForm
	if err := ctx.ShouldBind(&form); err != nil {
		log.Warn().Err(err).Msg("Signup: failed to bind form")
	}

	err := c.authService.Signup(ctx.Request.Context(), form.Email, form.Password)
	switch {
	case err == nil:
		RedirectWithFlash(ctx, session.FlashSuccess, "Account created. Please login.", "/login")
	case errors.Is(err, service.ErrMissingCredentials):
		RedirectWithFlash(ctx, session.FlashDanger, "Provide email and password", "/signup")
	case errors.Is(err, service.ErrPasswordTooLong):
		RedirectWithFlash(ctx, session.FlashDanger, "Password must be at most 72 bytes", "/signup")
	case errors.Is(err, service.ErrAccountExists):
		RedirectWithFlash(ctx, session.FlashWarning, "Account already exists. Please login.", "/login")
	default:
		RenderError(ctx, err, "Signup: service error")
	}
}

func (c *AuthController) LoginPage(ctx *gin.Context) {
	Render(ctx, http.StatusOK, "login.html", gin.H{"Title": "Log in"})
}

// Login handles POST /login. Admins land on /admin, everyone else on /upload.
func (c *AuthController) Login(ctx *gin.Context) {
	var form dto.CredentialsForm
	if err := ctx.ShouldBind(&form); err != nil {
		log.Warn().Err(err).Msg("Login: failed to bind form")
	}

	account, err := c.authService.Authenticate(ctx.Request.Context(), form.Email, form.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		session.FromContext(ctx).AddFlash(session.FlashDanger, "Invalid credentials")
		Render(ctx, http.StatusOK, "login.html", gin.H{"Title": "Log in", "Email": form.Email})
		return
	}
	if err != nil {
		RenderError(ctx, err, "Login: service error")
		return
	}

	session.Regenerate(ctx)
	st := session.FromContext(ctx)
	st.Login(account.Email, account.IsAdmin)
	log.Info().Str("email", account.Email).Bool("admin", account.IsAdmin).Msg("User logged in")

	if account.IsAdmin {
		RedirectWithFlash(ctx, session.FlashSuccess, "Logged in successfully", "/admin")
		return
	}
	RedirectWithFlash(ctx, session.FlashSuccess, "Logged in successfully", "/upload")
}

// Logout clears the whole session.
func (c *AuthController) Logout(ctx *gin.Context) {
	session.FromContext(ctx).Clear()
	session.Regenerate(ctx)
	RedirectWithFlash(ctx, session.FlashInfo, "Logged out successfully", "/login")
}
