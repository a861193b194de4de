package web

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"classtrack/internal/auth"
)

// GetRegister renders the signup form, surfacing any flashed restart message.
func (h *Handler) GetRegister(c *gin.Context) {
	session := sessions.Default(c)
	data := gin.H{}
	if flashes := session.Flashes(); len(flashes) > 0 {
		_ = session.Save()
		data["error"] = flashes[0]
	}
	c.HTML(http.StatusOK, "register.html", data)
}

// PostRegister starts a registration attempt: validates the form, issues an
// OTP, and stashes the pending state in the session.
func (h *Handler) PostRegister(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	confirm := c.PostForm("confirm_password")

	if email == "" || password == "" {
		c.HTML(http.StatusOK, "register.html", gin.H{"error": "Email and password are required"})
		return
	}
	if password != confirm {
		c.HTML(http.StatusOK, "register.html", gin.H{"error": "Passwords do not match"})
		return
	}

	pending, err := h.Auth.StartRegistration(c.Request.Context(), email, password)
	switch {
	case errors.Is(err, auth.ErrEmailRegistered):
		c.Redirect(http.StatusFound, "/login")
		return
	case errors.Is(err, auth.ErrDelivery):
		c.HTML(http.StatusOK, "register.html", gin.H{"error": "Could not send the verification code, please try again"})
		return
	case err != nil:
		c.HTML(http.StatusInternalServerError, "register.html", gin.H{"error": "Something went wrong"})
		return
	}
	otpIssuedTotal.Inc()

	session := sessions.Default(c)
	session.Set(auth.SessionAttemptID, pending.AttemptID)
	session.Set(auth.SessionPendingEmail, pending.Email)
	session.Set(auth.SessionPendingHash, pending.PasswordHash)
	if err := session.Save(); err != nil {
		c.HTML(http.StatusInternalServerError, "register.html", gin.H{"error": "Something went wrong"})
		return
	}
	c.Redirect(http.StatusFound, "/verify-otp")
}

// GetVerify renders the OTP form, bouncing back to register when no attempt
// is pending.
func (h *Handler) GetVerify(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get(auth.SessionPendingEmail) == nil {
		c.Redirect(http.StatusFound, "/register")
		return
	}
	c.HTML(http.StatusOK, "verify_otp.html", gin.H{})
}

// PostVerify checks the submitted code and, on success, creates the verified
// user and logs the session in.
func (h *Handler) PostVerify(c *gin.Context) {
	session := sessions.Default(c)
	pending := auth.Pending{}
	if v, ok := session.Get(auth.SessionAttemptID).(string); ok {
		pending.AttemptID = v
	}
	if v, ok := session.Get(auth.SessionPendingEmail).(string); ok {
		pending.Email = v
	}
	if v, ok := session.Get(auth.SessionPendingHash).(string); ok {
		pending.PasswordHash = v
	}

	user, err := h.Auth.VerifyOTP(c.Request.Context(), pending, c.PostForm("otp"))
	switch {
	case errors.Is(err, auth.ErrNoPending):
		restartRegistration(c, session, "Registration expired, please start again")
		return
	case errors.Is(err, auth.ErrOTPExpired):
		restartRegistration(c, session, "Verification code expired, please register again")
		return
	case errors.Is(err, auth.ErrOTPMismatch):
		c.HTML(http.StatusOK, "verify_otp.html", gin.H{"error": "Incorrect code, try again"})
		return
	case err != nil:
		c.HTML(http.StatusInternalServerError, "verify_otp.html", gin.H{"error": "Something went wrong"})
		return
	}

	clearPending(session)
	session.Set(auth.SessionUserID, user.ID)
	session.Set(auth.SessionUserEmail, user.Email)
	if err := session.Save(); err != nil {
		c.HTML(http.StatusInternalServerError, "verify_otp.html", gin.H{"error": "Something went wrong"})
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

// GetLogin renders the login form.
func (h *Handler) GetLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// PostLogin checks credentials and establishes the session. Failures share one
// generic message.
func (h *Handler) PostLogin(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := h.Auth.Login(c.Request.Context(), email, password)
	if err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{"error": "Invalid email or password"})
		return
	}

	session := sessions.Default(c)
	session.Set(auth.SessionUserID, user.ID)
	session.Set(auth.SessionUserEmail, user.Email)
	if err := session.Save(); err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"error": "Something went wrong"})
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

// PostLogout clears all session state.
func (h *Handler) PostLogout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusFound, "/login")
}

func clearPending(session sessions.Session) {
	session.Delete(auth.SessionAttemptID)
	session.Delete(auth.SessionPendingEmail)
	session.Delete(auth.SessionPendingHash)
}

// restartRegistration drops the dead attempt and bounces back to the register
// form so a refresh cannot re-post a stale code.
func restartRegistration(c *gin.Context, session sessions.Session, message string) {
	clearPending(session)
	session.AddFlash(message)
	_ = session.Save()
	c.Redirect(http.StatusFound, "/register")
}
