package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-booking-web/internal/api"
	"github.com/iliyamo/cinema-booking-web/internal/auth"
	"github.com/iliyamo/cinema-booking-web/internal/middleware"
)

// AuthHandler bundles the session manager for sign-in endpoints.
type AuthHandler struct {
	Auth *auth.Manager
}

func NewAuthHandler(m *auth.Manager) *AuthHandler {
	return &AuthHandler{Auth: m}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type resumeReq struct {
	Token string `json:"token"`
}

type sessionResp struct {
	SessionID string   `json:"session_id"`
	User      api.User `json:"user"`
}

// Login handles POST /v1/auth/login.  Credentials go straight to the
// backend; on success a session id is issued for the browser to present on
// subsequent requests.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}
	s, err := h.Auth.SignIn(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusOK, sessionResp{SessionID: s.ID, User: s.User})
}

// Resume handles POST /v1/auth/resume: the startup credential probe.  A
// bearer token remembered by the browser is validated against the profile
// endpoint and exchanged for a fresh session id.
func (h *AuthHandler) Resume(c echo.Context) error {
	var req resumeReq
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}
	s, err := h.Auth.Resume(c.Request().Context(), req.Token)
	if err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusOK, sessionResp{SessionID: s.ID, User: s.User})
}

// Register handles POST /v1/auth/register.  Verification email delivery is
// the backend's concern; the client only relays the outcome.
func (h *AuthHandler) Register(c echo.Context) error {
	var req api.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email/password required"})
	}
	if err := h.Auth.Register(c.Request().Context(), req); err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"registered": true})
}

// Logout handles POST /v1/auth/logout.  Always succeeds locally.
func (h *AuthHandler) Logout(c echo.Context) error {
	s, ok := middleware.SessionFrom(c)
	if ok {
		h.Auth.SignOut(c.Request().Context(), s.ID)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /v1/me and returns the signed-in user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, s.User)
}

type verifyReq struct {
	Email string `json:"email"`
	Code  string `json:"verification_code"`
}

// Verify handles POST /v1/auth/verify: account activation with the code the
// backend emailed at registration.  Runs without a session, the account
// cannot sign in yet.
func (h *AuthHandler) Verify(c echo.Context) error {
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Code) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and verification code required"})
	}
	if err := h.Auth.Verify(c.Request().Context(), req.Email, req.Code); err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"verified": true})
}

// ForgotPassword handles POST /v1/auth/forgot-password.  The backend sends
// the reset code and answers identically for known and unknown addresses.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}
	if err := h.Auth.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"sent": true})
}

type resetPasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ResetPassword handles POST /v1/auth/reset-password for a signed-in user.
// Password strength and current-password checks belong to the backend;
// rejections relay verbatim.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	s, _ := middleware.SessionFrom(c)
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "current and new password required"})
	}
	if err := h.Auth.Client(s).ResetPassword(c.Request().Context(), req.CurrentPassword, req.NewPassword); err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reset": true})
}

// UpdateProfile handles PUT /v1/me.  Fields absent from the body keep their
// stored value.  The session's cached profile is refreshed afterwards so
// the next GET /v1/me reflects the edit.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	s, _ := middleware.SessionFrom(c)
	var req api.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()
	if err := h.Auth.Client(s).UpdateProfile(ctx, req); err != nil {
		return relayError(c, err)
	}
	if err := h.Auth.RefreshProfile(ctx, s); err != nil {
		logrus.WithError(err).Warn("profile refresh after update failed")
	}
	return c.JSON(http.StatusOK, s.User)
}
