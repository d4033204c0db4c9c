package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nileshswami544-code/freelancerpayment/internal/auth"
	q "github.com/nileshswami544-code/freelancerpayment/internal/queue"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth *auth.Service
	opts Options
}

func NewAuthHandler(svc *auth.Service, opts Options) *AuthHandler {
	return &AuthHandler{Auth: svc, opts: opts.withDefaults()}
}

// ----- DTOs -----

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signupResp struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

type loginResp struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Signup handles POST /api/signup.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req credentialsReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := h.opts.dbContext(c)
	defer cancel()

	f, err := h.Auth.Register(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}
	h.opts.publish(c, f.ID, "freelancer", q.ActionCreated, f.ID)
	return c.JSON(http.StatusCreated, signupResp{ID: f.ID, Username: f.Username})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := h.opts.dbContext(c)
	defer cancel()

	tok, err := h.Auth.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResp{Token: tok.Value, ExpiresAt: tok.ExpiresAt})
}

// Me returns the authenticated principal id.
func (h *AuthHandler) Me(c echo.Context) error {
	pid, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"principalId": pid})
}
