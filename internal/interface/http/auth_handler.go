package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-users-api/internal/application"
	"github.com/oksasatya/go-ddd-users-api/pkg/helpers"
	"github.com/oksasatya/go-ddd-users-api/pkg/response"
	"github.com/oksasatya/go-ddd-users-api/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type activateRequest struct {
	ID string `json:"id"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetAccess(c, res.AccessToken, res.Expiration)
	c.JSON(http.StatusOK, res)
}

// ActivateUser takes the user id from the path, or from {"id"} in the body.
func (h *AuthHandler) ActivateUser(c *gin.Context) {
	var req activateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
			return
		}
	}

	v, err := h.Svc.ActivateUser(c.Request.Context(), c.Param("id"), req.ID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// ForgotPassword and ResetPassword accept the request without acting on it.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	response.Success[any](c, http.StatusOK, nil, "password recovery is not available", nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	response.Success[any](c, http.StatusOK, nil, "password reset is not available", nil)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "logged out", nil)
}
