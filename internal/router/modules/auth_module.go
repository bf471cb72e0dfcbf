package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-users-api/internal/interface/http"
	"github.com/oksasatya/go-ddd-users-api/internal/interface/middleware"
)

// AuthModule routes:
// Public: POST /auth/login, /auth/forgot-password, /auth/reset-password
// Protected: POST /auth/activate-user[/:id], /auth/logout
type AuthModule struct {
	Handler *handlers.AuthHandler
	Tokens  middleware.TokenParser
}

func NewAuthModule(h *handlers.AuthHandler, tokens middleware.TokenParser) *AuthModule {
	return &AuthModule{Handler: h, Tokens: tokens}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/login", m.Handler.Login)
	rg.POST("/auth/forgot-password", m.Handler.ForgotPassword)
	rg.POST("/auth/reset-password", m.Handler.ResetPassword)

	auth := rg.Group("/auth")
	auth.Use(middleware.Auth(m.Tokens))
	{
		auth.POST("/activate-user", m.Handler.ActivateUser)
		auth.POST("/activate-user/:id", m.Handler.ActivateUser)
		auth.POST("/logout", m.Handler.Logout)
	}
}
