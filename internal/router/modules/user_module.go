package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-users-api/internal/interface/http"
	"github.com/oksasatya/go-ddd-users-api/internal/interface/middleware"
)

// UserModule routes: POST /users is public sign-up, the rest need a token.
type UserModule struct {
	Handler *handlers.UserHandler
	Tokens  middleware.TokenParser
}

func NewUserModule(h *handlers.UserHandler, tokens middleware.TokenParser) *UserModule {
	return &UserModule{Handler: h, Tokens: tokens}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.POST("/users", m.Handler.Create)

	users := rg.Group("/users")
	users.Use(middleware.Auth(m.Tokens))
	{
		users.GET("", m.Handler.List)
		users.GET("/search", m.Handler.Search)
		users.GET("/:id", m.Handler.Get)
		users.PUT("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Delete)
	}
}
