package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-users-api/internal/interface/http"
	"github.com/oksasatya/go-ddd-users-api/internal/interface/middleware"
)

type RoleModule struct {
	Handler *handlers.RoleHandler
	Tokens  middleware.TokenParser
}

func NewRoleModule(h *handlers.RoleHandler, tokens middleware.TokenParser) *RoleModule {
	return &RoleModule{Handler: h, Tokens: tokens}
}

func (m *RoleModule) Register(rg *gin.RouterGroup) {
	roles := rg.Group("/roles")
	roles.Use(middleware.Auth(m.Tokens))
	{
		roles.POST("", m.Handler.Create)
		roles.GET("", m.Handler.List)
		roles.GET("/:id", m.Handler.Get)
		roles.GET("/:id/permissions", m.Handler.Permissions)
	}
}
