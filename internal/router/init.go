package router

import (
	"github.com/oksasatya/go-ddd-users-api/internal/container"
	handlers "github.com/oksasatya/go-ddd-users-api/internal/interface/http"
	"github.com/oksasatya/go-ddd-users-api/internal/router/modules"
)

// InitModules builds the HTTP handlers from c and registers their modules.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config

	auth := handlers.NewAuthHandler(c.Auth, c.Logger, cfg.CookieDomain, cfg.CookieSecure)
	users := handlers.NewUserHandler(c.People, c.Logger)
	roles := handlers.NewRoleHandler(c.Access, c.Logger)

	r.Add(modules.NewAuthModule(auth, c.Tokens))
	r.Add(modules.NewUserModule(users, c.Tokens))
	r.Add(modules.NewRoleModule(roles, c.Tokens))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
