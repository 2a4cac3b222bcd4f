package http

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"streamhub/internal/app/adapters/http/handlers"
	"streamhub/internal/app/adapters/http/middlewares"
	"streamhub/internal/app/infrastructure/config"
	"streamhub/pkg/logger"
)

type Router struct {
	router      *gin.Engine
	handlers    *handlers.Handlers
	middlewares *middlewares.Middlewares

	log     logger.Logger
	manager *config.Manager
}

func NewRouter(log logger.Logger, manager *config.Manager, deps handlers.Deps) *Router {
	cfg := manager.Get()
	gin.SetMode(cfg.App.GinMode)

	r := &Router{
		router:      gin.Default(),
		handlers:    handlers.New(log, manager, deps),
		middlewares: middlewares.New(),
		log:         log,
		manager:     manager,
	}

	pprofGroup := r.router.Group("/", gin.BasicAuth(gin.Accounts{
		"admin": cfg.App.AuthToken,
	}))
	pprof.Register(pprofGroup)

	r.router.GET("/metrics", gin.BasicAuth(gin.Accounts{
		"admin": cfg.App.AuthToken,
	}), gin.WrapH(promhttp.Handler()))

	api := r.router.Group("/api")
	{
		api.GET("/twitch/streams-by-game", r.handlers.TwitchStreamsHandler)
		api.GET("/trovo/streams-by-game", r.handlers.TrovoStreamsHandler)
		api.GET("/categories", r.handlers.CategoriesHandler)

		auth := api.Group("/auth")
		{
			auth.GET("/me", r.handlers.MeHandler)
			auth.GET("/twitch/login", r.handlers.LoginHandler)
			auth.GET("/twitch/callback", r.handlers.CallbackHandler)
			auth.GET("/twitch/follows", r.handlers.FollowsHandler)
			auth.GET("/twitch/validate", r.handlers.ValidateHandler)
			auth.GET("/twitch/user", r.handlers.UserHandler)
			auth.POST("/twitch/logout", r.handlers.LogoutHandler)
		}

		api.GET("/state", r.handlers.StateHandler)
		api.GET("/directory", r.handlers.DirectoryHandler)
		api.GET("/multiview/layout", r.handlers.LayoutHandler)
		api.GET("/multiview/embed", r.handlers.EmbedHandler)
		api.GET("/status", r.handlers.StatusHandler)

		state := api.Group("/state")
		{
			state.POST("/assign", r.handlers.AssignHandler)
			state.POST("/clear", r.handlers.ClearSlotHandler)
			state.POST("/target", r.handlers.TargetSlotHandler)
			state.POST("/select", r.handlers.SelectSlotHandler)
			state.POST("/active", r.handlers.ActiveSlotHandler)
			state.POST("/hover", r.handlers.HoverSlotHandler)
			state.POST("/focus", r.handlers.FocusHandler)
			state.POST("/dock", r.handlers.DockHandler)
			state.POST("/filters", r.handlers.FiltersHandler)
			state.POST("/followed-filter", r.handlers.FollowedFilterHandler)
			state.POST("/categories/tag", r.handlers.ToggleTagFilterHandler)
			state.POST("/categories/clear-tags", r.handlers.ClearTagFiltersHandler)
			state.POST("/categories/sort", r.handlers.CategoriesSortHandler)
			state.POST("/navigate", r.handlers.NavigateHandler)
		}

		admin := api.Group("/admin", r.middlewares.Auth(cfg.App.AuthToken))
		{
			admin.POST("/refresh", r.handlers.RefreshHandler)
		}
	}

	for _, route := range []string{"/", "/multiview", "/categories", "/categories/:id"} {
		r.router.GET(route, r.handlers.ViewHandler)
	}

	r.router.GET("/ws", r.handlers.WSHandler)

	return r
}

func (r *Router) Run() error {
	return r.router.Run(r.manager.Get().App.Listen)
}
