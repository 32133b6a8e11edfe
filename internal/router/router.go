// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/matchday/football-news-api/internal/auth"
	"github.com/matchday/football-news-api/internal/config"
	"github.com/matchday/football-news-api/internal/handler"
	"github.com/matchday/football-news-api/internal/middleware"
	"github.com/matchday/football-news-api/internal/model"
)

// Deps carries everything route registration needs.  Redis is optional:
// when nil, rate limiting and response caching are skipped.
type Deps struct {
	Manager  *auth.Manager
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Leagues  *handler.LeagueHandler
	Teams    *handler.TeamHandler
	Matches  *handler.MatchHandler
	News     *handler.NewsHandler
	Comments *handler.CommentHandler
	Redis    *redis.Client
}

// Register attaches all routes to e.  Everything except the health check
// lives under /api and passes through the rate limiter when Redis is up.
func Register(e *echo.Echo, d Deps) {
	e.GET("/health", handler.Health)

	api := e.Group("/api")
	if d.Redis != nil {
		api.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis))
	}

	authed := middleware.Authenticate(d.Manager)
	optional := middleware.OptionalAuthenticate(d.Manager)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	// Session lifecycle.
	ag := api.Group("/auth")
	ag.POST("/register", d.Auth.Register)
	ag.POST("/login", d.Auth.Login)
	ag.POST("/refresh", d.Auth.Refresh)
	ag.POST("/logout", d.Auth.Logout, authed)
	ag.GET("/me", d.Auth.Me, authed)

	// Users.
	api.GET("/users", d.Users.List, authed, adminOnly)
	api.GET("/users/:id", d.Users.Get)
	api.PUT("/users/me", d.Users.UpdateMe, authed)
	api.DELETE("/users/me", d.Users.DeleteMe, authed)

	// Leagues: public reads, admin mutations.
	api.GET("/leagues", d.Leagues.List)
	api.GET("/leagues/:id", d.Leagues.Get)
	api.GET("/leagues/:id/teams", d.Leagues.ListTeams)
	api.POST("/leagues", d.Leagues.Create, authed, adminOnly)
	api.PUT("/leagues/:id", d.Leagues.Update, authed, adminOnly)
	api.DELETE("/leagues/:id", d.Leagues.Delete, authed, adminOnly)

	// Teams: public reads; creation for team and admin accounts, updates
	// for the linked account or an admin, deletion admin-only.
	api.GET("/teams", d.Teams.List)
	api.GET("/teams/:id", d.Teams.Get)
	api.POST("/teams", d.Teams.Create, authed, middleware.RequireRole(model.RoleTeam, model.RoleAdmin))
	api.PUT("/teams/:id", d.Teams.Update, authed)
	api.DELETE("/teams/:id", d.Teams.Delete, authed, adminOnly)

	// Matches: public reads, admin mutations.
	api.GET("/matches", d.Matches.List)
	api.GET("/matches/live", d.Matches.Live)
	api.GET("/matches/:id", d.Matches.Get)
	api.POST("/matches", d.Matches.Create, authed, adminOnly)
	api.PUT("/matches/:id", d.Matches.Update, authed, adminOnly)
	api.DELETE("/matches/:id", d.Matches.Delete, authed, adminOnly)

	// News: hot listings are cached; article detail runs optional auth so
	// authors see their own drafts.
	var cached echo.MiddlewareFunc
	if d.Redis != nil {
		cached = middleware.NewRedisCache(config.LoadCacheConfig(), d.Redis)
	}
	if cached != nil {
		api.GET("/news", d.News.List, cached)
		api.GET("/news/breaking", d.News.Breaking, cached)
	} else {
		api.GET("/news", d.News.List)
		api.GET("/news/breaking", d.News.Breaking)
	}
	api.GET("/news/:id", d.News.Get, optional)
	api.POST("/news", d.News.Create, authed)
	api.PUT("/news/:id", d.News.Update, authed)
	api.DELETE("/news/:id", d.News.Delete, authed)

	// Comments.
	api.GET("/news/:id/comments", d.Comments.ListByNews)
	api.POST("/news/:id/comments", d.Comments.Create, authed)
	api.GET("/comments/:id/replies", d.Comments.Replies)
	api.PUT("/comments/:id", d.Comments.Update, authed)
	api.DELETE("/comments/:id", d.Comments.Delete, authed)
}
