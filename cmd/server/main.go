package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/matchday/football-news-api/internal/auth"
	"github.com/matchday/football-news-api/internal/config"
	"github.com/matchday/football-news-api/internal/database"
	"github.com/matchday/football-news-api/internal/handler"
	"github.com/matchday/football-news-api/internal/queue"
	"github.com/matchday/football-news-api/internal/repository"
	"github.com/matchday/football-news-api/internal/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	leagues := repository.NewLeagueRepo(db)
	teams := repository.NewTeamRepo(db)
	matches := repository.NewMatchRepo(db)
	news := repository.NewNewsRepo(db)
	comments := repository.NewCommentRepo(db)

	codec := auth.NewCodec(cfg)
	manager := auth.NewManager(cfg, codec, users, sessions)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Deps{
		Manager:  manager,
		Auth:     handler.NewAuthHandler(manager),
		Users:    handler.NewUserHandler(users, sessions),
		Leagues:  handler.NewLeagueHandler(leagues, teams),
		Teams:    handler.NewTeamHandler(teams, leagues),
		Matches:  handler.NewMatchHandler(matches, leagues, teams),
		News:     handler.NewNewsHandler(news),
		Comments: handler.NewCommentHandler(comments, news),
		Redis:    rdb,
	})

	go func() {
		if err := queue.StartNewsConsumer(); err != nil {
			log.Printf("news consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
