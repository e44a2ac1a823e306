// @title Stride API
// @description API for habit-tracker app "Stride"
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"

	"github.com/strideapp/stride/internal/api"
	"github.com/strideapp/stride/internal/repository"
	"github.com/strideapp/stride/internal/service"
	"github.com/strideapp/stride/pkg/cleanup"
	"github.com/strideapp/stride/pkg/config"
	jwtservice "github.com/strideapp/stride/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	clock, err := service.NewLocationClock(cfg.GetStringDefault("APP_TIMEZONE", "UTC"))
	if err != nil {
		log.Fatal("clock setup error: " + err.Error())
	}
	habitsRepo := repository.NewHabitsRepo(&dbCfg)
	completionsRepo := repository.NewCompletionsRepo(&dbCfg)
	userService := service.NewUserService(repository.NewUsersRepo(&dbCfg))
	habitsService := service.NewHabitsService(habitsRepo, clock)
	completionsService := service.NewCompletionsService(habitsRepo, completionsRepo, clock)
	statsService := service.NewStatsService(habitsRepo, completionsRepo)
	serv := api.New(&api.ServicesList{
		UserService:        userService,
		HabitsService:      habitsService,
		CompletionsService: completionsService,
		StatsService:       statsService,
		JwtService:         jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	defer cleanup.CleanUp()
	err = serv.Run(cfg.GetString("API_ADDRESS"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
