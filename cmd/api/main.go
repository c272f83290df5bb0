package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"leadcrm/internal/config"
	"leadcrm/internal/database"
	"leadcrm/internal/domain/auth"
	"leadcrm/internal/domain/dashboard"
	"leadcrm/internal/domain/lead"
	"leadcrm/internal/domain/meeting"
	"leadcrm/internal/middleware"
	jwtsvc "leadcrm/internal/pkg/jwt"
	"leadcrm/internal/realtime"
	"leadcrm/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	store := repository.NewStore(db)
	if err := store.Migrate(); err != nil {
		log.Fatal(err)
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.TokenTTL)

	authService := auth.NewService(db, j)
	if err := authService.Migrate(); err != nil {
		log.Fatal(err)
	}
	authHandler := auth.NewHandler(authService)

	leadRepo := lead.NewRepository(store)
	if err := leadRepo.Load(context.Background()); err != nil {
		log.Fatal(err)
	}
	leadHandler := lead.NewHandler(leadRepo)

	meetingService := meeting.NewService(store, leadRepo)
	meetingHandler := meeting.NewHandler(meetingService)

	dashboardHandler := dashboard.NewHandler(leadRepo)

	// Change feed: the repository reconciles, the hub pushes to clients.
	hub := realtime.NewHub()
	defer store.Subscribe(leadRepo.Reconcile)()
	defer store.Subscribe(hub.Broadcast)()

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		auth.RegisterRoutes(v1, authHandler)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			lead.RegisterRoutes(protected, leadHandler)
			meeting.RegisterRoutes(protected, meetingHandler)
			dashboard.RegisterRoutes(protected, dashboardHandler)

			protected.GET("/ws", func(c *gin.Context) {
				if err := hub.ServeWS(c.Writer, c.Request); err != nil {
					_ = c.Error(err)
				}
			})
		}
	}

	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
