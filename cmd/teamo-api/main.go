package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bojanv/teamo-api/internal/config"
	"github.com/bojanv/teamo-api/internal/database"
	"github.com/bojanv/teamo-api/internal/events"
	"github.com/bojanv/teamo-api/internal/handlers"
	authmw "github.com/bojanv/teamo-api/internal/middleware"
	"github.com/bojanv/teamo-api/internal/models"
	"github.com/bojanv/teamo-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL, cfg.Tables)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	bus := events.NewBus(log.With().Str("component", "events").Logger())

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	membershipService := services.NewMembershipService(db)
	userService := services.NewUserService(db, membershipService)
	tokenService := services.NewTokenService(db)
	teamService := services.NewTeamService(db, membershipService, bus)
	inviteService := services.NewInviteService(db, teamService, bus)
	taskService := services.NewTaskService(db)
	emailService := services.NewEmailService(cfg.SMTP)

	// Invitation mail goes out whenever an invite is created.
	bus.Subscribe(events.UserInvitedToTeam{}.Name(), func(ctx context.Context, e events.Event) {
		ev, ok := e.(events.UserInvitedToTeam)
		if !ok || ev.Invite.Type != models.InviteTypeInvite {
			return
		}
		team, err := teamService.GetByID(ctx, ev.Invite.TeamID)
		if err != nil {
			log.Warn().Err(err).Msg("invite mail skipped, team lookup failed")
			return
		}
		acceptURL := fmt.Sprintf("%s/invite/accept/%s", cfg.BaseURL, ev.Invite.AcceptToken)
		denyURL := fmt.Sprintf("%s/invite/deny/%s", cfg.BaseURL, ev.Invite.DenyToken)
		if err := emailService.SendTeamInvite(ev.Invite.Email, team.Name, acceptURL, denyURL); err != nil {
			log.Warn().Err(err).Str("email", ev.Invite.Email).Msg("failed to send invite mail")
		}
	})

	authHandler := handlers.NewAuthHandler(userService, tokenService, jwtService)
	userHandler := handlers.NewUserHandler(userService, tokenService)
	teamHandler := handlers.NewTeamHandler(teamService, membershipService)
	inviteHandler := handlers.NewInviteHandler(inviteService, teamService, userService)
	taskHandler := handlers.NewTaskHandler(taskService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())
	app.Use(authmw.RequestLogger(log))

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))
	protected.Use(authmw.CurrentUser(userService))

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)
	protected.Delete("/users/me", userHandler.DeleteMe)

	protected.Get("/teams", teamHandler.List)
	protected.Post("/teams", teamHandler.Create)
	protected.Get("/teams/:id", teamHandler.Get)
	protected.Get("/teams/:id/members", teamHandler.GetMembers)
	protected.Post("/teams/:id/join-requests", inviteHandler.RequestToJoin)

	protected.Post("/users/me/teams", teamHandler.Attach)
	protected.Delete("/users/me/teams/:id", teamHandler.Detach)
	protected.Put("/users/me/current-team", teamHandler.Switch)

	protected.Post("/invites/accept/:token", inviteHandler.Accept)

	owned := api.Group("/teams/:id")
	owned.Use(authmw.Auth(jwtService))
	owned.Use(authmw.CurrentUser(userService))
	owned.Use(authmw.TeamOwner(teamService))
	owned.Patch("", teamHandler.Update)
	owned.Delete("", teamHandler.Delete)
	owned.Post("/invites", inviteHandler.Create)
	owned.Get("/invites", inviteHandler.List)

	tasks := api.Group("/tasks")
	tasks.Use(authmw.Auth(jwtService))
	tasks.Use(authmw.CurrentUser(userService))
	tasks.Get("", taskHandler.List)
	tasks.Post("", taskHandler.Create)
	tasks.Get("/:taskId", taskHandler.Get)
	tasks.Patch("/:taskId", taskHandler.Update)
	tasks.Delete("/:taskId", taskHandler.Delete)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	// Tokened invite pages arrive from email links, so they stay outside auth.
	app.Get("/invite/accept/:token", inviteHandler.AcceptPage)
	app.Post("/invite/accept/:token", inviteHandler.AcceptByToken)
	app.Get("/invite/deny/:token", inviteHandler.Deny)

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			_ = tokenService.CleanupExpired(context.Background())
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Info().Str("addr", addr).Msg("server starting")
		if err := app.Run(addr); err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
}
