package main

import (
	"context"
	"log"
	"time"

	"github.com/rasel97/snapthread/backend/internal/router"
	"github.com/rasel97/snapthread/backend/internal/scheduler"
	"github.com/rasel97/snapthread/backend/pkg/config"
	"github.com/rasel97/snapthread/backend/pkg/firebase"
	"github.com/rasel97/snapthread/backend/pkg/mailer"
	"github.com/rasel97/snapthread/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// SMTP mailer for OTP delivery
	m := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	repos := router.NewRepos(db.Postgres, db.Mongo)
	router.SetupRoutes(e, db.Postgres, repos, firebaseApp.AuthClient, m)

	// Validator
	e.Validator = validators.NewValidator()

	// Background scheduler: publishes due scheduled posts, sweeps expired stories
	schedCtx, cancelSched := context.WithCancel(ctx)
	defer cancelSched()
	go scheduler.NewPublisher(repos.Post, repos.Story, time.Minute).Run(schedCtx)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
