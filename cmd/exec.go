package cmd

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/redis/go-redis/v9"

	"eventwise/config"
	"eventwise/handlers"
	"eventwise/monitoring"
	"eventwise/realtime"
	"eventwise/security"
	"eventwise/services"
	"eventwise/services/assistant"
	"eventwise/services/billing"
	"eventwise/store"
	"eventwise/utils"

	_ "eventwise/migrations"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Redis is optional: without it the leaderboard falls back to the store.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := utils.NewRedisClient(cfg.RedisURL)
		if err != nil {
			slog.Warn("redis unavailable, leaderboard cache disabled", "error", err)
		} else {
			redisClient = client
			defer redisClient.Close()
		}
	}

	// PubNub is optional: without keys webhook notifications are dropped.
	var notifier billing.Notifier
	if cfg.PubNubPublishKey != "" && cfg.PubNubSubscribeKey != "" {
		notifier = realtime.NewPublisher(cfg.PubNubPublishKey, cfg.PubNubSubscribeKey, cfg.PubNubSecretKey)
	}

	documents := store.NewPBStore(app)

	// Domain services
	userService := services.NewUserService(documents)
	eventService := services.NewEventService(documents)
	sessionService := services.NewSessionService(documents)
	attendeeService := services.NewAttendeeService(documents)
	subscriptionService := services.NewSubscriptionService(documents)
	paymentService := services.NewPaymentService(documents)
	ticketService := services.NewTicketService(documents)
	sponsorService := services.NewSponsorService(documents)
	leaderboardService := services.NewLeaderboardService(documents, redisClient)
	planService := services.NewPlanService(subscriptionService)

	// Billing
	gateway := billing.NewStripeGateway(cfg.StripeSecretKey, cfg.AppURL)
	ledger := billing.NewLedger(documents)
	processor := billing.NewProcessor(
		cfg.StripeWebhookSecret,
		gateway,
		ledger,
		userService,
		subscriptionService,
		paymentService,
		ticketService,
		notifier,
	)

	// Assistant
	chatClient := assistant.NewChatClient(cfg.AssistantAPIKey, cfg.AssistantBaseURL, cfg.AssistantModel)
	guide := assistant.New(chatClient, sessionService, attendeeService)

	// Handlers
	eventHandler := handlers.NewEventHandler(eventService, sessionService, userService, planService)
	attendeeHandler := handlers.NewAttendeeHandler(attendeeService, eventService, userService, planService, leaderboardService)
	userHandler := handlers.NewUserHandler(userService)
	sponsorHandler := handlers.NewSponsorHandler(sponsorService, userService)
	subscriptionHandler := handlers.NewSubscriptionHandler(cfg, gateway, subscriptionService, planService, userService)
	ticketHandler := handlers.NewTicketHandler(ticketService, paymentService, eventService, userService, gateway)
	stripeHandler := handlers.NewStripeHandler(gateway, processor, userService)
	assistantHandler := handlers.NewAssistantHandler(guide, userService)
	analyticsHandler := handlers.NewAnalyticsHandler(eventService, sessionService, attendeeService, ticketService, userService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)

	rateLimiter := security.NewRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax)
	defer rateLimiter.Stop()

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: cfg.Environment == "development",
	})

	if cfg.EnableMetrics {
		monitoring.NewMonitor(redisClient)
		monitoring.Serve(cfg.MetricsPort)
	}

	// Setup graceful shutdown
	go handleShutdown(rateLimiter)

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		api := se.Router.Group("/api")

		api.BindFunc(rateLimiter.Middleware(monitoring.TrackRateLimitRejection))
		api.BindFunc(routeGuard(userService))
		api.BindFunc(trackRequests)

		// Events and sessions
		api.GET("/events", eventHandler.ListEvents)
		api.POST("/events", eventHandler.CreateEvent)
		api.GET("/events/trending", eventHandler.GetTrendingEvents)
		api.GET("/events/{eventId}", eventHandler.GetEvent)
		api.PATCH("/events/{eventId}", eventHandler.UpdateEvent)
		api.DELETE("/events/{eventId}", eventHandler.DeleteEvent)
		api.GET("/events/{eventId}/sessions", eventHandler.ListSessions)
		api.POST("/events/{eventId}/sessions", eventHandler.CreateSession)
		api.PATCH("/sessions/{sessionId}", eventHandler.UpdateSession)
		api.DELETE("/sessions/{sessionId}", eventHandler.DeleteSession)

		// Attendees, connections, gamification
		api.GET("/events/{eventId}/attendees", attendeeHandler.ListAttendees)
		api.POST("/events/{eventId}/attendees", attendeeHandler.RegisterAttendee)
		api.GET("/attendees/{attendeeId}", attendeeHandler.GetAttendee)
		api.POST("/attendees/{attendeeId}/connections", attendeeHandler.AddConnection)
		api.POST("/attendees/{attendeeId}/points", attendeeHandler.AddPoints)
		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

		// Profiles
		api.GET("/profile", userHandler.GetProfile)
		api.POST("/profile", userHandler.CreateProfile)
		api.PATCH("/profile", userHandler.UpdateProfile)
		api.GET("/users", userHandler.ListUsers)
		api.POST("/users", userHandler.CreateUser)
		api.GET("/users/{userId}", userHandler.GetUser)

		// Sponsors
		api.GET("/events/{eventId}/sponsors", sponsorHandler.ListSponsors)
		api.POST("/events/{eventId}/sponsors", sponsorHandler.CreateSponsor)
		api.GET("/sponsors/{sponsorId}", sponsorHandler.GetSponsor)
		api.PATCH("/sponsors/{sponsorId}", sponsorHandler.UpdateSponsor)
		api.DELETE("/sponsors/{sponsorId}", sponsorHandler.DeleteSponsor)

		// Billing
		api.GET("/subscriptions", subscriptionHandler.GetSubscription)
		api.POST("/subscriptions", subscriptionHandler.CreateSubscription)
		api.PATCH("/subscriptions", subscriptionHandler.ManageSubscription)
		api.GET("/tickets", ticketHandler.ListMyTickets)
		api.POST("/tickets/purchase", ticketHandler.PurchaseTicket)
		api.GET("/tickets/{ticketId}", ticketHandler.GetTicket)
		api.POST("/stripe/create-checkout", stripeHandler.CreateCheckout)

		// Stripe calls the webhook unauthenticated, so it bypasses the rate
		// limiter and route guard.
		se.Router.POST("/api/stripe/webhook", stripeHandler.Webhook)

		// Assistant and analytics
		api.POST("/assistant", assistantHandler.Ask)
		api.GET("/analytics", analyticsHandler.GetEventAnalytics)

		// Health check
		se.Router.GET("/health", func(e *core.RequestEvent) error {
			if redisClient != nil {
				if err := utils.RedisHealthCheck(redisClient); err != nil {
					return e.JSON(http.StatusServiceUnavailable, map[string]string{
						"status": "unhealthy",
						"error":  err.Error(),
					})
				}
			}
			return e.JSON(http.StatusOK, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return se.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	return nil
}

// routeGuard enforces the role allow-list for restricted route prefixes.
// Unknown callers are treated as attendees; routes without an entry pass.
func routeGuard(users *services.UserService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		role := security.RoleAttendee

		userID := e.Request.Header.Get("X-User-ID")
		if e.Auth != nil {
			userID = e.Auth.Id
		}
		if userID != "" {
			if profile, err := users.Get(e.Request.Context(), userID); err == nil && profile != nil {
				role = security.RoleFromString(profile.Role)
			}
		}

		if !security.CanAccessRoute(role, e.Request.URL.Path) {
			return apis.NewForbiddenError("Access denied for role", nil)
		}
		return e.Next()
	}
}

func trackRequests(e *core.RequestEvent) error {
	err := e.Next()

	status := "ok"
	if err != nil {
		status = "error"
	}
	monitoring.TrackHTTPRequest(e.Request.Method, status)

	return err
}

// handleShutdown handles graceful shutdown
func handleShutdown(rateLimiter *security.RateLimiter) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	rateLimiter.Stop()
}
