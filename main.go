package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"

	"superscooops/config"
	"superscooops/handlers"
	"superscooops/middleware"
	"superscooops/routes"
	"superscooops/services/booking"
	"superscooops/services/crm"
	"superscooops/services/payment"
	"superscooops/services/quote"
	"superscooops/services/webhook"
	"superscooops/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitSessionCache()
	utils.InitWebhookCache()
	utils.StartHealthMonitor([]*redis.Client{
		utils.GetSessionCacheClient(),
		utils.GetWebhookCacheClient(),
	})
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Services.
	quoteEngine := quote.NewEngine(quote.DefaultCatalog())
	crmClient := crm.NewSweepAndGo(
		config.AppConfig.SweepAndGoBaseURL,
		config.AppConfig.SweepAndGoAPIKey,
		config.AppConfig.SweepAndGoOrgSlug,
		logger,
	)
	paymentProvider := payment.NewStripeGateway(logger)
	commitEngine := booking.NewCommitEngine(paymentProvider, crmClient, quoteEngine, logger)

	sessionService := &booking.DefaultSessionService{
		Cache:     utils.GetSessionCacheClient(),
		Engine:    quoteEngine,
		Committer: commitEngine,
		CRM:       crmClient,
		Logger:    logger,
	}

	webhookProcessor := webhook.NewProcessor(
		utils.GetWebhookCacheClient(),
		config.AppConfig.SweepAndGoWebhookSecret,
		logger,
	)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Booking:   handlers.NewBookingHandler(sessionService, quoteEngine),
		Functions: handlers.NewFunctionsHandler(crmClient, logger),
		Checkout:  handlers.NewCheckoutHandler(paymentProvider, logger),
		Webhook:   handlers.NewWebhookHandler(webhookProcessor, logger),
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
