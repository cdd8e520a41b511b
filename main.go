// File: velora/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"velora/config"
	"velora/cron"
	"velora/database"
	blockedRepo "velora/database/repository/blocked"
	bookingRepoPkg "velora/database/repository/booking"
	paymentRepoPkg "velora/database/repository/payment"
	providerRepo "velora/database/repository/provider"
	timeslotRepoPkg "velora/database/repository/timeslot"
	userRepoPkg "velora/database/repository/user"
	"velora/handlers"
	"velora/routes"
	"velora/services/availability"
	"velora/services/booking"
	"velora/services/notification"
	"velora/services/payment"
	"velora/services/tasks"
	"velora/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitLockClient()
	utils.FirebaseInit()
	stripe.Key = config.AppConfig.StripeKey

	if err := bookingRepoPkg.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}
	if err := timeslotRepoPkg.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure time slot indexes: %v", err)
	}
	if err := blockedRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure blocked date indexes: %v", err)
	}
	if err := paymentRepoPkg.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure payment indexes: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	timeslotRepo := timeslotRepoPkg.NewMongoTimeSlotRepo()
	blockedDateRepo := blockedRepo.NewMongoBlockedDateRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()
	provRepo := providerRepo.NewMongoProviderRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	// services.
	notificationService, err := notification.NewDefaultNotificationService(userRepo, provRepo)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	detector := &booking.ConflictDetector{
		Bookings: bookingRepo,
		Blocked:  blockedDateRepo,
	}
	planner := &booking.SlotPlanner{
		TimeSlots: timeslotRepo,
		Blocked:   blockedDateRepo,
		Bookings:  bookingRepo,
	}
	reminderScheduler := tasks.NewAsynqReminderScheduler()

	bookingService := &booking.DefaultBookingService{
		Repo:         bookingRepo,
		ProviderRepo: provRepo,
		Payments:     paymentRepo,
		Detector:     detector,
		Planner:      planner,
		Notification: notificationService,
		Reminders:    reminderScheduler,
		Locks:        utils.GetLockClient(),
	}
	availabilityService := availability.NewDefaultAvailabilityService(timeslotRepo, blockedDateRepo, detector)
	paymentService := payment.NewDefaultPaymentService(paymentRepo, bookingRepo, payment.StripeGateway{}, notificationService)

	// Start the reminder delivery worker.
	cron.InitReminderWorker(notificationService)

	handlerBundle := &routes.HandlerBundle{
		Booking:      handlers.NewBookingHandler(bookingService),
		Availability: handlers.NewAvailabilityHandler(availabilityService),
		Payment:      handlers.NewPaymentHandler(paymentService, config.AppConfig.StripeWebhookSecret),
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
