// File: pharmabook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pharmabook/config"
	"pharmabook/cron"
	"pharmabook/database"
	appointmentRepoPkg "pharmabook/database/repository/appointment"
	orderRepoPkg "pharmabook/database/repository/order"
	scheduleRepoPkg "pharmabook/database/repository/schedule"
	serviceRepoPkg "pharmabook/database/repository/service"
	userRepoPkg "pharmabook/database/repository/user"
	"pharmabook/handlers"
	"pharmabook/routes"
	"pharmabook/services/booking"
	"pharmabook/services/cart"
	"pharmabook/services/flow"
	"pharmabook/services/notification"
	"pharmabook/services/order"
	"pharmabook/services/payment"
	"pharmabook/services/schedule"
	"pharmabook/services/session"
	"pharmabook/services/user"
	"pharmabook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	orderRepo := orderRepoPkg.NewMongoOrderRepo()
	serviceRepo := serviceRepoPkg.NewMongoServiceRepo()
	scheduleRepo := scheduleRepoPkg.NewMongoScheduleRepo()
	appointmentRepo := appointmentRepoPkg.NewMongoAppointmentRepo()

	// Session state: Redis primary with an in-process fallback, dual-written.
	sessionMirror := session.NewMirror(logger,
		session.NewRedisStore(utils.GetSessionCacheClient(), session.DefaultTTL),
		session.NewMemoryStore(),
	)

	// services.
	userService := &user.DefaultUserService{
		Repo:   userRepo,
		Logger: logger,
	}
	cartService := cart.NewRedisCartService(utils.GetCacheClient(), logger)
	coordinator := order.NewCoordinator(orderRepo, userRepo, logger)
	flowMachine := flow.NewMachine(logger)
	availabilityService := &schedule.DefaultAvailabilityService{
		Schedules:    scheduleRepo,
		Appointments: appointmentRepo,
		Clock:        schedule.SystemClock(),
	}
	bookingService := &booking.DefaultBookingService{
		Coordinator:  coordinator,
		Schedules:    scheduleRepo,
		Appointments: appointmentRepo,
		Availability: availabilityService,
		Logger:       logger,
	}
	notificationService := notification.NewSMTPNotificationService(
		config.AppConfig.SMTPHost,
		config.AppConfig.SMTPPort,
		config.AppConfig.EmailFrom,
	)

	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer queueClient.Close()

	paymentService := &payment.DefaultPaymentService{
		Orders:       orderRepo,
		Users:        userRepo,
		Cart:         cartService,
		Notifier:     notificationService,
		Appointments: bookingService,
		Queue:        queueClient,
		Currency:     config.AppConfig.Currency,
		Logger:       logger,
	}

	// Background reminder worker.
	cron.InitReminderWorker(notificationService, userRepo)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo: userRepo,

		User: &handlers.UserHandler{
			UserService: userService,
			Orders:      orderRepo,
			Sessions:    sessionMirror,
			Cart:        cartService,
			Flow:        flowMachine,
		},
		Catalog: &handlers.CatalogHandler{
			Services:  serviceRepo,
			Schedules: scheduleRepo,
		},
		Cart: &handlers.CartHandler{
			Cart: cartService,
		},
		Booking: &handlers.BookingHandler{
			Machine:      flowMachine,
			Sessions:     sessionMirror,
			Cart:         cartService,
			Services:     serviceRepo,
			Coordinator:  coordinator,
			Availability: availabilityService,
			Booking:      bookingService,
		},
		Payment: &handlers.PaymentHandler{
			Payments: paymentService,
			Awaiter:  coordinator,
			Machine:  flowMachine,
			Sessions: sessionMirror,
		},
	}

	// Register routes with the assembled handler bundle.
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
