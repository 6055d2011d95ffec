// File: staybook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staybook/config"
	"staybook/cron"
	"staybook/database"
	listingRepoPkg "staybook/database/repository/listing"
	reservationRepoPkg "staybook/database/repository/reservation"
	userRepoPkg "staybook/database/repository/user"
	"staybook/handlers"
	"staybook/middleware"
	"staybook/routes"
	"staybook/services/listing"
	"staybook/services/notification"
	"staybook/services/payment"
	"staybook/services/reservation"
	"staybook/services/user"
	"staybook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	resRepo := reservationRepoPkg.NewMongoReservationRepo()
	lstRepo := listingRepoPkg.NewMongoListingRepo()
	usrRepo := userRepoPkg.NewMongoUserRepo()

	// services.
	userService := &user.DefaultUserService{
		Repo:      usrRepo,
		AuthCache: utils.GetAuthCacheClient(),
	}
	listingService := &listing.DefaultListingService{
		Repo: lstRepo,
	}

	notifier := notification.NewAsynqDispatcher()
	defer notifier.Close()

	reservationService := &reservation.DefaultReservationService{
		Repo:        resRepo,
		ListingRepo: lstRepo,
		UserRepo:    usrRepo,
		Payments:    payment.NewStripeGateway(logger),
		Notifier:    notifier,
		Logger:      logger,
	}

	// Background workers: notification delivery and the expiry sweep.
	notifyWorker := cron.InitNotifyWorker(&notification.FCMSender{Users: usrRepo})

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go cron.StartExpirySweeper(sweepCtx, reservationService, config.SweepInterval(), config.PendingTTL(), logger)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()},
		database.MongoClient,
	)

	// Assemble the handler bundle and register routes.
	handlerBundle := &routes.HandlerBundle{
		Reservations: handlers.NewReservationHandler(reservationService),
		Listings:     handlers.NewListingHandler(listingService),
		Users:        handlers.NewUserHandler(userService),
		Admin:        handlers.NewAdminHandler(reservationService),
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

	stopSweeper()
	notifyWorker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
