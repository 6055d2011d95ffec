package routes

import (
	"net/http"
	"time"

	"staybook/handlers"
	"staybook/middleware"
	"staybook/models"
	"staybook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers the router wires up.
type HandlerBundle struct {
	Reservations *handlers.ReservationHandler
	Listings     *handlers.ListingHandler
	Users        *handlers.UserHandler
	Admin        *handlers.AdminHandler
}

// RegisterUserRoutes registers identity endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.Users.RegisterUser)
		api.POST("/login", hb.Users.AuthenticateUser)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/id/:id", hb.Users.GetUserByID)
		api.DELETE("/revoke", hb.Users.RevokeAuthToken)
		api.PUT("/fcm-token", hb.Users.UpdateFCMToken)
	}
}

// RegisterListingRoutes registers listing collaborator endpoints.
func RegisterListingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/listings")
	{
		api.GET("", hb.Listings.ListActiveListings)
		api.GET("/:id", hb.Listings.GetListing)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("", middleware.RequireRole(models.RoleHost), hb.Listings.CreateListing)
		protected.GET("/mine", middleware.RequireRole(models.RoleHost), hb.Listings.ListMyListings)
		protected.GET("/:id/reservations", middleware.RequireRole(models.RoleHost), hb.Reservations.ListListingReservations)
	}
}

// RegisterReservationRoutes registers the booking engine endpoints.
func RegisterReservationRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/reservations")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Reservations.CreateReservation)
		api.GET("", hb.Reservations.ListMyReservations)
		api.GET("/:id", hb.Reservations.GetReservation)
		api.POST("/confirm-order", hb.Reservations.ConfirmPaymentOrderGroup)
		api.PUT("/:id/confirm", hb.Reservations.ConfirmReservation)
		api.PUT("/:id/approve", hb.Reservations.ApproveReservation)
		api.PUT("/:id/reject", hb.Reservations.RejectReservation)
		api.DELETE("/:id", hb.Reservations.CancelReservation)
		api.DELETE("/order/:orderID", hb.Reservations.CleanupFailedPaymentGroup)
	}
}

// RegisterAdminRoutes registers operational endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.AdminAuthMiddleware())
		api.POST("/sweep", hb.Admin.SweepExpired)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterUserRoutes(r, hb)
	RegisterListingRoutes(r, hb)
	RegisterReservationRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
