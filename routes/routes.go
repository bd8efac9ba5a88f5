package routes

import (
	"net/http"
	"time"

	"pharmabook/handlers"
	"pharmabook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		// Register/login accept an optional session so a mid-booking sign-in
		// can advance the wizard past the login step.
		api.POST("/register", middleware.SessionMiddleware(), hb.User.RegisterUserHandler)
		api.POST("/login", middleware.SessionMiddleware(), hb.User.AuthenticateUserHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		protected.GET("/me", hb.User.GetProfileHandler)
		protected.PUT("/me", hb.User.UpdateProfileHandler)
		protected.GET("/me/orders", hb.User.ListOrdersHandler)
		protected.DELETE("/logout", middleware.SessionMiddleware(), hb.User.RevokeUserTokenHandler)
	}
}

// RegisterCatalogRoutes registers the public treatment catalog.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/services")
	{
		api.GET("", hb.Catalog.ListServicesHandler)
		api.GET("/:slug", hb.Catalog.GetServiceHandler)
		api.GET("/:slug/medicines", hb.Catalog.ListMedicinesHandler)
		api.GET("/:slug/schedule", hb.Catalog.GetScheduleHandler)
	}
}

// RegisterCartRoutes registers the cart. Guests carry a session-keyed cart,
// so authentication is optional throughout.
func RegisterCartRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/cart")
	api.Use(middleware.SessionMiddleware(), middleware.OptionalAuthMiddleware(hb.UserRepo))
	{
		api.GET("", hb.Cart.GetCartHandler)
		api.DELETE("", hb.Cart.ClearCartHandler)
		api.POST("/items", hb.Cart.AddCartItemHandler)
		api.PUT("/items/:key", hb.Cart.UpdateCartItemHandler)
		api.DELETE("/items/:key", hb.Cart.RemoveCartItemHandler)
	}
}

// RegisterBookingRoutes registers the booking wizard endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/booking/:slug")
	api.Use(middleware.SessionMiddleware())
	{
		// Step navigation and availability are reachable before login.
		open := api.Group("")
		open.Use(middleware.OptionalAuthMiddleware(hb.UserRepo))
		open.GET("/step", hb.Booking.GetStepHandler)
		open.POST("/step/next", hb.Booking.NextStepHandler)
		open.POST("/step/back", hb.Booking.BackStepHandler)
		open.GET("/slots", hb.Booking.SlotsHandler)

		// Everything that touches the draft order requires a signed-in user.
		protected := api.Group("")
		protected.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		protected.POST("/authenticated", hb.Booking.AuthenticatedHandler)
		protected.PUT("/answers", hb.Booking.AnswersHandler)
		protected.POST("/order", hb.Booking.EnsureOrderHandler)
		protected.POST("/appointment", hb.Booking.AppointmentHandler)
		protected.POST("/payment/session", hb.Payment.CreateSessionHandler)
		protected.GET("/payment/status", hb.Payment.StatusHandler)
		protected.POST("/payment/confirm", hb.Payment.ConfirmPaymentHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Pharmabook"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.SessionHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterUserRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterCartRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterHealthRoute(r)
}
