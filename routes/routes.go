package routes

import (
	"net/http"
	"time"

	"velora/handlers"
	"velora/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the HTTP handlers wired in main.
type HandlerBundle struct {
	Booking      *handlers.BookingHandler
	Availability *handlers.AvailabilityHandler
	Payment      *handlers.PaymentHandler
}

// RegisterBookingRoutes sets up the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", hb.Booking.ListBookings)
		api.GET("/:id", hb.Booking.GetBooking)
		api.GET("/:id/payments", hb.Payment.ListBookingPayments)

		customer := api.Group("")
		customer.Use(middleware.JWTAuthMiddleware(middleware.RoleCustomer))
		customer.POST("", hb.Booking.CreateBooking)
		customer.PATCH("/:id", hb.Booking.UpdateBooking)

		provider := api.Group("")
		provider.Use(middleware.JWTAuthMiddleware(middleware.RoleProvider))
		provider.POST("/:id/confirm", hb.Booking.ConfirmBooking)
		provider.POST("/:id/reject", hb.Booking.RejectBooking)
		provider.POST("/:id/complete", hb.Booking.CompleteBooking)

		// Either party may cancel; the service checks ownership.
		api.POST("/:id/cancel", hb.Booking.CancelBooking)
	}
}

// RegisterAvailabilityRoutes sets up time slot and blocked date endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *HandlerBundle) {
	slots := r.Group("/api/timeslots")
	{
		slots.Use(middleware.JWTAuthMiddleware(middleware.RoleProvider))
		slots.POST("", hb.Availability.CreateTimeSlot)
		slots.PUT("/:id", hb.Availability.UpdateTimeSlot)
		slots.DELETE("/:id", hb.Availability.DeleteTimeSlot)
	}

	blocked := r.Group("/api/blocked-dates")
	{
		blocked.Use(middleware.JWTAuthMiddleware(middleware.RoleProvider))
		blocked.POST("", hb.Availability.BlockDate)
		blocked.DELETE("/:id", hb.Availability.UnblockDate)
	}

	providers := r.Group("/api/providers")
	{
		providers.Use(middleware.JWTAuthMiddleware())
		providers.GET("/:id/slots", hb.Booking.ListAvailableSlots)
		providers.GET("/:id/timeslots", hb.Availability.ListTimeSlots)
		providers.GET("/:id/blocked-dates", hb.Availability.ListBlockedDates)
	}
}

// RegisterPaymentRoutes sets up payment endpoints. The webhook stays outside
// the auth middleware; Stripe signs its requests instead.
func RegisterPaymentRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.POST("/api/payments/webhook", hb.Payment.StripeWebhook)

	api := r.Group("/api/payments")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/:id", hb.Payment.GetPayment)

		customer := api.Group("")
		customer.Use(middleware.JWTAuthMiddleware(middleware.RoleCustomer))
		customer.POST("", hb.Payment.RecordPayment)

		provider := api.Group("")
		provider.Use(middleware.JWTAuthMiddleware(middleware.RoleProvider))
		provider.POST("/:id/refund", hb.Payment.RefundPayment)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Velora"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
}
