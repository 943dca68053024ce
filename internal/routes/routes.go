package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	"github.com/BruksfildServices01/barberbook/internal/config"
	"github.com/BruksfildServices01/barberbook/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barberbook/internal/infra/repository"
	"github.com/BruksfildServices01/barberbook/internal/media"
	"github.com/BruksfildServices01/barberbook/internal/middleware"
	ucBooking "github.com/BruksfildServices01/barberbook/internal/usecase/booking"
	"github.com/BruksfildServices01/barberbook/internal/usecase/catalog"
	ucClient "github.com/BruksfildServices01/barberbook/internal/usecase/client"
)

// Infra holds the process-wide collaborators built in main.
type Infra struct {
	Cache    ucBooking.AvailabilityCache
	Notifier ucBooking.Notifier
	Audit    *audit.Dispatcher
	Geocoder handlers.ReverseGeocoder
	Avatars  *media.Avatars
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, infra Infra) {

	// ======================================================
	// INFRA
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	clientRepo := infraRepo.NewClientGormRepository(db)
	serviceRepo := infraRepo.NewServiceGormRepository(db)
	auditLogger := audit.New(db)

	// ======================================================
	// USE CASES: BOOKINGS
	// ======================================================
	getAvailabilityUC := ucBooking.NewGetAvailability(bookingRepo, infra.Cache)
	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, infra.Cache, infra.Notifier, infra.Audit)
	cancelBookingUC := ucBooking.NewCancelBooking(bookingRepo, infra.Cache, infra.Notifier, infra.Audit)
	completeBookingUC := ucBooking.NewCompleteBooking(bookingRepo, infra.Audit)
	listBookingsUC := ucBooking.NewListBookings(bookingRepo)

	// ======================================================
	// USE CASES: CATALOG + CLIENT
	// ======================================================
	servicesUC := catalog.NewServices(serviceRepo, infra.Cache, infra.Audit)
	createReviewUC := ucClient.NewCreateReview(clientRepo, infra.Audit)
	favoritesUC := ucClient.NewFavorites(clientRepo, bookingRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	barberHandler := handlers.NewBarberHandler(db, infra.Avatars)
	serviceHandler := handlers.NewServiceHandler(servicesUC)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db, infra.Cache, infra.Audit)
	clientHandler := handlers.NewClientHandler(db, createReviewUC, favoritesUC)
	locationHandler := handlers.NewLocationHandler(infra.Geocoder)
	auditLogsHandler := handlers.NewAuditLogsHandler(auditLogger)

	bookingHandler := handlers.NewBookingHandler(
		getAvailabilityUC,
		createBookingUC,
		cancelBookingUC,
		completeBookingUC,
		listBookingsUC,
	)

	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		auth := api.Group("/auth")
		{
			auth.POST("/barbers/register", authHandler.RegisterBarber)
			auth.POST("/barbers/login", authHandler.LoginBarber)
			auth.POST("/clients/register", authHandler.RegisterClient)
			auth.POST("/clients/login", authHandler.LoginClient)
		}

		// ------------------------------
		// PUBLIC
		// ------------------------------
		barbers := api.Group("/barbers")
		{
			barbers.GET("", barberHandler.Search)
			barbers.GET("/:id", barberHandler.Profile)
			barbers.GET("/:id/services", barberHandler.Services)
			barbers.GET("/:id/reviews", barberHandler.Reviews)
			barbers.GET("/:id/availability", bookingHandler.Availability)
			barbers.POST("/:id/bookings", middleware.OptionalAuth(cfg), bookingHandler.Create)
		}

		location := api.Group("/location")
		{
			location.GET("/reverse", locationHandler.Reverse)
			location.GET("/popular-cities", locationHandler.PopularCities)
		}

		// ------------------------------
		// BARBER
		// ------------------------------
		me := api.Group("/me")
		me.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(middleware.RoleBarber))
		{
			me.GET("/barber", barberHandler.GetMe)
			me.PATCH("/barber", barberHandler.UpdateMe)
			me.POST("/barber/avatar", barberHandler.UploadAvatar)

			me.GET("/working-hours", workingHoursHandler.Get)
			me.PUT("/working-hours", workingHoursHandler.Update)

			me.GET("/services", serviceHandler.List)
			me.POST("/services", serviceHandler.Create)
			me.PATCH("/services/:id", serviceHandler.Update)
			me.DELETE("/services/:id", serviceHandler.Delete)

			me.GET("/bookings", bookingHandler.ListByDate)
			me.GET("/bookings/month", bookingHandler.ListByMonth)
			me.PATCH("/bookings/:id/cancel", bookingHandler.CancelByBarber)
			me.PATCH("/bookings/:id/complete", bookingHandler.Complete)

			me.GET("/dashboard", barberHandler.Dashboard)
			me.GET("/audit-logs", auditLogsHandler.List)
		}

		// ------------------------------
		// CLIENT
		// ------------------------------
		client := api.Group("/client")
		client.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(middleware.RoleClient))
		{
			client.GET("/profile", clientHandler.GetProfile)
			client.PATCH("/profile", clientHandler.UpdateProfile)
			client.GET("/dashboard", clientHandler.Dashboard)

			client.GET("/bookings", bookingHandler.ListForClient)
			client.PATCH("/bookings/:id/cancel", bookingHandler.CancelByClient)

			client.GET("/reviews", clientHandler.ListReviews)
			client.POST("/reviews", clientHandler.CreateReview)

			client.GET("/favorites", clientHandler.ListFavorites)
			client.POST("/favorites", clientHandler.AddFavorite)
			client.DELETE("/favorites/:barberId", clientHandler.RemoveFavorite)
		}
	}
}
