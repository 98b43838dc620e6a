package pkg

import (
	"context"
	"log"

	"MedLocator/internal/auth"
	"MedLocator/internal/blooddonation"
	"MedLocator/internal/config"
	"MedLocator/internal/medication"
	"MedLocator/internal/notification"
	"MedLocator/internal/pharmacy"
	"MedLocator/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
)

var EchoModules = fx.Module("echo",
	fx.Provide(NewEchoServer),
	fx.Provide(config.NewMongoDBConfig),
	fx.Provide(config.NewMongoDBClient),
	fx.Provide(config.NewResendConfig),
	fx.Provide(config.NewEmailService),
	fx.Provide(auth.NewUserRepository),
	fx.Provide(auth.NewUserService),
	fx.Provide(auth.NewAuthHandler),
	fx.Provide(notification.NewNotificationRepository),
	fx.Provide(func(repo *notification.NotificationRepository) *notification.NotificationService {
		return notification.NewNotificationService(repo)
	}),
	fx.Provide(notification.NewNotificationHandler),
	fx.Provide(pharmacy.NewPharmacyRepository),
	fx.Provide(func(repo *pharmacy.PharmacyRepository) *pharmacy.PharmacyService {
		return pharmacy.NewPharmacyService(repo)
	}),
	fx.Provide(pharmacy.NewPharmacyHandler),
	fx.Provide(medication.NewMedicationRepository),
	fx.Provide(func(repo *medication.MedicationRepository, pharmacies *pharmacy.PharmacyService) *medication.MedicationService {
		return medication.NewMedicationService(repo, pharmacies)
	}),
	fx.Provide(medication.NewMedicationHandler),
	fx.Provide(blooddonation.NewRequestRepository),
	fx.Provide(func(repo *blooddonation.RequestRepository, users *auth.UserRepository, notifications *notification.NotificationRepository, mailer *config.EmailService) *blooddonation.RequestService {
		return blooddonation.NewRequestService(repo, users, notifications, mailer)
	}),
	fx.Provide(blooddonation.NewRequestHandler),
	fx.Invoke(SetupIndexes),
	fx.Invoke(RegisterRoutes))

func NewEchoServer(lc fx.Lifecycle) *echo.Echo {
	e := echo.New()
	middleware.SetupMiddleware(e)
	port := ":8080"
	log.Println("Server running on http://localhost" + port[1:])
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(port); err != nil {
					log.Fatal("Failed to start the server:", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("shutting down the server ...")
			return e.Shutdown(ctx)
		},
	})
	return e
}

func SetupIndexes(db *mongo.Database) {
	config.UniqueEmailIndex(db.Collection("users"))
	config.NotificationIndexes(db.Collection("notifications"))
}

func RegisterRoutes(e *echo.Echo,
	authHandler *auth.AuthHandler,
	notificationHandler *notification.NotificationHandler,
	pharmacyHandler *pharmacy.PharmacyHandler,
	medicationHandler *medication.MedicationHandler,
	requestHandler *blooddonation.RequestHandler) {

	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// Public read surface.
	e.GET("/pharmacies", pharmacyHandler.List)
	e.GET("/pharmacies/:id", pharmacyHandler.Get)
	e.GET("/medications", medicationHandler.List)
	e.GET("/medications/:id", medicationHandler.Get)
	e.GET("/blood-donation", requestHandler.List)
	e.GET("/blood-donation/bloodtype/:type", requestHandler.ByBloodType)
	e.GET("/blood-donation/:id", requestHandler.Get)

	protected := e.Group("/api")
	protected.Use(middleware.JWTMiddleware)
	protected.Use(middleware.CasbinMiddleware)

	protected.GET("/profile", authHandler.Profile)
	protected.PUT("/profile/donor", authHandler.UpdateDonorProfile)

	protected.GET("/notifications", notificationHandler.List)
	protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
	protected.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
	protected.PUT("/notifications/:id/read", notificationHandler.MarkRead)
	protected.DELETE("/notifications/:id", notificationHandler.Delete)
	protected.DELETE("/notifications", notificationHandler.DeleteAll)

	protected.POST("/blood-donation", requestHandler.Create)
	protected.PUT("/blood-donation/:id", requestHandler.Update)
	protected.DELETE("/blood-donation/:id", requestHandler.Delete)
	protected.POST("/blood-donation/:id/respond", requestHandler.Respond)

	protected.POST("/pharmacies", pharmacyHandler.Create)
	protected.PUT("/pharmacies/:id", pharmacyHandler.Update)
	protected.DELETE("/pharmacies/:id", pharmacyHandler.Delete)

	protected.POST("/medications", medicationHandler.Create)
	protected.PUT("/medications/:id", medicationHandler.Update)
	protected.PUT("/medications/:id/stock", medicationHandler.UpdateStock)
	protected.DELETE("/medications/:id", medicationHandler.Delete)
}
