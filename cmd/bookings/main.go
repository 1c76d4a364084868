package main

import (
	"bondvoyage/internal/bookings/handler"
	"bondvoyage/internal/bookings/repository"
	"bondvoyage/internal/bookings/service"
	"bondvoyage/internal/bookings/validator"
	paymentshandler "bondvoyage/internal/payments/handler"
	paymentsrepo "bondvoyage/internal/payments/repository"
	paymentsservice "bondvoyage/internal/payments/service"
	paymentsvalidator "bondvoyage/internal/payments/validator"
	"bondvoyage/pkg/app"
	"bondvoyage/pkg/audit"
	"bondvoyage/pkg/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication(cfg, nil)
	serverApp.OnShutdownMongo()
	recorder := serverApp.AuditRecorder()

	bookingService, paymentService := initServices(cfg, recorder)
	serverApp.SetApp(
		handler.NewBookingHandler(bookingService, serverApp.Metrics(), cfg),
		paymentshandler.NewPaymentHandler(paymentService, serverApp.Metrics(), cfg),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config, recorder audit.Recorder) (service.BookingService, paymentsservice.PaymentService) {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	bookingService := service.NewBookingService(
		bookingRepo,
		bookingValidator,
		recorder,
		cfg,
	)

	paymentValidator := paymentsvalidator.NewPaymentValidator(cfg.Log)
	paymentRepo := paymentsrepo.NewMongoPaymentRepository(cfg)
	paymentService := paymentsservice.NewPaymentService(
		paymentRepo,
		paymentValidator,
		recorder,
		cfg,
	)

	cfg.Log.Info("Booking and payment services initialized", "database", cfg.MongoDatabaseName)
	return bookingService, paymentService
}
