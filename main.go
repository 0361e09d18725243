package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hospital-connect/authentication"
	"hospital-connect/configuration"
	"hospital-connect/controllers"
	"hospital-connect/notification"
	"hospital-connect/repository"
	"hospital-connect/routes"
	"hospital-connect/service"
)

func main() {
	cfg, err := configuration.Load()
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}

	logger, err := configuration.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	db, err := configuration.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer func() {
		if err := configuration.CloseDB(db); err != nil {
			logger.Warn("close database", zap.Error(err))
		}
	}()

	redisClient, err := configuration.ConnectRedis(cfg)
	if err != nil {
		logger.Fatal("connect redis", zap.Error(err))
	}
	defer redisClient.Close()

	jwt := authentication.NewJWT(cfg, redisClient)
	mailer := notification.NewMailer(cfg, logger)
	sms := notification.NewSMSVerifier(cfg)

	appointmentRepo := repository.NewAppointmentRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	prescriptionRepo := repository.NewPrescriptionRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	notifier := notification.NewBookingNotifier(mailer, logger)
	scheduler := service.NewSchedulingService(appointmentRepo, doctorRepo, patientRepo, notifier, logger)
	prescriptions := service.NewPrescriptionService(prescriptionRepo, appointmentRepo, patientRepo, logger)

	router := routes.Setup(jwt, routes.Controllers{
		Appointments:  controllers.NewAppointmentController(scheduler, logger),
		Patients:      controllers.NewPatientController(patientRepo, doctorRepo, jwt, redisClient, sms, logger),
		Doctors:       controllers.NewDoctorController(doctorRepo, patientRepo, appointmentRepo, jwt, redisClient, mailer, logger),
		Admins:        controllers.NewAdminController(adminRepo, doctorRepo, patientRepo, appointmentRepo, jwt, logger),
		Prescriptions: controllers.NewPrescriptionController(prescriptions, scheduler, logger),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
