package main

import (
	"context"
	"net/http"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"

	"github.com/JuliusDeane-data/careplan/internal/app"
	"github.com/JuliusDeane-data/careplan/internal/config"
	"github.com/JuliusDeane-data/careplan/internal/controllers"
	"github.com/JuliusDeane-data/careplan/internal/middleware"
	"github.com/JuliusDeane-data/careplan/internal/models"
	"github.com/JuliusDeane-data/careplan/internal/repositories"
	"github.com/JuliusDeane-data/careplan/internal/routes"
	"github.com/JuliusDeane-data/careplan/internal/services"
	"github.com/JuliusDeane-data/careplan/internal/utils"
)

const appName = "careplan"

func main() {
	utils.InitLogger(appName)
	cfg := config.LoadConfig(appName)

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize careplan:", err)
	}
	defer application.Close()

	empRepo := repositories.NewEmployeeRepository(application.DB)
	locRepo := repositories.NewLocationRepository(application.DB)
	qualRepo := repositories.NewQualificationRepository(application.DB)
	empQualRepo := repositories.NewEmployeeQualificationRepository(application.DB)
	holidayRepo := repositories.NewPublicHolidayRepository(application.DB)
	vacRepo := repositories.NewVacationRequestRepository(application.DB)
	shiftRepo := repositories.NewShiftRepository(application.DB)
	assignRepo := repositories.NewShiftAssignmentRepository(application.DB)
	templateRepo := repositories.NewShiftTemplateRepository(application.DB)
	notifRepo := repositories.NewNotificationRepository(application.DB)

	sgClient := sendgrid.NewSendClient(cfg.SendGridAPIKey)

	notificationService := services.NewNotificationService(
		notifRepo,
		empRepo,
		sgClient,
		cfg.SendgridFromEmail,
		cfg.OrganizationName,
		cfg.AppURL,
		cfg.SendgridSandboxMode,
	)
	holidayService := services.NewHolidayService(holidayRepo)
	vacationService := services.NewVacationService(vacRepo, empRepo, locRepo, holidayService, notificationService)
	rosterService := services.NewRosterService(shiftRepo, assignRepo, empRepo, empQualRepo, notificationService)
	shiftService := services.NewShiftService(shiftRepo, templateRepo, locRepo)
	certificationService := services.NewCertificationService(qualRepo, empQualRepo, empRepo)
	qualificationService := services.NewQualificationCatalogService(qualRepo)
	locationService := services.NewLocationService(locRepo)
	maintenanceService := services.NewScheduleMaintenanceService(
		templateRepo,
		shiftRepo,
		locRepo,
		certificationService,
		holidayService,
	)

	if cfg.SeedTestData {
		if err := app.SeedTestData(
			context.Background(),
			locRepo,
			empRepo,
			qualRepo,
			empQualRepo,
			templateRepo,
			holidayService,
		); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed test data")
		}
	}

	vacationController := controllers.NewVacationController(vacationService)
	shiftsController := controllers.NewShiftsController(shiftService, rosterService)
	certificationsController := controllers.NewCertificationsController(certificationService, qualificationService)
	notificationsController := controllers.NewNotificationsController(notificationService)
	locationsController := controllers.NewLocationsController(locationService, holidayService)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, controllers.HealthHandler).Methods(http.MethodGet)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	managerOnly := middleware.RequireRole(models.EmployeeRoleManager)

	// Vacation requests
	secured.HandleFunc(routes.VacationBase, vacationController.SubmitHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.VacationMy, vacationController.ListMyHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.VacationBalance, vacationController.BalanceHandler).Methods(http.MethodGet)
	secured.Handle(routes.VacationPending, managerOnly(http.HandlerFunc(vacationController.ListPendingHandler))).Methods(http.MethodGet)
	secured.Handle(routes.VacationApprove, managerOnly(http.HandlerFunc(vacationController.ApproveHandler))).Methods(http.MethodPost)
	secured.Handle(routes.VacationDeny, managerOnly(http.HandlerFunc(vacationController.DenyHandler))).Methods(http.MethodPost)
	secured.HandleFunc(routes.VacationCancel, vacationController.CancelHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.VacationByID, vacationController.GetHandler).Methods(http.MethodGet)

	// Shifts and assignments
	secured.Handle(routes.ShiftsBase, managerOnly(http.HandlerFunc(shiftsController.CreateHandler))).Methods(http.MethodPost)
	secured.HandleFunc(routes.ShiftsSchedule, shiftsController.ScheduleHandler).Methods(http.MethodGet)
	secured.Handle(routes.ShiftsValidateAssign, managerOnly(http.HandlerFunc(shiftsController.ValidateAssignHandler))).Methods(http.MethodPost)
	secured.HandleFunc(routes.ShiftsAssignmentStatus, shiftsController.AssignmentStatusHandler).Methods(http.MethodPatch, http.MethodPut)
	secured.HandleFunc(routes.ShiftsByID, shiftsController.GetHandler).Methods(http.MethodGet)
	secured.Handle(routes.ShiftsPublish, managerOnly(http.HandlerFunc(shiftsController.PublishHandler))).Methods(http.MethodPost)
	secured.Handle(routes.ShiftsAssignments, managerOnly(http.HandlerFunc(shiftsController.AssignHandler))).Methods(http.MethodPost)

	// Shift templates
	secured.Handle(routes.ShiftTemplatesBase, managerOnly(http.HandlerFunc(shiftsController.CreateTemplateHandler))).Methods(http.MethodPost)
	secured.Handle(routes.ShiftTemplatesBase, managerOnly(http.HandlerFunc(shiftsController.ListTemplatesHandler))).Methods(http.MethodGet)
	secured.Handle(routes.ShiftTemplatesDeactivate, managerOnly(http.HandlerFunc(shiftsController.DeactivateTemplateHandler))).Methods(http.MethodPost)

	// Certifications
	secured.Handle(routes.CertificationsBase, managerOnly(http.HandlerFunc(certificationsController.AddHandler))).Methods(http.MethodPost)
	secured.Handle(routes.CertificationsVerify, managerOnly(http.HandlerFunc(certificationsController.VerifyHandler))).Methods(http.MethodPost)
	secured.HandleFunc(routes.CertificationsMy, certificationsController.ListMyHandler).Methods(http.MethodGet)
	secured.Handle(routes.CertificationsByEmployee, managerOnly(http.HandlerFunc(certificationsController.ListByEmployeeHandler))).Methods(http.MethodGet)
	secured.Handle(routes.CertificationsReportExpiring, managerOnly(http.HandlerFunc(certificationsController.ExpiringReportHandler))).Methods(http.MethodGet)
	secured.Handle(routes.CertificationsReportExpired, managerOnly(http.HandlerFunc(certificationsController.ExpiredReportHandler))).Methods(http.MethodGet)
	secured.Handle(routes.CertificationsReportPending, managerOnly(http.HandlerFunc(certificationsController.PendingReportHandler))).Methods(http.MethodGet)
	secured.HandleFunc(routes.QualificationsBase, certificationsController.ListQualificationsHandler).Methods(http.MethodGet)

	// Notifications
	secured.HandleFunc(routes.NotificationsBase, notificationsController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.NotificationsReadAll, notificationsController.MarkAllReadHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.NotificationsPreferences, notificationsController.GetPreferencesHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.NotificationsPreferences, notificationsController.UpdatePreferencesHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.NotificationsRead, notificationsController.MarkReadHandler).Methods(http.MethodPost)

	// Locations and holidays
	secured.Handle(routes.LocationsBase, managerOnly(http.HandlerFunc(locationsController.CreateHandler))).Methods(http.MethodPost)
	secured.HandleFunc(routes.LocationsBase, locationsController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.LocationsByID, locationsController.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.HolidaysBase, locationsController.ListHolidaysHandler).Methods(http.MethodGet)

	c := cron.New()
	_, cronErr := c.AddFunc("5 0 * * *", func() {
		maintenanceService.RunDailyMaintenance(context.Background())
	})
	if cronErr != nil {
		utils.Logger.WithError(cronErr).Fatal("Failed to schedule daily maintenance cron")
	}
	c.Start()

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("careplan failed to start:", err)
	}
}
