package main

import (
	"context"
	"encoding/base64"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"rentflow-backend/internal/backup"
	"rentflow-backend/internal/config"
	"rentflow-backend/internal/db"
	"rentflow-backend/internal/handler"
	"rentflow-backend/internal/ports"
	"rentflow-backend/internal/repository"
	"rentflow-backend/internal/rollover"
	"rentflow-backend/internal/server"
	"rentflow-backend/internal/service"
	"rentflow-backend/internal/settings"
	"rentflow-backend/internal/storage"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	logger := newLogger(os.Getenv("LOG_FORMAT"))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger = newLogger(cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	// Firebase Auth (optional)
	var firebaseAuth *auth.Client
	if cfg.FirebaseProjectID != "" {
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, firebaseOptions(cfg)...)
		if err != nil {
			logger.Error("failed to init firebase app", "err", err)
			os.Exit(1)
		}
		client, err := app.Auth(ctx)
		if err != nil {
			logger.Error("failed to init firebase auth", "err", err)
			os.Exit(1)
		}
		firebaseAuth = client
	}

	objects, err := newObjectStore(cfg, logger)
	if err != nil {
		logger.Error("failed to init object storage", "driver", cfg.StorageDriver, "err", err)
		os.Exit(1)
	}

	// repositories
	userRepo := repository.UserRepository{DB: pg}
	tenantRepo := repository.TenantRepository{DB: pg}
	rentRepo := repository.RentRepository{DB: pg}
	expenseRepo := repository.ExpenseRepository{DB: pg}
	documentRepo := repository.DocumentRepository{DB: pg}
	zakatRepo := repository.ZakatRepository{DB: pg}
	zakatBankRepo := repository.ZakatBankRepository{DB: pg}
	depositRepo := repository.DepositRepository{DB: pg}
	workDetailRepo := repository.WorkDetailRepository{DB: pg}
	noticeRepo := repository.NoticeRepository{DB: pg}
	settingsRepo := repository.SettingsRepository{DB: pg}
	dashboardRepo := repository.DashboardRepository{DB: pg}
	backupRepo := repository.BackupRepository{DB: pg}
	activityRepo := repository.ActivityLogRepository{DB: pg}

	settingsStore := settings.NewStore(settingsRepo, &settings.FileOverlay{Path: cfg.LocalSettingsPath, Logger: logger}, logger)
	if err := settingsStore.Load(ctx); err != nil {
		logger.Error("failed to load settings", "err", err)
		os.Exit(1)
	}

	// services
	files := service.FileManager{Store: objects, Logger: logger}
	authSvc := service.AuthService{Config: cfg, Users: userRepo, Logger: logger, FirebaseAuth: firebaseAuth}
	tenantSvc := service.TenantService{
		Tenants:   tenantRepo,
		Files:     files,
		Listeners: []service.TenantListener{service.RentSync{Rents: rentRepo, Logger: logger}},
		Logger:    logger,
	}
	rentSvc := service.RentService{Rents: rentRepo, Tenants: tenantRepo}
	expenseSvc := service.ExpenseService{Expenses: expenseRepo}
	documentSvc := service.DocumentService{Documents: documentRepo, Files: files}
	zakatSvc := service.ZakatService{Zakat: zakatRepo, Files: files}
	backupSvc := backup.Service{Store: backupRepo, Logger: logger}
	engine := rollover.NewEngine(tenantRepo, rentRepo, expenseRepo, logger)

	var stoppers []server.Stopper
	if cfg.RolloverEnabled {
		scheduler, err := rollover.NewScheduler(engine, cfg.RolloverSchedule, logger)
		if err != nil {
			logger.Error("invalid ROLLOVER_SCHEDULE", "schedule", cfg.RolloverSchedule, "err", err)
			os.Exit(1)
		}
		scheduler.Start()
		stoppers = append(stoppers, scheduler.Stop)
	}

	// handlers
	maxUpload := cfg.MaxUploadBytes
	homeHandler := handler.HomeHandler{Version: version}
	healthHandler := handler.HealthHandler{DB: pg}
	authHandler := handler.AuthHandler{Service: &authSvc}
	settingsHandler := handler.SettingsHandler{Store: settingsStore}
	tenantHandler := handler.TenantHandler{Service: tenantSvc, MaxUploadBytes: maxUpload}
	rentHandler := handler.RentHandler{Service: rentSvc, Settings: settingsStore}
	expenseHandler := handler.ExpenseHandler{Service: expenseSvc, Settings: settingsStore}
	documentHandler := handler.DocumentHandler{Service: documentSvc, MaxUploadBytes: maxUpload}
	zakatHandler := handler.ZakatHandler{Service: zakatSvc, Banks: zakatBankRepo, MaxUploadBytes: maxUpload}
	depositHandler := handler.DepositHandler{Deposits: depositRepo, Files: files, MaxUploadBytes: maxUpload}
	workDetailHandler := handler.WorkDetailHandler{WorkDetails: workDetailRepo, Files: files, MaxUploadBytes: maxUpload}
	noticeHandler := handler.NoticeHandler{Notices: noticeRepo, Files: files, MaxUploadBytes: maxUpload}
	rolloverHandler := handler.RolloverHandler{Engine: engine}
	dashboardHandler := handler.DashboardHandler{Repo: dashboardRepo}
	backupHandler := handler.BackupHandler{Service: backupSvc, Settings: settingsStore, MaxUploadBytes: 8 * maxUpload}
	activityHandler := handler.ActivityLogHandler{Store: activityRepo}

	router := server.NewRouter(cfg, logger, homeHandler, healthHandler, authHandler, settingsHandler, tenantHandler, rentHandler,
		expenseHandler, documentHandler, zakatHandler, depositHandler, workDetailHandler, noticeHandler,
		rolloverHandler, dashboardHandler, backupHandler, activityHandler)

	if err := server.Start(ctx, cfg, router, logger, stoppers...); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

func newLogger(format string) *slog.Logger {
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func newObjectStore(cfg config.Config, logger *slog.Logger) (ports.ObjectStore, error) {
	if cfg.StorageDriver == config.StorageOSS {
		return storage.NewOSS(cfg.OSS, logger)
	}
	return storage.NewLocal(cfg.UploadDir, cfg.PublicBaseURL+"/uploads")
}

func firebaseOptions(cfg config.Config) []option.ClientOption {
	if cfg.FirebaseCredFile == "" {
		return nil
	}

	cred := cfg.FirebaseCredFile
	// Allow inline JSON or base64-encoded JSON in env to avoid writing a file.
	if strings.HasPrefix(strings.TrimSpace(cred), "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cred))}
	}
	if decoded, err := base64.StdEncoding.DecodeString(cred); err == nil && strings.HasPrefix(strings.TrimSpace(string(decoded)), "{") {
		return []option.ClientOption{option.WithCredentialsJSON(decoded)}
	}

	return []option.ClientOption{option.WithCredentialsFile(cred)}
}
