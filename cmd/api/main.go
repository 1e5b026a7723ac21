package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gajiku-hq/payroll-backend-go/internal/config"
	"github.com/gajiku-hq/payroll-backend-go/internal/domain/payroll"
	appHTTP "github.com/gajiku-hq/payroll-backend-go/internal/handler/http"
	"github.com/gajiku-hq/payroll-backend-go/internal/pkg/anomaly"
	"github.com/gajiku-hq/payroll-backend-go/internal/pkg/cron"
	"github.com/gajiku-hq/payroll-backend-go/internal/pkg/database"
	"github.com/gajiku-hq/payroll-backend-go/internal/pkg/jwt"
	"github.com/gajiku-hq/payroll-backend-go/internal/repository/postgresql"
	payrollService "github.com/gajiku-hq/payroll-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "gajiku-payroll"),
	)

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	payrollRepo := postgresql.NewPayrollRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)

	// Without an API key the batch runs without advisory validation.
	var validator payroll.AnomalyValidator
	if cfg.OpenAI.APIKey != "" {
		validator = anomaly.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, float32(cfg.OpenAI.Temperature), logger)
	} else {
		logger.Warn("OPENAI_API_KEY not set, anomaly validation disabled")
	}

	processor := payrollService.NewProcessor(
		payrollRepo,
		employeeRepo,
		attendanceRepo,
		validator,
		logger,
		cfg.Payroll.WorkerCount,
		cfg.Payroll.AITimeout,
	)
	service := payrollService.NewPayrollService(payrollRepo, employeeRepo, processor)

	payrollHandler := appHTTP.NewPayrollHandler(service)
	router := appHTTP.NewRouter(jwtService, payrollHandler)

	scheduler := cron.NewScheduler(logger)
	cron.NewPayrollJobs(payrollRepo, logger, cfg.Payroll.ReminderInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("starting server", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
	}
}
