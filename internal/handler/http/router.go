package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gajiku-hq/payroll-backend-go/internal/handler/http/middleware"
	"github.com/gajiku-hq/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(jwtService jwt.Service, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "gajiku-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService))

			r.Route("/payroll", func(r chi.Router) {

				r.Route("/components", func(r chi.Router) {
					r.Get("/", payrollHandler.ListComponents)
					r.Get("/{id}", payrollHandler.GetComponent)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/", payrollHandler.CreateComponent)
						r.Post("/seed-defaults", payrollHandler.SeedDefaultComponents)
						r.Put("/{id}", payrollHandler.UpdateComponent)
						r.Delete("/{id}", payrollHandler.DeleteComponent)
					})
				})

				r.Route("/employees/{employeeID}/components", func(r chi.Router) {
					r.Get("/", payrollHandler.GetEmployeeComponents)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/", payrollHandler.AssignComponent)
					})
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Delete("/employee-components/{id}", payrollHandler.RemoveEmployeeComponent)
				})

				r.Route("/periods", func(r chi.Router) {
					r.Get("/", payrollHandler.ListPeriods)
					r.Get("/{id}", payrollHandler.GetPeriod)
					r.Get("/{id}/summaries", payrollHandler.ListSummaries)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/", payrollHandler.CreatePeriod)
						r.Post("/{id}/process", payrollHandler.ProcessPeriod)
						r.Post("/{id}/approve", payrollHandler.ApprovePeriod)
						r.Post("/{id}/pay", payrollHandler.MarkPeriodPaid)
						r.Post("/{id}/cancel", payrollHandler.CancelPeriod)
					})
				})

				r.Route("/summaries/{id}", func(r chi.Router) {
					r.Get("/payslip", payrollHandler.GetPayslip)
					r.Get("/payslip.pdf", payrollHandler.DownloadPayslipPDF)
				})
			})
		})
	})
	return r
}
