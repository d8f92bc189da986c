package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/cargoflow/cargoflow/authenticator"
	"github.com/cargoflow/cargoflow/config"
	"github.com/cargoflow/cargoflow/controllers"
	"github.com/cargoflow/cargoflow/database"
	"github.com/cargoflow/cargoflow/middleware"
	"github.com/cargoflow/cargoflow/models"
	"github.com/cargoflow/cargoflow/repositories"
	"github.com/cargoflow/cargoflow/services"
)

func main() {
	// Load environment variables from .env file when present
	godotenv.Load()

	cfg := config.Load()
	log := setupLogger(cfg)

	// Initialize database
	if err := database.InitializeDatabase(cfg.DatabasePath); err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer database.CloseDB()

	db := database.GetDB()

	// Initialize repositories
	repos := repositories.NewRepositories(db)

	// Initialize services
	srvs := services.NewServices(db, repos, log)

	// Initialize controllers
	ctrl := controllers.NewControllers(srvs, log)

	// Initialize the optional OIDC provider
	var auth authenticator.Provider
	if cfg.OIDC.Enabled() {
		var err error
		auth, err = authenticator.NewOpenIDProvider(authenticator.OpenIDConfig{
			IssuerURL:    cfg.OIDC.IssuerURL,
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			CallbackURL:  cfg.OIDC.CallbackURL,
		})
		if err != nil {
			log.WithError(err).Fatal("failed to initialize OIDC provider")
		}
	}

	// Set up router
	r, err := setupRouter(cfg, ctrl, repos, auth)
	if err != nil {
		log.WithError(err).Fatal("failed to setup router")
	}

	log.WithFields(logrus.Fields{
		"port":     cfg.Port,
		"database": cfg.DatabasePath,
	}).Info("cargoflow starting")

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// setupLogger configures the process logger from config
func setupLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	return log
}

// setupRouter configures all routes
func setupRouter(cfg *config.Config, ctrl *controllers.Controllers, repos *repositories.Repositories, auth authenticator.Provider) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(chimiddleware.Compress(5))

	// Session middleware
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "cargoflow_session",
		Secure:         cfg.UseHTTPS,
		Gclifetime:     int64(cfg.SessionLifetime),
		Maxlifetime:    int64(cfg.SessionLifetime),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)

	// Attach the acting principal to every request
	r.Use(middleware.LoadActor(repos.Users))

	// PUBLIC ROUTES (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status": "healthy", "service": "cargoflow"}`)
	})
	r.Post("/api/login", ctrl.Auth.Login)
	r.Post("/api/logout", ctrl.Auth.Logout)

	// SSO routes, only when an OIDC provider is configured
	if auth != nil {
		r.Get("/login/sso", ctrl.Auth.LoginSSO(auth))
		r.Get("/callback", ctrl.Auth.Callback(auth))
	}

	// AUTHENTICATED ROUTES
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/api/me", ctrl.Auth.Me)

		r.Route("/api/suppliers", func(r chi.Router) {
			r.Get("/", ctrl.Supply.ListSuppliers)
			r.Post("/", ctrl.Supply.CreateSupplier)
			r.Get("/{id}", ctrl.Supply.GetSupplier)
			r.Put("/{id}", ctrl.Supply.UpdateSupplier)
			r.Delete("/{id}", ctrl.Supply.DeleteSupplier)
		})

		r.Route("/api/products", func(r chi.Router) {
			r.Get("/", ctrl.Supply.ListProducts)
			r.Post("/", ctrl.Supply.CreateProduct)
			r.Get("/{id}", ctrl.Supply.GetProduct)
			r.Put("/{id}", ctrl.Supply.UpdateProduct)
		})

		r.Route("/api/purchase-orders", func(r chi.Router) {
			r.Get("/", ctrl.Supply.ListPurchaseOrders)
			r.Post("/", ctrl.Supply.CreatePurchaseOrder)
			r.Get("/{id}", ctrl.Supply.GetPurchaseOrder)
			r.Put("/{id}", ctrl.Supply.UpdatePurchaseOrder)
			r.Delete("/{id}", ctrl.Supply.DeletePurchaseOrder)
		})

		r.Route("/api/shipments", func(r chi.Router) {
			r.Get("/", ctrl.Shipments.List)
			r.Post("/", ctrl.Shipments.Create)
			r.Get("/{id}", ctrl.Shipments.Get)
			r.Put("/{id}", ctrl.Shipments.Update)
			r.Delete("/{id}", ctrl.Shipments.Delete)
			r.Post("/{id}/status", ctrl.Shipments.ChangeStatus)
			r.Get("/{id}/history", ctrl.Shipments.StatusHistory)
			r.Get("/{id}/chat", ctrl.Chat.List)
			r.Post("/{id}/chat", ctrl.Chat.Post)
		})

		r.Route("/api/documents", func(r chi.Router) {
			r.Get("/", ctrl.Documents.List)
			r.Post("/", ctrl.Documents.Upload)
			r.Get("/{id}", ctrl.Documents.Get)
			r.Put("/{id}", ctrl.Documents.Update)
			r.Delete("/{id}", ctrl.Documents.Delete)
		})

		r.Route("/api/stock", func(r chi.Router) {
			r.Get("/movements", ctrl.Stock.ListMovements)
			r.Post("/movements", ctrl.Stock.RecordMovement)
			r.Get("/movements/{id}", ctrl.Stock.GetMovement)
			r.Delete("/movements/{id}", ctrl.Stock.DeleteMovement)
			r.Get("/balance", ctrl.Stock.Balance)
		})

		r.Route("/api/sales", func(r chi.Router) {
			r.Get("/", ctrl.Stock.ListSales)
			r.Post("/", ctrl.Stock.RecordSale)
			r.Get("/{id}", ctrl.Stock.GetSale)
			r.Delete("/{id}", ctrl.Stock.DeleteSale)
		})

		r.Get("/api/alerts", ctrl.Alerts.List)

		r.Get("/api/audit-events", ctrl.Audit.ListEvents)

		// Privileged routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleBoss, models.RoleHQAdmin))

			r.Post("/api/users", ctrl.Auth.CreateUser)
			r.Get("/api/reports/audit/daily", ctrl.Audit.DailyReport)
			r.Get("/api/reports/audit/weekly", ctrl.Audit.WeeklyReport)
			r.Get("/api/reports/audit/monthly", ctrl.Audit.MonthlyReport)
		})
	})

	return r, nil
}
