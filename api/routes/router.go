package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carewell/carebook-backend/api/controllers"
	"github.com/carewell/carebook-backend/api/middleware"
	"github.com/carewell/carebook-backend/internal/auth"
	"github.com/carewell/carebook-backend/internal/balance"
	"github.com/carewell/carebook-backend/internal/bookings"
	"github.com/carewell/carebook-backend/internal/customers"
	"github.com/carewell/carebook-backend/internal/ledger"
	"github.com/carewell/carebook-backend/internal/operators"
	"github.com/carewell/carebook-backend/internal/stats"
	"github.com/carewell/carebook-backend/pkg/auth/session"
	"github.com/carewell/carebook-backend/pkg/config"
	"github.com/carewell/carebook-backend/pkg/db"
	"github.com/carewell/carebook-backend/pkg/enums"
	"github.com/carewell/carebook-backend/pkg/logger"
	"github.com/carewell/carebook-backend/pkg/redis"
)

// Services bundles the wired domain services the router mounts.
type Services struct {
	Auth      auth.Service
	Register  auth.RegisterService
	Customers customers.Repository
	Operators *operators.Repository
	Bookings  bookings.Service
	Ledger    ledger.Service
	Balance   balance.Service
	Stats     stats.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions *session.Manager,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginPhoneLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterPhoneLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, controllers.ReadinessDeps(dbP, redisClient)))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.MemberLogin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg), middleware.Idempotency(redisClient, logg)).
			Post("/register", controllers.Register(svcs.Register, svcs.Auth, logg))
		r.Post("/refresh", controllers.Refresh(svcs.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).
			Post("/logout", controllers.Logout(svcs.Auth, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AdminLogin(svcs.Auth, logg))
	})

	// member surface
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/me", func(r chi.Router) {
			r.Get("/", controllers.MyProfile(svcs.Customers, logg))
			r.Get("/transactions", controllers.MyTransactions(svcs.Ledger, logg))
			r.Get("/bookings", controllers.MyBookings(svcs.Bookings, logg))
		})
		r.Post("/bookings", controllers.CreateBooking(svcs.Bookings, logg))
	})

	// back-office surface
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(string(enums.ActorRoleAdmin), logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.AdminCustomerList(svcs.Customers, logg))
			r.Get("/{customerId}", controllers.AdminCustomerDetail(svcs.Customers, logg))
			r.Patch("/{customerId}", controllers.AdminCustomerUpdate(svcs.Customers, logg))
			r.Put("/{customerId}/balance", controllers.AdminCustomerBalance(svcs.Balance, svcs.Operators, logg))
			r.Get("/{customerId}/ledger", controllers.AdminCustomerLedger(svcs.Ledger, logg))
		})
		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", controllers.AdminBookingList(svcs.Bookings, logg))
			r.Get("/{bookingId}", controllers.AdminBookingDetail(svcs.Bookings, logg))
			r.Post("/{bookingId}/advance", controllers.AdminBookingAdvance(svcs.Bookings, logg))
		})
		r.Get("/ledger", controllers.AdminLedgerList(svcs.Ledger, logg))
		r.Get("/stats", controllers.AdminStats(svcs.Stats, logg))
	})

	return r
}
