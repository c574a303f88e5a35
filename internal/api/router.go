package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/storefront/storefront-api/internal/api/handler"
	"github.com/storefront/storefront-api/internal/api/middleware"
	"github.com/storefront/storefront-api/internal/api/validation"
	"github.com/storefront/storefront-api/internal/core/ports"
)

const (
	apiPrefix = "/api/v1"
	bodyLimit = "1M"
)

// Services groups the application services the routes dispatch to.
type Services struct {
	Auth       ports.AuthService
	Users      ports.UserService
	Categories ports.CategoryService
	Products   ports.ProductService
	Orders     ports.OrderService
	Audit      ports.AuditService
}

// Deps is everything NewRouter needs to build the HTTP surface.
type Deps struct {
	Log       zerolog.Logger
	Services  Services
	Tokens    ports.TokenIssuer
	Validator *validation.Validator
	// Lookup re-reads accounts on gated routes. Nil trusts the token's claims.
	Lookup middleware.IdentityLookup
	// Registerer and Gatherer enable HTTP metrics and /metrics when non-nil.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Readiness  map[string]handler.Pinger
}

// route is one row of the route table. A nil access marks a public route.
type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
	access  *middleware.Requirement
	schema  string
}

var (
	authenticated = &middleware.Authenticated
	adminOnly     = &middleware.AdminOnly
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echomiddleware.CORS())
	if d.Registerer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "storefront",
			Registerer: d.Registerer,
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: d.Gatherer,
		}))
	}

	// --- Health probes and docs (no auth required) ---
	health := handler.NewHealthHandler(d.Readiness)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API routes ---
	authMW := middleware.Auth(d.Tokens)
	gate := middleware.NewGate(d.Lookup, d.Log)
	g := e.Group(apiPrefix)

	for _, r := range routes(d.Services) {
		var chain []echo.MiddlewareFunc
		if r.access != nil {
			chain = append(chain, authMW, gate.Require(*r.access))
		}
		if r.schema != "" {
			chain = append(chain, middleware.Validate(d.Validator, r.schema))
		}
		g.Add(r.method, r.path, r.handler, chain...)
	}

	return e
}

func routes(s Services) []route {
	users := handler.NewUserHandler(s.Auth, s.Users)
	categories := handler.NewCategoryHandler(s.Categories)
	products := handler.NewProductHandler(s.Products)
	orders := handler.NewOrderHandler(s.Orders)
	audit := handler.NewAuditHandler(s.Audit)

	return []route{
		// users
		{http.MethodPost, "/users", users.Register, nil, validation.CreateUser},
		{http.MethodPost, "/users/login", users.Login, nil, validation.Login},
		{http.MethodGet, "/users", users.List, adminOnly, ""},
		{http.MethodGet, "/users/profile", users.Profile, authenticated, ""},
		{http.MethodPatch, "/users/password", users.ChangePassword, nil, validation.ChangePassword},
		{http.MethodPost, "/users/password", users.RequestPassword, authenticated, validation.RequestPassword},
		{http.MethodPut, "/users/:id", users.Update, authenticated, validation.UpdateUser},
		{http.MethodDelete, "/users/:id", users.Delete, authenticated, ""},
		{http.MethodPost, "/users/:id/ban", users.Ban, adminOnly, ""},
		{http.MethodPost, "/users/:id/unban", users.Unban, adminOnly, ""},

		// categories
		{http.MethodGet, "/categories", categories.List, nil, ""},
		{http.MethodGet, "/categories/:id", categories.Get, nil, ""},
		{http.MethodPost, "/categories", categories.Create, adminOnly, validation.CreateCategory},
		{http.MethodPut, "/categories/:id", categories.Update, adminOnly, validation.UpdateCategory},
		{http.MethodDelete, "/categories/:id", categories.Delete, adminOnly, ""},

		// products
		{http.MethodGet, "/products", products.List, nil, ""},
		{http.MethodGet, "/products/category/:categoryId", products.ListByCategory, nil, ""},
		{http.MethodGet, "/products/:id", products.Get, nil, ""},
		{http.MethodPost, "/products", products.Create, adminOnly, validation.CreateProduct},
		{http.MethodPut, "/products/:id", products.Update, adminOnly, validation.UpdateProduct},
		{http.MethodDelete, "/products/:id", products.Delete, adminOnly, ""},

		// orders
		{http.MethodGet, "/orders", orders.ListAll, adminOnly, ""},
		{http.MethodPost, "/orders/:id", orders.Create, authenticated, validation.CreateOrder},
		{http.MethodGet, "/orders/:id", orders.ListForUser, authenticated, ""},
		{http.MethodPut, "/orders/:id", orders.Update, authenticated, validation.UpdateOrder},
		{http.MethodDelete, "/orders/:id", orders.Delete, authenticated, ""},

		// audit
		{http.MethodGet, "/audit", audit.List, adminOnly, ""},
	}
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
