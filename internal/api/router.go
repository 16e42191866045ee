package api

import (
	"net/http"
	"time"

	"catalog_portal/internal/api/graphql"
	"catalog_portal/internal/api/handler"
	"catalog_portal/internal/api/middleware"
	"catalog_portal/internal/app/service"
	"catalog_portal/internal/common/security"
	"catalog_portal/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

type Services struct {
	Auth    *service.AuthService
	User    *service.UserService
	Product *service.ProductService
}

func NewRouter(svc Services, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(middleware.Metrics)

	// Looks for "Authorization: Bearer T"; routes opt in with middleware.Authenticator.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	gql := graphql.Handler(graphql.NewSchema(svc.Auth, svc.User))
	r.Post("/graphql", gql.ServeHTTP)
	r.Get("/graphql", gql.ServeHTTP)

	productHandler := handler.NewProductHandler(svc.Product)
	r.Route("/api/products", productHandler.RegisterRoutes)

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(svc.Auth, svc.User)
		v1.Group(authHandler.RegisterRoutes)

		userHandler := handler.NewUserHandler(svc.User)
		v1.Route("/users", userHandler.RegisterRoutes)
	})

	return r
}
