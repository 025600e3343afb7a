package api

import (
	"net/http"
	"time"

	"github.com/erazemk/boardcamp/internal/db"
)

// Options configures the router.
type Options struct {
	// RequireAuth puts every mutating route behind a staff token and
	// registers the /auth endpoints.
	RequireAuth bool
	JWTSecret   string

	// Now is the clock used for rent and return dates. Defaults to time.Now.
	Now func() time.Time
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(conn *db.Conn, opts Options) http.Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	mux := http.NewServeMux()

	categoriesHandler := &CategoriesHandler{DB: conn}
	gamesHandler := &GamesHandler{DB: conn}
	customersHandler := &CustomersHandler{DB: conn, Now: opts.Now}
	rentalsHandler := &RentalsHandler{DB: conn, Now: opts.Now}
	healthHandler := &HealthHandler{DB: conn}

	// write wraps mutating handlers; reads stay public.
	write := func(h http.HandlerFunc) http.Handler { return h }
	if opts.RequireAuth {
		authMW := AuthMiddleware(opts.JWTSecret, conn)
		write = func(h http.HandlerFunc) http.Handler { return authMW(h) }

		authHandler := &AuthHandler{DB: conn, JWTSecret: opts.JWTSecret}
		mux.HandleFunc("POST /auth/login", authHandler.Login)
		mux.Handle("POST /auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
		mux.Handle("PUT /auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	}

	mux.HandleFunc("GET /health", healthHandler.Check)

	// Categories.
	mux.HandleFunc("GET /categories", categoriesHandler.List)
	mux.Handle("POST /categories", write(categoriesHandler.Create))

	// Games.
	mux.HandleFunc("GET /games", gamesHandler.List)
	mux.Handle("POST /games", write(gamesHandler.Create))

	// Customers.
	mux.HandleFunc("GET /customers", customersHandler.List)
	mux.HandleFunc("GET /customers/{id}", customersHandler.Get)
	mux.Handle("POST /customers", write(customersHandler.Create))
	mux.Handle("PUT /customers/{id}", write(customersHandler.Update))

	// Rentals.
	mux.HandleFunc("GET /rentals", rentalsHandler.List)
	mux.HandleFunc("GET /rentals/metrics", rentalsHandler.Metrics)
	mux.HandleFunc("GET /rentals/{id}", rentalsHandler.Get)
	mux.Handle("POST /rentals", write(rentalsHandler.Create))
	mux.Handle("POST /rentals/{id}/return", write(rentalsHandler.Return))
	mux.Handle("DELETE /rentals/{id}", write(rentalsHandler.Delete))

	return Recover(mux)
}
