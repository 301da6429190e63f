package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Router registers the routes and the middleware stack.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	if s.trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(s.recoverMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method Not Allowed")
	})

	r.Get("/", s.root)
	r.Get("/about", s.about)
	r.Get("/healthz", s.healthz)

	r.Post("/signup", s.signup)
	r.Post("/login", s.login)
	r.Post("/logout", s.logout)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/profile", s.profile)
		r.Get("/login-history", s.loginHistory)
	})

	return r
}
