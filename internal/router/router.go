// Package router sets up all HTTP routes and middleware chains for the
// essay platform. Public essay pages and the authenticated admin area
// get separate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fieldnotes/internal/handlers"
	"fieldnotes/internal/middleware"
	"fieldnotes/internal/session"
	"fieldnotes/web"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, auth *handlers.Auth, editor *handlers.Editor,
	review *handlers.Review, media *handlers.Media, public *handlers.Public, secure bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Embedded static assets.
	r.Handle("/static/*", http.FileServer(http.FS(web.StaticFS)))

	// Login attempts are rate limited per client IP.
	loginLimiter := middleware.NewLoginLimiter(10, time.Minute)

	// Admin routes — require authentication and CSRF protection.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(secure))

		// Auth pages — accessible without a session.
		r.Get("/login", auth.LoginPage)
		r.With(loginLimiter.Limit).Post("/login", auth.LoginSubmit)
		r.Post("/logout", auth.Logout)

		// Authenticated editor area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Route("/essays", func(r chi.Router) {
				r.Get("/", editor.EssaysList)
				r.Post("/", editor.EssaySave)
				r.Post("/autosave", editor.Autosave)
				r.Get("/{id}", editor.EssayEdit)
				r.Post("/{id}", editor.EssaySave)
				r.Post("/{id}/media", media.Upload)
				r.With(middleware.RequireAdmin).Post("/{id}/review", review.Decide)
			})

			r.Post("/media/{id}/delete", media.Delete)
			r.Post("/revisions/{revisionID}/restore", editor.RevisionRestore)

			// Review queue — admin only.
			r.With(middleware.RequireAdmin).Get("/review", review.Queue)
		})
	})

	// Public essay pages.
	r.Get("/essays", public.EssaysIndex)
	r.Get("/essays/{slug}", public.EssayBySlug)
	r.Get("/", redirectToEssays)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func redirectToEssays(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/essays", http.StatusMovedPermanently)
}
