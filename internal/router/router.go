// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// generator server. Routes are grouped into the workspace API, the backend
// collaborators, the preview frame and the host page.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"webtg/internal/account"
	"webtg/internal/aiclient"
	"webtg/internal/handlers"
	"webtg/internal/metrics"
	"webtg/internal/middleware"
)

// Rate limits per client IP.
const (
	sendOTPLimit   = 5
	verifyOTPLimit = 10
	assistLimit    = 30
	otpWindow      = 10 * time.Minute
	assistWindow   = 15 * time.Minute
)

// Deps holds the handler groups and settings the router wires together.
type Deps struct {
	Backend   *handlers.Backend
	Workspace *handlers.Workspace
	Preview   *handlers.Preview
	Account   *handlers.Account
	Metrics   *metrics.Metrics
	// Static is served at / and /static/. nil disables the host page.
	Static fs.FS
	// AllowedOrigins restricts CORS. Empty reflects any origin.
	AllowedOrigins []string
}

// Router is the configured handler plus the limiters it owns.
type Router struct {
	chi.Router
	limiters []*middleware.RateLimiter
}

// Stop terminates the rate limiter cleanup goroutines.
func (rt *Router) Stop() {
	for _, l := range rt.limiters {
		l.Stop()
	}
}

// New creates the configured Chi router with all middleware and route
// groups wired up.
func New(d Deps) *Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(corsOptions(d.AllowedOrigins)))

	sendLimiter := middleware.NewRateLimiter(sendOTPLimit, otpWindow, "Too many OTP requests. Please wait and try again.")
	verifyLimiter := middleware.NewRateLimiter(verifyOTPLimit, otpWindow, "Too many OTP verification attempts. Please wait and retry.")
	assistLimiter := middleware.NewRateLimiter(assistLimit, assistWindow, "AI limit reached. Try again after some time.")
	rt := &Router{Router: r, limiters: []*middleware.RateLimiter{sendLimiter, verifyLimiter, assistLimiter}}

	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", d.Backend.Health)

		// Backend collaborators, rate limited per client IP.
		r.With(sendLimiter.Middleware).Post(trimAPI(account.SendOTPPath), d.Backend.SendOTP)
		r.With(verifyLimiter.Middleware).Post(trimAPI(account.VerifyOTPPath), d.Backend.VerifyOTP)
		r.With(assistLimiter.Middleware).Post(trimAPI(aiclient.AssistPath), d.Backend.Assist)

		r.Get("/templates", d.Workspace.Catalog)

		r.Route("/workspace", func(r chi.Router) {
			r.Get("/", d.Workspace.State)
			r.Post("/select", d.Workspace.Select)
			r.Post("/palette", d.Workspace.Palette)
			r.Post("/generate", d.Workspace.Generate)
			r.Post("/enhance", d.Workspace.Enhance)
			r.Post("/save", d.Workspace.Save)
			r.Post("/download", d.Workspace.Download)
			r.Get("/download.zip", d.Workspace.DownloadZip)
			r.Post("/publish", d.Workspace.Publish)
		})

		r.Route("/saved", func(r chi.Router) {
			r.Get("/", d.Workspace.ListSaved)
			r.Delete("/", d.Workspace.ClearSaved)
			r.Post("/{id}/preview", d.Workspace.PreviewSaved)
			r.Post("/{id}/download", d.Workspace.DownloadSaved)
			r.Get("/{id}/download.zip", d.Workspace.DownloadSavedZip)
			r.Delete("/{id}", d.Workspace.DeleteSaved)
		})

		r.Get("/settings", d.Workspace.Settings)
		r.Put("/settings", d.Workspace.UpdateSettings)

		r.Route("/account", func(r chi.Router) {
			r.Get("/me", d.Account.Me)
			r.Post("/login", d.Account.Login)
			r.Post("/signup", d.Account.Signup)
			r.Post("/verify", d.Account.Verify)
			r.Post("/logout", d.Account.Logout)
		})
	})

	// Preview frame.
	r.Get("/preview/", d.Preview.Current)
	r.Get("/preview/qr.png", d.Preview.QRCode)
	r.Get("/preview/{file}", d.Preview.Navigate)

	// Host page and its assets.
	if d.Static != nil {
		files := http.FileServerFS(d.Static)
		r.Handle("/static/*", http.StripPrefix("/static", files))
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFileFS(w, r, d.Static, "index.html")
		})
	}

	return rt
}

// corsOptions mirrors the request origin when no origins are configured,
// so credentialed requests from any host page are accepted.
func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", aiclient.KeyHeader},
		ExposedHeaders:   []string{"Content-Disposition", "RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(origins) > 0 {
		opts.AllowedOrigins = origins
	} else {
		opts.AllowOriginFunc = func(*http.Request, string) bool { return true }
	}
	return opts
}

// trimAPI drops the /api prefix for routes mounted under r.Route("/api").
func trimAPI(path string) string {
	return path[len("/api"):]
}
