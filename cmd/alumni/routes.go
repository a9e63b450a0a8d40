// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/daf-alumni/internal/auth"
	"github.com/olegiv/daf-alumni/internal/config"
	"github.com/olegiv/daf-alumni/internal/handler"
	"github.com/olegiv/daf-alumni/internal/metrics"
	"github.com/olegiv/daf-alumni/internal/middleware"
	"github.com/olegiv/daf-alumni/internal/session"
)

// requestTimeout bounds every request except the live streams.
const requestTimeout = 30 * time.Second

// routerDeps is everything the router needs.
type routerDeps struct {
	cfg             *config.Config
	base            *handler.Base
	sessionManager  *scs.SessionManager
	sessions        *session.Context
	loginProtection *middleware.LoginProtection
	remember        *auth.Remember
	metrics         *metrics.Metrics
	health          *handler.HealthHandler
	live            *handler.LiveHandler
	static          fs.FS
}

func newRouter(d routerDeps) chi.Router {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics(d.metrics))
	r.Use(chimw.GetHead)
	r.Use(chimw.StripSlashes)

	securityConfig := middleware.DefaultSecurityHeadersConfig(d.cfg.IsDevelopment())
	securityConfig.ExcludePaths = []string{"/static/", "/metrics"}
	r.Use(middleware.SecurityHeaders(securityConfig))
	slog.Info("security headers middleware initialized", "hsts", !d.cfg.IsDevelopment())

	r.Use(middleware.RequestPath)
	r.Use(middleware.Language)

	// Operational endpoints skip sessions and CSRF.
	r.Get("/health", d.health.Health)
	r.Get("/health/live", d.health.Liveness)
	r.Handle("/metrics", d.metrics.Handler())

	seoH := handler.NewSEOHandler(d.base, d.cfg.SiteURL, d.cfg.IsDevelopment())
	r.Get("/robots.txt", seoH.Robots)
	r.Get("/sitemap.xml", seoH.Sitemap)

	staticHandler := middleware.StaticCache(7*24*time.Hour)(http.StripPrefix("/static/", http.FileServer(http.FS(d.static))))
	r.Handle("/static/*", staticHandler)

	pub := handler.NewPublicHandler(d.base)
	authH := handler.NewAuthHandler(d.base, d.loginProtection, d.remember)
	dash := handler.NewDashboardHandler(d.base)
	admin := handler.NewAdminHandler(d.base)
	content := handler.NewContentHandler(d.base)
	media := handler.NewMediaHandler(d.base)
	inbox := handler.NewInboxHandler(d.base)
	docs := handler.NewDocumentsHandler(d.base)

	csrf := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(d.cfg.SessionSecret), d.cfg.IsDevelopment(), d.cfg.ServerAddr()))
	slog.Info("CSRF protection initialized", "secure", !d.cfg.IsDevelopment())

	r.Group(func(r chi.Router) {
		r.Use(d.sessionManager.LoadAndSave)
		r.Use(middleware.LoadActors(d.sessions))

		// Live streams run until the client leaves, so no request timeout.
		r.Get("/events/live", d.live.Countdowns)
		r.Get("/stats/live", d.live.Stats)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(requestTimeout))
			r.Use(chimw.Compress(5))
			r.Use(csrf)

			r.Get("/", pub.Home)
			r.Get("/about", pub.About)
			r.Get("/directory", pub.Directory)
			r.Get("/events", pub.Events)
			r.Get("/gallery", pub.Gallery)
			r.Get("/announcements/{id}", pub.Announcement)
			r.Get("/contact", pub.ContactForm)
			r.Post("/contact", pub.Contact)

			r.Get("/register", authH.RegisterForm)
			r.Post("/register", authH.Register)
			r.Get("/register/check-id", authH.CheckID)
			r.Post("/register/password-strength", authH.PasswordStrength)
			r.Get("/logout", authH.LogoutForm)
			r.Post("/logout", authH.Logout)
			r.Get("/admin/login", authH.AdminLoginForm)
			r.Get("/admin/logout", authH.AdminLogoutForm)
			r.Post("/admin/logout", authH.AdminLogout)
			r.Get("/login", authH.LoginForm)

			// Per-IP rate limit on credential posts.
			r.Group(func(r chi.Router) {
				r.Use(d.loginProtection.Middleware())
				r.Post("/login", authH.Login)
				r.Post("/admin/login", authH.AdminLogin)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAlumni)
				r.Get("/dashboard", dash.Overview)
				r.Get("/dashboard/profile", dash.ProfileForm)
				r.Post("/dashboard/profile", dash.Profile)
				r.Get("/dashboard/events", dash.Events)
				r.Get("/dashboard/messages", dash.Messages)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", admin.Dashboard)

				r.Get("/users", admin.Users)
				r.Post("/users/delete-all", admin.DeleteAllUsers)
				r.Get("/users/{id}", admin.User)
				r.Post("/users/{id}/delete", admin.DeleteUser)
				r.Get("/users/{id}/message", admin.MessageForm)
				r.Post("/users/{id}/message", admin.SendMessage)

				r.Get("/announcements", content.Announcements)
				r.Post("/announcements", content.CreateAnnouncement)
				r.Get("/announcements/{id}/edit", content.EditAnnouncement)
				r.Post("/announcements/{id}", content.UpdateAnnouncement)
				r.Post("/announcements/{id}/delete", content.DeleteAnnouncement)

				r.Get("/events", content.Events)
				r.Post("/events", content.SaveEvent)
				r.Get("/events/{id}/edit", content.EditEvent)
				r.Post("/events/{id}/delete", content.DeleteEvent)

				registerMediaRoutes(r, "/gallery", mediaRoutes{
					list:    media.Gallery,
					stage:   media.StageGallery,
					add:     media.AddGallery,
					discard: media.DiscardGallery,
					remove:  media.DeletePhoto,
					clear:   media.ClearGallery,
				})
				registerMediaRoutes(r, "/hero", mediaRoutes{
					list:    media.Hero,
					stage:   media.StageHero,
					add:     media.AddHero,
					discard: media.DiscardHero,
					remove:  media.DeleteSlide,
					clear:   media.ClearHero,
				})

				r.Get("/inbox", inbox.Inbox)
				r.Post("/inbox/mark-read", inbox.MarkRead)
				r.Post("/inbox/clear", inbox.Clear)
				r.Post("/inbox/{id}/read", inbox.MarkOneRead)
				r.Post("/inbox/{id}/delete", inbox.Delete)

				registerFormRoutes(r, "/contact-info", docs.ContactInfoForm, docs.SaveContactInfo)
				registerFormRoutes(r, "/about", docs.AboutForm, docs.SaveAbout)
				registerFormRoutes(r, "/settings", docs.SettingsForm, docs.SaveSettings)
				registerFormRoutes(r, "/password", docs.PasswordForm, docs.ChangePassword)
			})
		})

		r.NotFound(d.base.NotFound)
	})

	return r
}

// mediaRoutes are the handlers of one staged media library.
type mediaRoutes struct {
	list    http.HandlerFunc
	stage   http.HandlerFunc
	add     http.HandlerFunc
	discard http.HandlerFunc
	remove  http.HandlerFunc
	clear   http.HandlerFunc
}

// registerMediaRoutes registers a media library under base:
// GET /, POST /stage, /add, /staged/clear, /clear, /{id}/delete.
func registerMediaRoutes(r chi.Router, base string, h mediaRoutes) {
	r.Get(base, h.list)
	r.Post(base+"/stage", h.stage)
	r.Post(base+"/add", h.add)
	r.Post(base+"/staged/clear", h.discard)
	r.Post(base+"/clear", h.clear)
	r.Post(base+"/{id}/delete", h.remove)
}

// registerFormRoutes registers a single-form settings page.
func registerFormRoutes(r chi.Router, route string, get, save http.HandlerFunc) {
	r.Get(route, get)
	r.Post(route, save)
}
