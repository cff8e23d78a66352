package handlers

import (
	"net/http"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds what the router needs besides the handlers
type RouterConfig struct {
	CORSOrigin  string
	BodyLimit   int64
	Verifier    middleware.Verifier
	RateLimiter *middleware.RateLimiter
}

// NewRouter wires every route of the API
func NewRouter(cfg RouterConfig, users *UserHandler, feed *FeedHandler, tutors *TutorHandler) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.BodyLimit(cfg.BodyLimit))

	r.Get("/", Root)
	r.Get("/health", Health)
	r.Handle("/metrics", promhttp.Handler())

	requireAuth := middleware.RequireAuth(cfg.Verifier)

	r.Route("/auth", func(r chi.Router) {
		// Public routes
		r.Get("/health", AuthHealth)
		r.Group(func(r chi.Router) {
			if cfg.RateLimiter != nil {
				r.Use(cfg.RateLimiter.Middleware)
			}
			r.Post("/register", users.Register)
			r.Post("/login", users.Login)
		})
		r.Get("/profile/{username}", users.GetProfileByUsername)
		r.Get("/tutor/slots", tutors.ListSlots)
		r.With(middleware.OptionalAuth(cfg.Verifier)).Get("/feed", feed.GetFeed)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/profile", users.GetProfile)
			r.Put("/profile", users.UpdateProfile)
			r.Get("/current-user", users.CurrentUser)

			r.Post("/like/{postId}", feed.Like)
			r.Delete("/like/{postId}", feed.Unlike)
			r.Post("/comment/{postId}", feed.Comment)
			r.Post("/create-post", feed.CreatePost)
			r.Delete("/delete-post/{postId}", feed.DeletePost)

			r.Post("/tutor/slots", tutors.CreateSlot)
			r.Delete("/tutor/slots/{slotId}", tutors.DeleteSlot)
			r.Post("/tutor/book", tutors.BookSlot)
			r.Get("/tutor/bookings", tutors.ListBookings)
			r.Post("/become-tutor", tutors.BecomeTutor)
		})
	})

	return r
}
