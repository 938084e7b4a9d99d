package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"ourhour/internal/delivery/http/controllers"
	"ourhour/internal/delivery/http/middleware"
	"ourhour/internal/domain"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Logger         *slog.Logger
	Catalog        domain.CatalogService
	Bookings       domain.BookingService
	Dashboard      domain.DashboardService
	Session        domain.SessionService
	Verifier       domain.TokenVerifier
	AllowedOrigins []string
	// AuthRateLimit is the per-client requests-per-minute budget of the login and register routes.
	AuthRateLimit int
}

// NewRouter initializes the HTTP router with all application routes, wrapped in CORS and
// request logging.
func NewRouter(cfg RouterConfig) http.Handler {
	events := controllers.NewEventController(cfg.Logger, cfg.Catalog)
	communities := controllers.NewCommunityController(cfg.Logger, cfg.Catalog)
	bookings := controllers.NewBookingController(cfg.Logger, cfg.Bookings)
	dashboard := controllers.NewDashboardController(cfg.Logger, cfg.Dashboard)
	session := controllers.NewSessionController(cfg.Logger, cfg.Session)

	auth := middleware.RequireAuth(cfg.Verifier, cfg.Session, cfg.Logger)
	limited := middleware.NewRateLimiter(cfg.AuthRateLimit).Wrap

	mux := http.NewServeMux()

	// Catalog
	mux.HandleFunc("GET /events", events.ListEvents)
	mux.HandleFunc("GET /events/search", events.SearchEvents)
	mux.HandleFunc("GET /events/recommendations", events.Recommendations)
	mux.HandleFunc("GET /events/featured", events.FeaturedEvents)
	mux.HandleFunc("GET /events/upcoming", events.UpcomingEvents)
	mux.HandleFunc("GET /events/categories", events.CategoryCounts)
	mux.HandleFunc("GET /events/{id}", events.GetEvent)
	mux.HandleFunc("POST /events", auth(events.CreateEvent))
	mux.HandleFunc("POST /events/{id}/like", auth(events.ToggleLike))
	mux.HandleFunc("POST /events/{id}/cancel", auth(events.CancelEvent))

	// Bookings
	mux.HandleFunc("POST /events/{id}/bookings", auth(bookings.BookEvent))
	mux.HandleFunc("GET /bookings", auth(bookings.MyBookings))
	mux.HandleFunc("POST /bookings/{id}/cancel", auth(bookings.CancelBooking))
	mux.HandleFunc("POST /bookings/{id}/attend", auth(bookings.MarkAttended))
	mux.HandleFunc("POST /bookings/{id}/feedback", auth(bookings.LeaveFeedback))

	// Communities
	mux.HandleFunc("GET /communities", communities.ListCommunities)
	mux.HandleFunc("POST /communities/{id}/join", auth(communities.JoinCommunity))

	// Session
	mux.HandleFunc("GET /session", session.GetSession)
	mux.HandleFunc("POST /session/login", limited(session.Login))
	mux.HandleFunc("POST /session/register", limited(session.Register))
	mux.HandleFunc("POST /session/logout", auth(session.Logout))
	mux.HandleFunc("PATCH /session/profile", auth(session.UpdateProfile))

	// Dashboards
	mux.HandleFunc("GET /dashboard/attendee", auth(dashboard.AttendeeStats))
	mux.HandleFunc("GET /dashboard/host", auth(dashboard.HostStats))
	mux.HandleFunc("GET /dashboard/admin", auth(dashboard.AdminStats))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(cfg.Logger, middleware.CORS(cfg.AllowedOrigins, mux))
}
