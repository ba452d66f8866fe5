package http

import (
	"net/http"

	"belezure-api/internal/delivery/http/handler"
	"belezure-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	catalogHandler      *handler.CatalogHandler
	availabilityHandler *handler.AvailabilityHandler
	bookingHandler      *handler.BookingHandler
	serviceHandler      *handler.ServiceHandler
	uploadHandler       *handler.UploadHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	requestMiddleware   *middleware.RequestMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	catalogHandler *handler.CatalogHandler,
	availabilityHandler *handler.AvailabilityHandler,
	bookingHandler *handler.BookingHandler,
	serviceHandler *handler.ServiceHandler,
	uploadHandler *handler.UploadHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	requestMiddleware *middleware.RequestMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		catalogHandler:      catalogHandler,
		availabilityHandler: availabilityHandler,
		bookingHandler:      bookingHandler,
		serviceHandler:      serviceHandler,
		uploadHandler:       uploadHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		requestMiddleware:   requestMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/validate", r.authHandler.ValidatePersonal).Methods(http.MethodPost)
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Catalog (public)
	api.HandleFunc("/categories", r.catalogHandler.ListCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id}", r.catalogHandler.GetCategory).Methods(http.MethodGet)
	api.HandleFunc("/services", r.catalogHandler.ListServices).Methods(http.MethodGet)
	api.HandleFunc("/services/{id}", r.catalogHandler.GetService).Methods(http.MethodGet)
	api.HandleFunc("/providers/{id}", r.catalogHandler.GetProvider).Methods(http.MethodGet)
	api.HandleFunc("/providers/{id}/availability", r.availabilityHandler.GetBookingOptions).Methods(http.MethodGet)

	// Any signed-in user
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)
	protected.HandleFunc("/uploads", r.uploadHandler.UploadImage).Methods(http.MethodPost)
	protected.HandleFunc("/audit-logs", r.auditLogHandler.GetMyAuditLogs).Methods(http.MethodGet)

	// Client routes
	client := api.NewRoute().Subrouter()
	client.Use(r.authMiddleware.Authenticate)
	client.Use(middleware.RequireClient)
	client.HandleFunc("/providers/{id}/reviews", r.catalogHandler.CreateReview).Methods(http.MethodPost)
	client.HandleFunc("/bookings", r.bookingHandler.CreateBooking).Methods(http.MethodPost)
	client.HandleFunc("/bookings", r.bookingHandler.GetMyBookings).Methods(http.MethodGet)
	client.HandleFunc("/bookings/{id}/cancel", r.bookingHandler.CancelBooking).Methods(http.MethodPost)

	// Provider dashboard
	provider := api.PathPrefix("/provider").Subrouter()
	provider.Use(r.authMiddleware.Authenticate)
	provider.Use(middleware.RequireProvider)
	provider.HandleFunc("/services", r.serviceHandler.ListMine).Methods(http.MethodGet)
	provider.HandleFunc("/services", r.serviceHandler.Create).Methods(http.MethodPost)
	provider.HandleFunc("/availability", r.availabilityHandler.GetMyAvailability).Methods(http.MethodGet)
	provider.HandleFunc("/availability/{date}", r.availabilityHandler.SetSlots).Methods(http.MethodPut)
	provider.HandleFunc("/availability/{date}/slots/{index}", r.availabilityHandler.RenameSlot).Methods(http.MethodPatch)

	// Preflight for every path; the CORS middleware answers it
	r.router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {})

	r.router.Use(r.requestMiddleware.Log)
	r.router.Use(r.requestMiddleware.Timeout)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
