package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"postsapi/app/controllers"
	"postsapi/app/middleware"
	"postsapi/app/repositories"
	"postsapi/app/services"
)

// Config controls where the API is mounted and what is exposed beside it.
type Config struct {
	// MountPath prefixes every post route, e.g. "/api/posts". Mounted at "/",
	// the health and metrics paths take precedence, so posts with the ids
	// "health" or "metrics" cannot be reached by GET.
	MountPath string
	// MetricsPath serves prometheus metrics when non-empty.
	MetricsPath string
	Services    services.Options
}

// SetupRoutes builds the application's handler over store.
func SetupRoutes(store repositories.Store, log zerolog.Logger, cfg Config) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	router.Use(middleware.Metrics)
	router.Use(middleware.ContentTypeJSON(cfg.MountPath))

	router.HandleFunc("/health", health).Methods(http.MethodGet)
	if cfg.MetricsPath != "" {
		router.Handle(cfg.MetricsPath, promhttp.Handler()).Methods(http.MethodGet)
	}

	postController := controllers.NewPostController(services.NewPostService(store, cfg.Services))
	commentController := controllers.NewCommentController(services.NewCommentService(store, cfg.Services))

	posts := router
	if cfg.MountPath != "" && cfg.MountPath != "/" {
		posts = router.PathPrefix(cfg.MountPath).Subrouter()
		posts.NotFoundHandler = router.NotFoundHandler
		posts.MethodNotAllowedHandler = router.MethodNotAllowedHandler
		posts.HandleFunc("", postController.Index).Methods(http.MethodGet)
		posts.HandleFunc("", postController.Create).Methods(http.MethodPost)
	}
	posts.HandleFunc("/", postController.Index).Methods(http.MethodGet)
	posts.HandleFunc("/", postController.Create).Methods(http.MethodPost)
	posts.HandleFunc("/{id}", postController.Show).Methods(http.MethodGet)
	posts.HandleFunc("/{id}", postController.Update).Methods(http.MethodPut)
	posts.HandleFunc("/{id}", postController.Delete).Methods(http.MethodDelete)
	posts.HandleFunc("/{id}/comments", commentController.Index).Methods(http.MethodGet)
	posts.HandleFunc("/{id}/comments", commentController.Create).Methods(http.MethodPost)

	// Unmatched requests skip router.Use middleware, so these wrap the router.
	var handler http.Handler = router
	handler = middleware.Recoverer(handler)
	handler = middleware.Logger(log)(handler)
	handler = middleware.RequestID(handler)
	return handler
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not Found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(controllers.ErrorResponse{ErrorMessage: message})
}
