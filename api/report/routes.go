package report

import (
	"net/http"

	"DueReportSaas/api"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRouter mounts the report endpoints. Everything except health sits behind
// the session gate.
func NewRouter(h *Handler, pool *pgxpool.Pool) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/report/health", h.Health).Methods(http.MethodGet)

	protected := router.PathPrefix("/report").Subrouter()
	protected.Use(api.SessionMiddleware(pool))
	protected.HandleFunc("/upload", h.Upload).Methods(http.MethodPost)
	protected.HandleFunc("/preview", h.Preview).Methods(http.MethodPost)
	protected.HandleFunc("/download/{id}", h.Download).Methods(http.MethodGet)
	protected.HandleFunc("/notifications", h.Notifications).Methods(http.MethodGet)
	protected.HandleFunc("/notifications", h.ClearNotifications).Methods(http.MethodDelete)
	protected.HandleFunc("/events", h.Events).Methods(http.MethodGet)
	return router
}
