package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"DueReportSaas/api"
	"DueReportSaas/api/constants"
	"DueReportSaas/internal/logger"
)

const defaultPingInterval = 30 * time.Second

// Events handles GET /report/events: a server-sent event stream of the
// user's upload outcomes with periodic pings.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		api.RespondWithError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}
	userID := api.GetUserIDFromCtx(r.Context())

	w.Header().Set(constants.ContentTypeText, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	stream, cancel := h.Notes.Subscribe(userID)
	defer cancel()
	logger.Default().WithField("user_id", userID).Info("[SSE] connected")
	defer logger.Default().WithField("user_id", userID).Info("[SSE] disconnected")

	if err := sendEvent(w, flusher, map[string]interface{}{
		"type":    "connected",
		"message": "SSE connection established",
		"time":    h.Now().Format(time.RFC3339),
	}); err != nil {
		return
	}

	interval := h.PingInterval
	if interval <= 0 {
		interval = defaultPingInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		var err error
		select {
		case <-r.Context().Done():
			return
		case n, open := <-stream:
			if !open {
				return
			}
			err = sendEvent(w, flusher, map[string]interface{}{
				"type":         "notification",
				"notification": n,
			})
		case <-ticker.C:
			err = sendEvent(w, flusher, map[string]interface{}{
				"type": "ping",
				"time": h.Now().Format(time.RFC3339),
			})
		}
		if err != nil {
			return
		}
	}
}

func sendEvent(w http.ResponseWriter, flusher http.Flusher, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
