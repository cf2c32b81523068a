package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"DueReportSaas/api/auth"
	"DueReportSaas/internal/config"
)

// ExtractUserID parses the request body ONCE and extracts user_id.
// JSON bodies, multipart uploads, urlencoded forms and the query string are
// all accepted. The body is restored for the handler.
func ExtractUserID(r *http.Request) (string, error) {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, config.MaxUploadBytes+1))
		if err != nil {
			return "", fmt.Errorf("failed to read body: %w", err)
		}
		r.Body.Close()
	}
	restore := func() { r.Body = io.NopCloser(bytes.NewReader(body)) }
	defer restore()

	// Try JSON first (we already have bytes)
	var reqMap map[string]interface{}
	if err := json.Unmarshal(body, &reqMap); err == nil {
		if userID, ok := reqMap["user_id"].(string); ok && strings.TrimSpace(userID) != "" {
			return strings.TrimSpace(userID), nil
		}
	}

	restore()
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if strings.Contains(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
			return "", fmt.Errorf("failed to parse multipart form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return "", fmt.Errorf("failed to parse form: %w", err)
	}
	if userID := strings.TrimSpace(r.FormValue("user_id")); userID != "" {
		return userID, nil
	}
	return "", fmt.Errorf("user_id not found in request")
}

// ValidateSession checks if the user has an active session (in-memory check, no DB)
// Returns the session object or nil if not found
func ValidateSession(userID string) *auth.UserSession {
	for _, s := range auth.GetActiveSessions() {
		if s.UserID == userID {
			return s
		}
	}
	return nil
}
