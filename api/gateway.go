package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"sync"

	"DueReportSaas/api/auth"
	"DueReportSaas/api/constants"
	"DueReportSaas/internal/logger"
	"DueReportSaas/pkg/loadbalancer"
)

// Global reference to AuthService (set from main or manager)
var (
	authService   *auth.AuthService
	authServiceMu sync.RWMutex
)

// SetAuthService allows wiring the AuthService from main/manager
func SetAuthService(svc *auth.AuthService) {
	authServiceMu.Lock()
	defer authServiceMu.Unlock()
	authService = svc
}

func currentAuthService() *auth.AuthService {
	authServiceMu.RLock()
	defer authServiceMu.RUnlock()
	return authService
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	return r.RemoteAddr
}

func GetSessionsHandler(w http.ResponseWriter, r *http.Request) {
	svc := currentAuthService()
	if svc == nil {
		RespondWithError(w, http.StatusInternalServerError, constants.ErrAuthUnavailable)
		return
	}
	RespondWithJSON(w, http.StatusOK, svc.GetActiveSessions())
}

// LoginHandler handles POST /auth/login
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSONShort)
		return
	}
	svc := currentAuthService()
	if svc == nil {
		RespondWithError(w, http.StatusInternalServerError, constants.ErrAuthUnavailable)
		return
	}
	session, err := svc.Login(req.Username, req.Password, extractClientIP(r))
	if err != nil {
		RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, session)
}

// LogoutHandler handles POST /auth/logout
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSONShort)
		return
	}
	svc := currentAuthService()
	if svc == nil {
		RespondWithError(w, http.StatusInternalServerError, constants.ErrAuthUnavailable)
		return
	}
	if err := svc.Logout(req.SessionID); err != nil {
		RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"message": "logout successful"})
}

// createReverseProxy returns a reverse proxy handler for the given target URL
func createReverseProxy(target string) (http.HandlerFunc, error) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("bad target URL %q", target)
	}
	proxy := httputil.NewSingleHostReverseProxy(u)

	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := extractClientIP(r)

		// user_id from a JSON body or the query string, for the audit line only
		userID := r.URL.Query().Get("user_id")
		if userID == "" && (r.Method == http.MethodPost || r.Method == http.MethodPut) &&
			strings.HasPrefix(r.Header.Get("Content-Type"), constants.ContentTypeJSON) {
			bodyBytes, err := io.ReadAll(r.Body)
			if err == nil && len(bodyBytes) > 0 {
				var bodyMap map[string]interface{}
				if err := json.Unmarshal(bodyBytes, &bodyMap); err == nil {
					userID, _ = bodyMap["user_id"].(string)
				}
			}
			r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		logger.Audit(fmt.Sprintf("[Gateway] Incoming request: %s %s from %s userId=%s", r.Method, r.URL.Path, clientIP, userID))

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		proxy.ServeHTTP(rw, r)

		var msg string
		if rw.statusCode >= 400 {
			msg = fmt.Sprintf("[Gateway][ERROR] Proxied to %s for %s, status %d, error: %s", target, r.URL.Path, rw.statusCode, rw.body.String())
		} else {
			msg = fmt.Sprintf("[Gateway] Proxied to %s for %s, status %d", target, r.URL.Path, rw.statusCode)
		}
		logger.Audit(msg)
	}, nil
}

// maxCapturedBody bounds how much of an error response is kept for the audit log.
const maxCapturedBody = 4 << 10

// responseWriter wraps http.ResponseWriter to capture status code and response body
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode >= 400 && rw.body.Len() < maxCapturedBody {
		rw.body.Write(b)
	}
	return rw.ResponseWriter.Write(b)
}

// NewGatewayMux wires the auth endpoints and proxies /report/ to the report
// service replicas in round-robin order.
func NewGatewayMux(reportURLs ...string) (*http.ServeMux, error) {
	proxies := make([]http.Handler, 0, len(reportURLs))
	for _, target := range reportURLs {
		p, err := createReverseProxy(strings.TrimSpace(target))
		if err != nil {
			return nil, err
		}
		proxies = append(proxies, p)
	}
	reportProxy, err := loadbalancer.NewLoadBalancer(proxies...)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	// Auth endpoints
	mux.HandleFunc("/auth/login", LoginHandler)
	mux.HandleFunc("/auth/logout", LogoutHandler)
	mux.HandleFunc("/get-sessions", GetSessionsHandler)
	mux.Handle("/report/", reportProxy)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("API Gateway is healthy"))
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		logger.Audit("[Gateway] [Error] " + r.URL.Path + " from " + r.RemoteAddr + " (route not found)")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("404 - Route not found"))
	})
	return mux, nil
}
