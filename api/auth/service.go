package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"DueReportSaas/internal/config"
	"DueReportSaas/internal/logger"
	"DueReportSaas/internal/session"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials or user not found")
	ErrUserInactive       = errors.New("user is not active")
	ErrMaxUsers           = errors.New("maximum concurrent users reached")
	ErrSessionNotFound    = errors.New("session not found")
	ErrUnavailable        = errors.New("auth database not configured")
)

type UserSession struct {
	SessionID     string    `json:"session_id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	LastLoginTime string    `json:"last_login_time"`
	ClientIP      string    `json:"client_ip"`
	IsLoggedIn    bool      `json:"is_logged_in"`
	ExpiresAt     time.Time `json:"expires_at"`
}

type AuthService struct {
	db             *sql.DB
	maxUsers       int
	sessionTimeout time.Duration
	sessions       *session.Manager
	users          map[string]*UserSession
	mu             sync.Mutex
}

func NewAuthService(db *sql.DB, maxUsers int, sessionTimeout time.Duration) *AuthService {
	if sessionTimeout <= 0 {
		sessionTimeout = config.DefaultSessionTimeout
	}
	return &AuthService{
		db:             db,
		maxUsers:       maxUsers,
		sessionTimeout: sessionTimeout,
		sessions:       session.NewManager(),
		users:          make(map[string]*UserSession),
	}
}

func (a *AuthService) Name() string { return "auth" }

func (a *AuthService) Start() error {
	logger.Audit(fmt.Sprintf("AuthService started, max users %d, session timeout %s", a.maxUsers, a.sessionTimeout))
	return nil
}

func (a *AuthService) Stop() error {
	return nil
}

// Login checks the credentials against the users table and opens a session.
// A user who already holds a live session gets that session back.
func (a *AuthService) Login(username, password string, clientIP string) (*UserSession, error) {
	if a.db == nil {
		return nil, ErrUnavailable
	}

	var (
		userID, name, email, hash string
		status                    sql.NullString
	)
	query := `
    SELECT
        u.id,
        u.employee_name,
        u.email,
        u.password_hash,
        u.status
    FROM users u
    WHERE LOWER(u.email) = LOWER($1)
    `
	err := a.db.QueryRow(query, strings.TrimSpace(username)).Scan(&userID, &name, &email, &hash, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login query failed: %w", err)
	}
	if status.Valid && !strings.EqualFold(status.String, "active") {
		return nil, ErrUserInactive
	}
	if err := verifyPassword(hash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return a.OpenSession(userID, name, email, clientIP)
}

// OpenSession registers a logged-in user. Login calls it after the
// credentials check.
func (a *AuthService) OpenSession(userID, name, email, clientIP string) (*UserSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if existing, ok := a.sessions.FindByUser(userID); ok {
		if us, ok := a.users[existing.ID]; ok {
			us.LastLoginTime = time.Now().Format(time.RFC3339)
			us.ClientIP = clientIP
			logger.Audit(fmt.Sprintf("User %s re-logged in, Returning Existing session", email))
			return us, nil
		}
	}

	if a.maxUsers > 0 && len(a.sessions.Active()) >= a.maxUsers {
		return nil, ErrMaxUsers
	}

	s := a.sessions.CreateSession(userID, a.sessionTimeout)
	us := &UserSession{
		SessionID:     s.ID,
		UserID:        userID,
		Name:          name,
		Email:         email,
		LastLoginTime: s.CreatedAt.Format(time.RFC3339),
		ClientIP:      clientIP,
		IsLoggedIn:    true,
		ExpiresAt:     s.ExpiresAt,
	}
	a.users[s.ID] = us

	logger.Audit(fmt.Sprintf("User logged in: %s", email))
	return us, nil
}

func (a *AuthService) Logout(sessionID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	us, exists := a.users[sessionID]
	if !exists {
		return ErrSessionNotFound
	}
	delete(a.users, sessionID)
	a.sessions.DeleteSession(sessionID)

	logger.Audit("User logged out: " + us.UserID)
	return nil
}

// GetActiveSessions lists sessions that have not expired, oldest first.
func (a *AuthService) GetActiveSessions() []*UserSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	active := a.sessions.Active()
	out := make([]*UserSession, 0, len(active))
	for _, s := range active {
		if us, ok := a.users[s.ID]; ok {
			out = append(out, us)
		}
	}
	return out
}

// CleanupExpired drops expired sessions and returns how many were removed.
func (a *AuthService) CleanupExpired() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	removed := a.sessions.CleanupExpiredSessions()
	for _, id := range removed {
		delete(a.users, id)
	}
	return len(removed)
}

func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

var globalAuthService *AuthService

// SetGlobalAuthService sets the global AuthService instance
func SetGlobalAuthService(svc *AuthService) {
	globalAuthService = svc
}

// GetActiveSessions returns active sessions from the global AuthService
func GetActiveSessions() []*UserSession {
	if globalAuthService == nil {
		return nil
	}
	return globalAuthService.GetActiveSessions()
}
