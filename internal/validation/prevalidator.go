package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserInactive = errors.New("user is not active")
)

// ValidationResult contains the pre-validated user data for an upload
type ValidationResult struct {
	UserID string
	Name   string
	Email  string
	Status string
}

// PreValidateRequest confirms in a single query that the user still exists
// and is active before any file is processed.
func PreValidateRequest(ctx context.Context, db *pgxpool.Pool, userID string) (*ValidationResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	query := `
		SELECT
			id,
			COALESCE(employee_name, ''),
			COALESCE(email, ''),
			COALESCE(status, '')
		FROM users
		WHERE id = $1
		LIMIT 1
	`

	var result ValidationResult
	err := db.QueryRow(ctx, query, userID).Scan(
		&result.UserID,
		&result.Name,
		&result.Email,
		&result.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to validate user: %w", err)
	}
	if err := checkStatus(result.Status); err != nil {
		return nil, err
	}
	return &result, nil
}

func checkStatus(status string) error {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "", "active", "approved":
		return nil
	default:
		return fmt.Errorf("%w: status %q", ErrUserInactive, status)
	}
}
