package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dhalvorsen/focal/internal/attention"
)

// AuditRecord is a single persisted warning, tied to the request that
// produced it.
type AuditRecord struct {
	ID            string    `json:"id"`
	RequestID     string    `json:"requestId"`
	UserID        string    `json:"userId,omitempty"`
	Operation     string    `json:"operation"`
	Level         string    `json:"level"`
	WarningType   string    `json:"type"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Suggestion    string    `json:"suggestion,omitempty"`
	Severity      int       `json:"severity"`
	AffectedItems []string  `json:"affectedItems,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AuditFilter narrows ListWarnings results. Zero values mean "no filter".
type AuditFilter struct {
	UserID      string
	Operation   string
	WarningType string
	Since       time.Time
	Limit       int
}

// SaveWarnings persists all warnings from one request atomically.
// Saving an empty slice is a no-op.
func (s *Store) SaveWarnings(ctx context.Context, requestID, userID, operation string, warnings []attention.Warning) error {
	if len(warnings) == 0 {
		return nil
	}

	return s.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO attention_warnings (
				id, request_id, user_id, operation,
				level, warning_type, title, description, suggestion,
				severity, affected_items, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`

		now := time.Now().UTC()
		for _, w := range warnings {
			levelText, err := w.Level.MarshalText()
			if err != nil {
				return fmt.Errorf("marshal warning level: %w", err)
			}
			typeText, err := w.Type.MarshalText()
			if err != nil {
				return fmt.Errorf("marshal warning type: %w", err)
			}
			affectedJSON, err := json.Marshal(w.AffectedItems)
			if err != nil {
				return fmt.Errorf("marshal affected items: %w", err)
			}
			if w.AffectedItems == nil {
				affectedJSON = []byte("[]")
			}

			_, err = tx.ExecContext(ctx, query,
				uuid.NewString(), requestID, userID, operation,
				string(levelText), string(typeText), w.Title, w.Description, w.Suggestion,
				w.Severity, string(affectedJSON), now,
			)
			if err != nil {
				return fmt.Errorf("insert warning: %w", err)
			}
		}

		return nil
	})
}

// ListWarnings returns audit records matching the filter, most recent first.
func (s *Store) ListWarnings(ctx context.Context, filter AuditFilter) ([]AuditRecord, error) {
	var conditions []string
	var args []interface{}

	if filter.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Operation != "" {
		conditions = append(conditions, "operation = ?")
		args = append(args, filter.Operation)
	}
	if filter.WarningType != "" {
		conditions = append(conditions, "warning_type = ?")
		args = append(args, filter.WarningType)
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, filter.Since.UTC())
	}

	query := `
		SELECT id, request_id, user_id, operation,
		       level, warning_type, title, description, suggestion,
		       severity, affected_items, created_at
		FROM attention_warnings
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, severity DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query warnings: %w", err)
	}
	defer rows.Close()

	var records []AuditRecord
	for rows.Next() {
		var rec AuditRecord
		var affectedJSON string
		err := rows.Scan(
			&rec.ID, &rec.RequestID, &rec.UserID, &rec.Operation,
			&rec.Level, &rec.WarningType, &rec.Title, &rec.Description, &rec.Suggestion,
			&rec.Severity, &affectedJSON, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan warning row: %w", err)
		}
		if err := json.Unmarshal([]byte(affectedJSON), &rec.AffectedItems); err != nil {
			return nil, fmt.Errorf("unmarshal affected items: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate warning rows: %w", err)
	}

	return records, nil
}

// CountWarnings returns how many audit records match the filter.
func (s *Store) CountWarnings(ctx context.Context, filter AuditFilter) (int, error) {
	var conditions []string
	var args []interface{}

	if filter.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Operation != "" {
		conditions = append(conditions, "operation = ?")
		args = append(args, filter.Operation)
	}
	if filter.WarningType != "" {
		conditions = append(conditions, "warning_type = ?")
		args = append(args, filter.WarningType)
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, filter.Since.UTC())
	}

	query := "SELECT COUNT(*) FROM attention_warnings"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count warnings: %w", err)
	}
	return count, nil
}

// PruneWarnings deletes audit records older than the cutoff and returns
// how many rows were removed.
func (s *Store) PruneWarnings(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM attention_warnings WHERE created_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune warnings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
