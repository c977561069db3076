// Package data provides tests for the SQLite audit store.
package data

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

func TestNewDB(t *testing.T) {
	t.Run("creates database in valid directory", func(t *testing.T) {
		tmpDir := t.TempDir()

		store, err := NewDB(tmpDir)
		if err != nil {
			t.Fatalf("NewDB failed: %v", err)
		}
		defer store.Close()

		dbPath := filepath.Join(tmpDir, "audit.db")
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("database file not created")
		}

		if err := store.Health(); err != nil {
			t.Errorf("health check failed: %v", err)
		}
	})

	t.Run("creates nested directory structure", func(t *testing.T) {
		tmpDir := t.TempDir()
		nestedDir := filepath.Join(tmpDir, "deep", "nested", "focal")

		store, err := NewDB(nestedDir)
		if err != nil {
			t.Fatalf("NewDB with nested dir failed: %v", err)
		}
		defer store.Close()

		if _, err := os.Stat(nestedDir); os.IsNotExist(err) {
			t.Error("nested directory not created")
		}
	})

	t.Run("idempotent migrations", func(t *testing.T) {
		tmpDir := t.TempDir()

		store1, err := NewDB(tmpDir)
		if err != nil {
			t.Fatalf("first NewDB failed: %v", err)
		}
		store1.Close()

		// Second open re-runs migrations against the same file.
		store2, err := NewDB(tmpDir)
		if err != nil {
			t.Fatalf("second NewDB failed: %v", err)
		}
		defer store2.Close()

		if err := store2.Health(); err != nil {
			t.Errorf("health check after re-migration failed: %v", err)
		}
	})
}

func TestWithTx(t *testing.T) {
	store, err := NewDB(t.TempDir())
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		err := store.WithTx(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO attention_warnings (id, request_id, operation, level, warning_type, title)
				VALUES ('w1', 'r1', 'analyze', 'warning', 'budget_limit', 'test')
			`)
			return err
		})
		if err != nil {
			t.Fatalf("WithTx failed: %v", err)
		}

		count, err := store.CountWarnings(ctx, AuditFilter{})
		if err != nil {
			t.Fatalf("CountWarnings failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 row after commit, got %d", count)
		}
	})

	t.Run("rolls back on error", func(t *testing.T) {
		wantErr := os.ErrInvalid
		err := store.WithTx(ctx, func(tx *sql.Tx) error {
			_, execErr := tx.ExecContext(ctx, `
				INSERT INTO attention_warnings (id, request_id, operation, level, warning_type, title)
				VALUES ('w2', 'r2', 'analyze', 'warning', 'budget_limit', 'rolled back')
			`)
			if execErr != nil {
				return execErr
			}
			return wantErr
		})
		if err != wantErr {
			t.Fatalf("expected wrapped error to surface, got %v", err)
		}

		count, err := store.CountWarnings(ctx, AuditFilter{})
		if err != nil {
			t.Fatalf("CountWarnings failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expected rollback to leave 1 row, got %d", count)
		}
	})
}

func TestSplitSQL(t *testing.T) {
	schema := `
-- comment line
CREATE TABLE a (id TEXT);

CREATE INDEX idx_a ON a(id);
`
	stmts := splitSQL(schema)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %v", len(stmts), stmts)
	}
}
