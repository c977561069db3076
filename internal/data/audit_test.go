package data

import (
	"context"
	"testing"
	"time"

	"github.com/dhalvorsen/focal/internal/attention"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewDB(t.TempDir())
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndListWarnings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	warnings := []attention.Warning{
		{
			Level:         attention.LevelBlocking,
			Type:          attention.WarnBudgetLimit,
			Title:         "CREATE budget exceeded",
			Description:   "325% of daily budget",
			Suggestion:    "Move work to another day",
			Actionable:    true,
			Severity:      10,
			AffectedItems: []string{"evt-1", "evt-2"},
		},
		{
			Level:    attention.LevelWarning,
			Type:     attention.WarnContextSwitch,
			Title:    "Expensive context switch",
			Severity: 7,
		},
	}

	if err := store.SaveWarnings(ctx, "req-1", "user-a", "analyze", warnings); err != nil {
		t.Fatalf("SaveWarnings failed: %v", err)
	}

	records, err := store.ListWarnings(ctx, AuditFilter{})
	if err != nil {
		t.Fatalf("ListWarnings failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	byTitle := map[string]AuditRecord{}
	for _, r := range records {
		byTitle[r.Title] = r
	}

	budget, ok := byTitle["CREATE budget exceeded"]
	if !ok {
		t.Fatal("budget warning not persisted")
	}
	if budget.RequestID != "req-1" || budget.UserID != "user-a" || budget.Operation != "analyze" {
		t.Errorf("unexpected request fields: %+v", budget)
	}
	if budget.Level != "blocking" || budget.WarningType != "budget_limit" {
		t.Errorf("unexpected level/type: %s/%s", budget.Level, budget.WarningType)
	}
	if budget.Severity != 10 {
		t.Errorf("expected severity 10, got %d", budget.Severity)
	}
	if len(budget.AffectedItems) != 2 || budget.AffectedItems[0] != "evt-1" {
		t.Errorf("unexpected affected items: %v", budget.AffectedItems)
	}
	if budget.ID == "" {
		t.Error("expected generated record ID")
	}

	sw := byTitle["Expensive context switch"]
	if len(sw.AffectedItems) != 0 {
		t.Errorf("expected empty affected items, got %v", sw.AffectedItems)
	}
}

func TestSaveWarningsEmptyIsNoOp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveWarnings(ctx, "req-1", "", "validate", nil); err != nil {
		t.Fatalf("SaveWarnings with no warnings failed: %v", err)
	}

	count, err := store.CountWarnings(ctx, AuditFilter{})
	if err != nil {
		t.Fatalf("CountWarnings failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty table, got %d rows", count)
	}
}

func TestListWarningsFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := func(requestID, userID, operation string, w attention.Warning) {
		t.Helper()
		if err := store.SaveWarnings(ctx, requestID, userID, operation, []attention.Warning{w}); err != nil {
			t.Fatalf("SaveWarnings failed: %v", err)
		}
	}

	seed("r1", "alice", "analyze", attention.Warning{
		Level: attention.LevelCritical, Type: attention.WarnBudgetLimit,
		Title: "budget", Severity: 8,
	})
	seed("r2", "alice", "validate", attention.Warning{
		Level: attention.LevelWarning, Type: attention.WarnContextSwitch,
		Title: "switch", Severity: 7,
	})
	seed("r3", "bob", "analyze", attention.Warning{
		Level: attention.LevelInfo, Type: attention.WarnPeakHours,
		Title: "peak", Severity: 4,
	})

	t.Run("by user", func(t *testing.T) {
		records, err := store.ListWarnings(ctx, AuditFilter{UserID: "alice"})
		if err != nil {
			t.Fatalf("ListWarnings failed: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("expected 2 records for alice, got %d", len(records))
		}
	})

	t.Run("by operation", func(t *testing.T) {
		records, err := store.ListWarnings(ctx, AuditFilter{Operation: "validate"})
		if err != nil {
			t.Fatalf("ListWarnings failed: %v", err)
		}
		if len(records) != 1 || records[0].Title != "switch" {
			t.Errorf("unexpected validate records: %+v", records)
		}
	})

	t.Run("by warning type", func(t *testing.T) {
		records, err := store.ListWarnings(ctx, AuditFilter{WarningType: "peak_hours"})
		if err != nil {
			t.Fatalf("ListWarnings failed: %v", err)
		}
		if len(records) != 1 || records[0].UserID != "bob" {
			t.Errorf("unexpected peak_hours records: %+v", records)
		}
	})

	t.Run("limit applies", func(t *testing.T) {
		records, err := store.ListWarnings(ctx, AuditFilter{Limit: 2})
		if err != nil {
			t.Fatalf("ListWarnings failed: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("expected limit of 2, got %d", len(records))
		}
	})

	t.Run("since in the future excludes everything", func(t *testing.T) {
		records, err := store.ListWarnings(ctx, AuditFilter{Since: time.Now().Add(time.Hour)})
		if err != nil {
			t.Fatalf("ListWarnings failed: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("expected no records, got %d", len(records))
		}
	})
}

func TestPruneWarnings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.SaveWarnings(ctx, "r1", "", "analyze", []attention.Warning{
		{Level: attention.LevelWarning, Type: attention.WarnBudgetLimit, Title: "old", Severity: 6},
	})
	if err != nil {
		t.Fatalf("SaveWarnings failed: %v", err)
	}

	t.Run("cutoff in the past keeps rows", func(t *testing.T) {
		n, err := store.PruneWarnings(ctx, time.Now().Add(-time.Hour))
		if err != nil {
			t.Fatalf("PruneWarnings failed: %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 pruned, got %d", n)
		}
	})

	t.Run("cutoff in the future removes rows", func(t *testing.T) {
		n, err := store.PruneWarnings(ctx, time.Now().Add(time.Hour))
		if err != nil {
			t.Fatalf("PruneWarnings failed: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 pruned, got %d", n)
		}

		count, _ := store.CountWarnings(ctx, AuditFilter{})
		if count != 0 {
			t.Errorf("expected empty table after prune, got %d", count)
		}
	})
}
