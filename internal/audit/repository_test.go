package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-ems/internal/infrastructure/database"
	_ "github.com/nerrad567/gray-logic-ems/migrations"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.Config{Path: database.MemoryPath})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return NewSQLiteRepository(db.DB)
}

func TestSQLiteRepository_CreateAndList(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	entries := []*Entry{
		{Source: SourceAPI, Path: "api/boiler/dhw/wwseltemp", Device: "boiler", Command: "wwseltemp", Value: "55", Code: 1, Result: "OK", CreatedAt: base},
		{Source: SourceMQTT, Path: "ems-esp/thermostat/hc2/seltemp", Device: "thermostat", Command: "seltemp", Value: "21", Admin: true, Code: 1, Result: "OK", CreatedAt: base.Add(time.Minute)},
		{Source: SourceAPI, Path: "api/thermostat/datetime", Device: "thermostat", Command: "datetime", Code: 4, Result: "Not Authorized", Details: map[string]any{"message": "authentication failed"}, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if e.ID == "" {
			t.Error("Create() did not assign an ID")
		}
	}

	tests := []struct {
		name      string
		filter    Filter
		wantTotal int
		wantFirst string
	}{
		{"all, newest first", Filter{}, 3, "datetime"},
		{"by device", Filter{Device: "thermostat"}, 2, "datetime"},
		{"by source", Filter{Source: SourceMQTT}, 1, "seltemp"},
		{"failed only", Filter{FailedOnly: true}, 1, "datetime"},
		{"offset", Filter{Limit: 1, Offset: 2}, 3, "wwseltemp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if res.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", res.Total, tt.wantTotal)
			}
			if len(res.Entries) == 0 || res.Entries[0].Command != tt.wantFirst {
				t.Fatalf("first entry = %+v, want command %q", res.Entries, tt.wantFirst)
			}
		})
	}

	res, _ := repo.List(ctx, Filter{FailedOnly: true}) //nolint:errcheck // checked above
	got := res.Entries[0]
	if got.Details["message"] != "authentication failed" || got.Admin || got.Value != "" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("CreatedAt = %v", got.CreatedAt)
	}
}

func TestSQLiteRepository_ListLimits(t *testing.T) {
	repo := newTestRepository(t)

	res, err := repo.List(context.Background(), Filter{Limit: 1000, Offset: -5})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if res.Limit != maxLimit || res.Offset != 0 {
		t.Errorf("Limit = %d, Offset = %d", res.Limit, res.Offset)
	}
	if res.Entries == nil {
		t.Error("Entries is nil, want empty slice")
	}
}

func TestSQLiteRepository_CreateInvalid(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.Create(context.Background(), &Entry{Path: "api/boiler"})
	if !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Create() error = %v, want ErrInvalidEntry", err)
	}
}
