package db

import (
	"context"
	"path/filepath"
	"testing"

	"found-music-bot/models"
)

func TestSQLiteRecordAndStats(t *testing.T) {
	ctx := context.Background()
	client, err := NewSQLiteClient(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteClient: %v", err)
	}
	defer client.Close()

	lookups := []models.Lookup{
		{ChatID: 1, Kind: "text", Input: "Bohemian Rhapsody", Outcome: models.OutcomeFound, Title: "Bohemian Rhapsody", Artist: "Queen"},
		{ChatID: 1, Kind: "voice", Input: "abc123", Outcome: models.OutcomeNotFound},
		{ChatID: 1, Kind: "document", Input: "doc1", Outcome: models.OutcomeRejected},
		{ChatID: 2, Kind: "audio", Input: "def456", Outcome: models.OutcomeFailed},
	}
	for _, l := range lookups {
		if err := client.Record(ctx, l); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	stats, err := client.Stats(ctx, 1)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := models.LookupStats{Total: 3, Found: 1, NotFound: 1, Rejected: 1}
	if stats != want {
		t.Errorf("Stats(1) = %+v, want %+v", stats, want)
	}

	all, err := client.Stats(ctx, 0)
	if err != nil {
		t.Fatalf("Stats(0): %v", err)
	}
	if all.Total != 4 || all.Failed != 1 {
		t.Errorf("Stats(0) = %+v", all)
	}
}

func TestNewHistoryClient(t *testing.T) {
	ctx := context.Background()

	client, err := NewHistoryClient(ctx, "", "", "")
	if err != nil || client != nil {
		t.Errorf("disabled history = %v, %v; want nil, nil", client, err)
	}

	if _, err := NewHistoryClient(ctx, "redis", "", ""); err == nil {
		t.Error("expected error for unsupported type")
	}

	client, err = NewHistoryClient(ctx, "sqlite", filepath.Join(t.TempDir(), "h.db"), "")
	if err != nil {
		t.Fatalf("sqlite history: %v", err)
	}
	client.Close()
}
