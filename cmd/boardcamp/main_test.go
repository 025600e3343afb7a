package main

import (
	"context"
	"log/slog"
	"reflect"
	"testing"

	"github.com/erazemk/boardcamp/internal/db"
	"github.com/erazemk/boardcamp/internal/store"
)

func TestParseFlags(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/boardcamp")
	t.Setenv("PORT", "5000")
	t.Setenv("BOARDCAMP_AUTH", "true")

	cfg, err := parseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.dsn != "postgres://localhost/boardcamp" || cfg.addr != ":5000" || !cfg.requireAuth {
		t.Errorf("expected environment defaults, got %+v", cfg)
	}

	cfg, err = parseFlags([]string{"-d", "test.sqlite3", "-addr", ":9000", "-auth=false"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.dsn != "test.sqlite3" || cfg.addr != ":9000" || cfg.requireAuth {
		t.Errorf("expected flags to win, got %+v", cfg)
	}

	if _, err := parseFlags([]string{"extra"}); err == nil {
		t.Error("expected error for positional argument")
	}
}

func TestSplitOrigins(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"https://a.example.com", []string{"https://a.example.com"}},
		{" https://a.example.com, ,https://b.example.com ", []string{"https://a.example.com", "https://b.example.com"}},
	}
	for _, tt := range tests {
		if got := splitOrigins(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitOrigins(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEnsureAdmin(t *testing.T) {
	conn := db.NewTestDB(t)
	ctx := context.Background()

	if err := ensureAdmin(ctx, conn, "boss"); err != nil {
		t.Fatalf("ensureAdmin: %v", err)
	}
	if err := ensureAdmin(ctx, conn, "boss"); err != nil {
		t.Fatalf("second ensureAdmin: %v", err)
	}

	n, err := store.CountStaff(ctx, conn)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected exactly one staff account, got %d", n)
	}
}

func TestSetupLoggerVerbose(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	ctx := context.Background()

	cleanup, err := setupLogger("", false)
	if err != nil {
		t.Fatal(err)
	}
	cleanup()
	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		t.Error("expected debug logs to be off by default")
	}

	cleanup, err = setupLogger("", true)
	if err != nil {
		t.Fatal(err)
	}
	cleanup()
	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		t.Error("expected -v to enable debug logs")
	}
	if !slog.Default().Enabled(ctx, slog.LevelError) {
		t.Error("expected errors to stay enabled")
	}
}
