package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, Config{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "tf.db")}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close(ctx)

	if store.Driver != DriverSQLite {
		t.Fatalf("unexpected driver %q", store.Driver)
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if store.Tasks == nil || store.Accounts == nil || store.Notifications == nil {
		t.Fatalf("repositories not wired")
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: "cassandra"}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
