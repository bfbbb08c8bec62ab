package redis

import (
	"context"
	"testing"
	"time"
)

func TestKeys(t *testing.T) {
	if got := Channel("user-1"); got != "notifications:user-1" {
		t.Fatalf("unexpected channel %q", got)
	}
	if got := revokedKey("jti-1"); got != "revoked:jti-1" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	ctx := context.Background()
	if _, err := Connect(ctx, Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond}); err == nil {
		t.Fatalf("expected ping failure against a closed port")
	}
}

func TestConfigOptions(t *testing.T) {
	opts, err := Config{Addr: "cache:6379", Password: "pw", DB: 2}.options()
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Addr != "cache:6379" || opts.Password != "pw" || opts.DB != 2 {
		t.Fatalf("unexpected options %+v", opts)
	}

	opts, err = Config{Addr: "redis://:secret@cache:6380/5", Password: "ignored"}.options()
	if err != nil {
		t.Fatalf("options from url: %v", err)
	}
	if opts.Addr != "cache:6380" || opts.Password != "secret" || opts.DB != 5 {
		t.Fatalf("unexpected url options %+v", opts)
	}

	if _, err := (Config{Addr: "redis://cache:6379/notanumber"}).options(); err == nil {
		t.Fatalf("expected error for a bad database in the url")
	}
}
