package infra

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestShutdownRunsDrainHooks(t *testing.T) {
	cfg := &Config{
		Port:             "0",
		HTTPReadTimeout:  time.Second,
		HTTPWriteTimeout: time.Second,
		HTTPIdleTimeout:  time.Second,
	}
	srv := NewHTTPServer(cfg, http.NewServeMux())

	var order []string
	srv.OnShutdown(func() { order = append(order, "first") })
	srv.OnShutdown(func() { order = append(order, "second") })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("hooks ran as %v, want [first second]", order)
	}
}

func TestShutdownNilServerIsNoop(t *testing.T) {
	var srv HTTPServer
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown on zero value: %v", err)
	}
}
