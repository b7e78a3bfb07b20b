// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestSupervisorTreeConstruction(t *testing.T) {
	t.Run("creates hierarchical supervisor tree", func(t *testing.T) {
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
			FailureThreshold: 5,
			FailureBackoff:   time.Second,
			ShutdownTimeout:  10 * time.Second,
		})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}
		if tree.Root() == nil {
			t.Error("root supervisor should not be nil")
		}
	})

	t.Run("applies default values for zero config", func(t *testing.T) {
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}
		if tree.config != DefaultTreeConfig() {
			t.Errorf("config = %+v, want defaults %+v", tree.config, DefaultTreeConfig())
		}
	})
}

func TestSupervisorTreeLayers(t *testing.T) {
	tests := []struct {
		name string
		add  func(*SupervisorTree, suture.Service) suture.ServiceToken
	}{
		{"storage", (*SupervisorTree).AddStorageService},
		{"gateway", (*SupervisorTree).AddGatewayService},
		{"api", (*SupervisorTree).AddAPIService},
	}

	for _, tt := range tests {
		t.Run(tt.name+" layer services are started", func(t *testing.T) {
			tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})

			svc := NewMockService(tt.name + "-service")
			tt.add(tree, svc)

			ctx, cancel := context.WithCancel(context.Background())
			errCh := tree.ServeBackground(ctx)

			if !waitFor(t, time.Second, func() bool { return svc.StartCount() >= 1 }) {
				t.Errorf("%s service was not started", tt.name)
			}
			cancel()
			<-errCh

			if svc.StopCount() != svc.StartCount() {
				t.Errorf("stops = %d, starts = %d", svc.StopCount(), svc.StartCount())
			}
		})
	}
}

func TestSupervisorTreeLifecycle(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   100 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}
	tree.AddStorageService(NewMockService("mock-storage"))
	tree.AddGatewayService(NewMockService("mock-gateway"))
	tree.AddAPIService(NewMockService("mock-api"))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- tree.Serve(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not shut down in time")
	}

	report, err := tree.UnstoppedServiceReport()
	if err != nil {
		t.Fatalf("UnstoppedServiceReport() error = %v", err)
	}
	if len(report) != 0 {
		t.Errorf("unstopped services: %v", report)
	}
}

func TestSupervisorTreeFailureIsolation(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	gateway := NewMockService("flaky-gateway")
	gateway.SetFailCount(2)
	api := NewMockService("api")

	tree.AddGatewayService(gateway)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	if !waitFor(t, 2*time.Second, func() bool { return gateway.StartCount() >= 3 }) {
		t.Errorf("expected at least 3 starts for the failing service, got %d", gateway.StartCount())
	}
	if api.StartCount() != 1 {
		t.Errorf("api service starts = %d, want 1 (not restarted by a gateway failure)", api.StartCount())
	}

	cancel()
	<-errCh
}

func TestMockService(t *testing.T) {
	t.Run("returns configured error", func(t *testing.T) {
		svc := NewMockService("err")
		want := errors.New("boom")
		svc.SetError(want)
		if err := svc.Serve(context.Background()); !errors.Is(err, want) {
			t.Errorf("Serve() = %v, want %v", err, want)
		}
	})

	t.Run("String returns the name", func(t *testing.T) {
		if got := NewMockService("named").String(); got != "named" {
			t.Errorf("String() = %q", got)
		}
	})
}
