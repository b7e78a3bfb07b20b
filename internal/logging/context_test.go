// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestGenerateIDs(t *testing.T) {
	t.Parallel()

	if id := GenerateCorrelationID(); len(id) != 8 {
		t.Errorf("expected 8 character correlation ID, got %q", id)
	}
	a, b := GenerateRequestID(), GenerateRequestID()
	if len(a) != 36 {
		t.Errorf("expected UUID request ID, got %q", a)
	}
	if a == b {
		t.Error("expected unique request IDs")
	}
}

func TestContextValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" || CorrelationIDFromContext(ctx) != "" || GuildIDFromContext(ctx) != "" {
		t.Fatal("expected empty values on a bare context")
	}

	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	ctx = ContextWithGuildID(ctx, "123")

	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext = %q, want req-1", got)
	}
	if got := CorrelationIDFromContext(ctx); got != "corr-1" {
		t.Errorf("CorrelationIDFromContext = %q, want corr-1", got)
	}
	if got := GuildIDFromContext(ctx); got != "123" {
		t.Errorf("GuildIDFromContext = %q, want 123", got)
	}
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))

	ctx := ContextWithCorrelationID(context.Background(), "corr-123")
	ctx = ContextWithRequestID(ctx, "req-456")
	ctx = ContextWithGuildID(ctx, "987")

	Ctx(ctx).Info().Msg("context test")

	output := buf.String()
	for _, want := range []string{"corr-123", "req-456", `"guild_id":"987"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
}

func TestCtxErr(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))

	ctx := ContextWithCorrelationID(context.Background(), "err-123")
	CtxErr(ctx, errors.New("remote unreachable")).Msg("fallback")

	output := buf.String()
	if !strings.Contains(output, "err-123") || !strings.Contains(output, "remote unreachable") {
		t.Errorf("expected correlation id and error in output: %s", output)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))

	logger := WithComponent("settings-store")
	logger.Info().Msg("store opened")

	if !strings.Contains(buf.String(), `"component":"settings-store"`) {
		t.Errorf("expected component in output: %s", buf.String())
	}
}

func TestSlogLoggerWritesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))

	logger := NewSlogLogger().With("supervisor", "guildsync").WithGroup("event")
	logger.Warn("service restarted", slog.Int("attempt", 2))

	output := buf.String()
	for _, want := range []string{`"level":"warn"`, `"supervisor":"guildsync"`, `"event.attempt":2`, "service restarted"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
}
