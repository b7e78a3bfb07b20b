// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

/*
Package botclient talks to the bot's internal settings API and reconciles its
answers with the local settings service.

# Overview

  - Client: plain HTTP client for the four internal endpoints, bearer token
    authentication, 10 second timeout, no retries.
  - CircuitBreakerClient: the same calls behind sony/gobreaker so that an
    unreachable bot fails fast.
  - FirstSuccess: ordered fallback over named sources.
  - Syncer: the settings provider used by the dashboard. Remote answers are
    preferred and written through to the local store; local data answers
    whenever the bot cannot.

# Failure Semantics

Remote failures never reach the end user while a fallback answer exists. A
write succeeds when either the remote push or the local write succeeded.
Validation errors are never retried against another source.
*/
package botclient
